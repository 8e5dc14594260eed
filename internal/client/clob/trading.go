package clob

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// TradingAuth carries the credentials for authenticated endpoints.
// HMAC signing is opt-in; plain API-key mode is the common case.
type TradingAuth struct {
	APIKeyHeader string
	APIKey       string
	APISecret    string
	SignRequests bool

	TimestampHeader  string
	SignatureHeader  string
	Passphrase       string
	PassphraseHeader string
	Address          string
	AddressHeader    string
}

type MarketOrderRequest struct {
	TokenID   string  `json:"token_id"`
	Side      string  `json:"side"`
	OrderType string  `json:"order_type,omitempty"`
	AmountUSD float64 `json:"amount_usd"`
}

type OrderStatus struct {
	OrderID     string
	Status      string
	FilledUSD   float64
	AvgPrice    float64
	Failure     string
	SubmittedAt *time.Time
	FilledAt    *time.Time
}

// GetUSDCBalance returns the account's available USDC.
func (c *Client) GetUSDCBalance(ctx context.Context, auth TradingAuth) (float64, error) {
	body, err := c.doJSON(ctx, http.MethodGet, "/balance", nil, nil, auth)
	if err != nil {
		return 0, err
	}
	var root map[string]any
	if err := json.Unmarshal(body, &root); err != nil {
		return 0, err
	}
	if data, ok := root["data"].(map[string]any); ok {
		root = data
	}
	for _, key := range []string{"usdc", "balance", "available"} {
		if v, ok := root[key]; ok {
			s := strings.TrimSpace(fmt.Sprintf("%v", v))
			f, err := strconv.ParseFloat(s, 64)
			if err == nil {
				return f, nil
			}
		}
	}
	return 0, fmt.Errorf("balance missing in response")
}

// ExecuteMarketOrder submits a marketable buy for amountUSD of the
// token and returns the venue-assigned order identifier.
func (c *Client) ExecuteMarketOrder(ctx context.Context, tokenID string, amountUSD float64, auth TradingAuth) (string, error) {
	if tokenID == "" {
		return "", fmt.Errorf("token_id is required")
	}
	if amountUSD <= 0 {
		return "", fmt.Errorf("amount must be positive, got %v", amountUSD)
	}
	req := MarketOrderRequest{
		TokenID:   tokenID,
		Side:      "BUY",
		OrderType: "market",
		AmountUSD: amountUSD,
	}
	body, err := c.doJSON(ctx, http.MethodPost, "/order", nil, req, auth)
	if err != nil {
		return "", err
	}
	status, err := parseOrderStatus(body)
	if err != nil {
		return "", err
	}
	return status.OrderID, nil
}

// GetOrderStatus queries one order by identifier.
func (c *Client) GetOrderStatus(ctx context.Context, orderID string, auth TradingAuth) (*OrderStatus, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, fmt.Errorf("order id is required")
	}
	body, err := c.doJSON(ctx, http.MethodGet, "/orders/"+url.PathEscape(orderID), nil, nil, auth)
	if err != nil {
		return nil, err
	}
	return parseOrderStatus(body)
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, payload any, auth TradingAuth) ([]byte, error) {
	if c == nil || c.httpClient == nil {
		return nil, fmt.Errorf("client is nil")
	}
	fullURL := c.host + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}
	var body io.Reader
	bodyRaw := []byte{}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		bodyRaw = raw
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if v := strings.TrimSpace(auth.APIKey); v != "" {
		h := strings.TrimSpace(auth.APIKeyHeader)
		if h == "" {
			h = "X-API-Key"
		}
		req.Header.Set(h, v)
	}
	if v := strings.TrimSpace(auth.Passphrase); v != "" {
		h := strings.TrimSpace(auth.PassphraseHeader)
		if h == "" {
			h = "X-Passphrase"
		}
		req.Header.Set(h, v)
	}
	if v := strings.TrimSpace(auth.Address); v != "" {
		h := strings.TrimSpace(auth.AddressHeader)
		if h == "" {
			h = "X-Address"
		}
		req.Header.Set(h, v)
	}
	if auth.SignRequests && strings.TrimSpace(auth.APISecret) != "" {
		ts := strconv.FormatInt(time.Now().UTC().Unix(), 10)
		th := strings.TrimSpace(auth.TimestampHeader)
		if th == "" {
			th = "X-Timestamp"
		}
		sh := strings.TrimSpace(auth.SignatureHeader)
		if sh == "" {
			sh = "X-Signature"
		}
		canonicalPath := path
		if len(query) > 0 {
			canonicalPath += "?" + query.Encode()
		}
		payloadToSign := ts + "\n" + strings.ToUpper(strings.TrimSpace(method)) + "\n" + canonicalPath + "\n" + string(bodyRaw)
		mac := hmac.New(sha256.New, []byte(auth.APISecret))
		_, _ = mac.Write([]byte(payloadToSign))
		sig := base64.StdEncoding.EncodeToString(mac.Sum(nil))
		req.Header.Set(th, ts)
		req.Header.Set(sh, sig)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Body: string(respBody)}
	}
	return respBody, nil
}

func parseOrderStatus(raw []byte) (*OrderStatus, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty order response")
	}
	var root map[string]any
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, err
	}
	// common envelopes: {data:{...}} or {order:{...}}
	if data, ok := root["data"].(map[string]any); ok {
		root = data
	}
	if order, ok := root["order"].(map[string]any); ok {
		root = order
	}
	out := &OrderStatus{}
	out.OrderID = firstString(root, "order_id", "id", "orderID")
	out.Status = strings.ToLower(strings.TrimSpace(firstString(root, "status", "state")))
	out.Failure = firstString(root, "failure_reason", "error", "message")
	out.FilledUSD = firstFloat(root, "filled_usd", "filled_value", "filled")
	out.AvgPrice = firstFloat(root, "avg_price", "average_price", "price")
	out.SubmittedAt = firstTime(root, "submitted_at", "created_at")
	out.FilledAt = firstTime(root, "filled_at", "done_at")
	if out.OrderID == "" {
		return nil, fmt.Errorf("order id missing in response")
	}
	return out, nil
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			s := strings.TrimSpace(fmt.Sprintf("%v", v))
			if s != "" && s != "<nil>" {
				return s
			}
		}
	}
	return ""
}

func firstFloat(m map[string]any, keys ...string) float64 {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		s := strings.TrimSpace(fmt.Sprintf("%v", v))
		if s == "" || s == "<nil>" {
			continue
		}
		f, err := strconv.ParseFloat(s, 64)
		if err == nil {
			return f
		}
	}
	return 0
}

func firstTime(m map[string]any, keys ...string) *time.Time {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		s := strings.TrimSpace(fmt.Sprintf("%v", v))
		if s == "" || s == "<nil>" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			u := t.UTC()
			return &u
		}
	}
	return nil
}
