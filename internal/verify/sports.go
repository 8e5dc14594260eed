package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/config"
	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/market"
)

// SportsSource checks completed games against a sports results feed.
type SportsSource struct {
	cfg        config.VerifyConfig
	httpClient *http.Client
}

func NewSportsSource(cfg config.VerifyConfig, httpClient *http.Client) *SportsSource {
	return &SportsSource{cfg: cfg, httpClient: httpClient}
}

func (s *SportsSource) Name() string { return "sports_api" }

func (s *SportsSource) Lookup(ctx context.Context, c *market.Candidate) Result {
	if strings.TrimSpace(s.cfg.SportsAPIKey) == "" {
		return Result{Reasoning: "no sports API key configured"}
	}
	if c.Category != market.CategorySports {
		return Result{Reasoning: "not a sports market"}
	}

	query := url.Values{}
	query.Set("apiKey", s.cfg.SportsAPIKey)
	query.Set("q", c.Question)
	reqURL := strings.TrimRight(s.cfg.SportsAPIURL, "/") + "/scores?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Result{Reasoning: fmt.Sprintf("sports lookup failed: %v", err)}
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Result{Reasoning: fmt.Sprintf("sports lookup failed: %v", err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Result{Reasoning: fmt.Sprintf("sports API returned status %d", resp.StatusCode)}
	}

	var events []struct {
		Completed bool   `json:"completed"`
		Winner    string `json:"winner"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return Result{Reasoning: fmt.Sprintf("sports response decode failed: %v", err)}
	}
	winning := strings.ToLower(c.WinningOutcome())
	for _, ev := range events {
		if !ev.Completed || ev.Winner == "" {
			continue
		}
		if winning != "" && strings.Contains(strings.ToLower(ev.Winner), winning) {
			return Result{
				Verified:   true,
				Confidence: 0.9,
				Reasoning:  fmt.Sprintf("completed game winner %q matches outcome %q", ev.Winner, c.WinningOutcome()),
			}
		}
	}
	return Result{Reasoning: "no completed game matched the market outcome"}
}
