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

// NewsSource searches recent headlines for confirmation of the
// expected outcome. It requires several independent articles before
// it will verify.
type NewsSource struct {
	cfg        config.VerifyConfig
	httpClient *http.Client

	// Minimum matching headlines before the outcome counts as
	// confirmed.
	minArticles int
}

func NewNewsSource(cfg config.VerifyConfig, httpClient *http.Client) *NewsSource {
	return &NewsSource{cfg: cfg, httpClient: httpClient, minArticles: 3}
}

func (s *NewsSource) Name() string { return "news_api" }

func (s *NewsSource) Lookup(ctx context.Context, c *market.Candidate) Result {
	if strings.TrimSpace(s.cfg.NewsAPIKey) == "" {
		return Result{Reasoning: "no news API key configured"}
	}

	query := url.Values{}
	query.Set("apiKey", s.cfg.NewsAPIKey)
	query.Set("q", c.Question)
	query.Set("sortBy", "publishedAt")
	reqURL := strings.TrimRight(s.cfg.NewsAPIURL, "/") + "/everything?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Result{Reasoning: fmt.Sprintf("news lookup failed: %v", err)}
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Result{Reasoning: fmt.Sprintf("news lookup failed: %v", err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Result{Reasoning: fmt.Sprintf("news API returned status %d", resp.StatusCode)}
	}

	var payload struct {
		Articles []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"articles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Result{Reasoning: fmt.Sprintf("news response decode failed: %v", err)}
	}

	winning := strings.ToLower(c.WinningOutcome())
	if winning == "" {
		return Result{Reasoning: "candidate has no winning outcome label"}
	}
	matches := 0
	for _, a := range payload.Articles {
		text := strings.ToLower(a.Title + " " + a.Description)
		if strings.Contains(text, winning) {
			matches++
		}
	}
	if matches >= s.minArticles {
		return Result{
			Verified:   true,
			Confidence: 0.7,
			Reasoning:  fmt.Sprintf("%d recent articles mention outcome %q", matches, c.WinningOutcome()),
		}
	}
	return Result{Reasoning: fmt.Sprintf("only %d matching articles, need %d", matches, s.minArticles)}
}
