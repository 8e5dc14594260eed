package verify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/config"
	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/market"
)

type stubSource struct {
	name   string
	result Result
	calls  int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Lookup(ctx context.Context, c *market.Candidate) Result {
	s.calls++
	return s.result
}

func TestVerifyOutcomeShortCircuits(t *testing.T) {
	first := &stubSource{name: "first", result: Result{Verified: true, Confidence: 0.9, Reasoning: "confirmed"}}
	second := &stubSource{name: "second"}
	v := NewVerifier(nil, first, second)

	res := v.VerifyOutcome(context.Background(), &market.Candidate{MarketID: 1})
	if !res.Verified || res.Confidence != 0.9 {
		t.Fatalf("result = %+v, want verified at 0.9", res)
	}
	if len(res.Sources) != 1 || res.Sources[0] != "first" {
		t.Fatalf("sources = %v, want [first]", res.Sources)
	}
	if second.calls != 0 {
		t.Fatalf("second source should not be consulted after a verify")
	}
}

func TestVerifyOutcomeFallsThrough(t *testing.T) {
	first := &stubSource{name: "first", result: Result{Reasoning: "no key"}}
	second := &stubSource{name: "second", result: Result{Verified: true, Confidence: 0.7}}
	v := NewVerifier(nil, first, second)

	res := v.VerifyOutcome(context.Background(), &market.Candidate{MarketID: 1})
	if !res.Verified {
		t.Fatalf("second source should verify, got %+v", res)
	}
	if len(res.Sources) != 1 || res.Sources[0] != "second" {
		t.Fatalf("sources = %v, want [second]", res.Sources)
	}
}

func TestVerifyOutcomeDefaultUnverified(t *testing.T) {
	v := NewVerifier(nil, &stubSource{name: "a"}, &stubSource{name: "b"})
	res := v.VerifyOutcome(context.Background(), &market.Candidate{MarketID: 1})
	if res.Verified || res.Confidence != 0 {
		t.Fatalf("result = %+v, want unverified with zero confidence", res)
	}
	if res.Reasoning == "" {
		t.Fatalf("unverified result should explain itself")
	}
}

func TestSportsSourceMissingKey(t *testing.T) {
	s := NewSportsSource(config.VerifyConfig{}, http.DefaultClient)
	res := s.Lookup(context.Background(), &market.Candidate{Category: market.CategorySports})
	if res.Verified {
		t.Fatalf("missing key must not verify")
	}
	if res.Reasoning == "" {
		t.Fatalf("missing key should carry a reason")
	}
}

func TestSportsSourceWrongCategory(t *testing.T) {
	s := NewSportsSource(config.VerifyConfig{SportsAPIKey: "k"}, http.DefaultClient)
	res := s.Lookup(context.Background(), &market.Candidate{Category: market.CategoryCrypto})
	if res.Verified || res.Reasoning != "not a sports market" {
		t.Fatalf("result = %+v, want not-a-sports-market", res)
	}
}

func TestSportsSourceMatchesWinner(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"completed": true, "winner": "Los Angeles Lakers"}]`))
	}))
	defer srv.Close()

	s := NewSportsSource(config.VerifyConfig{
		SportsAPIKey: "k",
		SportsAPIURL: srv.URL,
		Timeout:      5 * time.Second,
	}, srv.Client())
	c := &market.Candidate{
		Category:            market.CategorySports,
		Question:            "Will the Lakers win?",
		Outcomes:            []string{"Lakers", "Celtics"},
		WinningOutcomeIndex: 0,
	}
	res := s.Lookup(context.Background(), c)
	if !res.Verified || res.Confidence != 0.9 {
		t.Fatalf("result = %+v, want verified at 0.9", res)
	}
}

func TestNewsSourceNeedsEnoughArticles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"articles": [
			{"title": "Lakers clinch title", "description": ""},
			{"title": "Unrelated story", "description": ""}
		]}`))
	}))
	defer srv.Close()

	s := NewNewsSource(config.VerifyConfig{NewsAPIKey: "k", NewsAPIURL: srv.URL}, srv.Client())
	c := &market.Candidate{
		Question:            "Will the Lakers win?",
		Outcomes:            []string{"Lakers", "Celtics"},
		WinningOutcomeIndex: 0,
	}
	res := s.Lookup(context.Background(), c)
	if res.Verified {
		t.Fatalf("one matching article should not verify: %+v", res)
	}
}

func TestNewsSourceNetworkFailureDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewNewsSource(config.VerifyConfig{NewsAPIKey: "k", NewsAPIURL: srv.URL}, srv.Client())
	res := s.Lookup(context.Background(), &market.Candidate{Question: "q"})
	if res.Verified {
		t.Fatalf("server error must not verify")
	}
	if res.Reasoning == "" {
		t.Fatalf("server error should carry a reason")
	}
}
