package market

import (
	"testing"
	"time"
)

func TestWinningPrice(t *testing.T) {
	cases := []struct {
		name      string
		prices    []float64
		wantIndex int
		wantProb  float64
	}{
		{"binary yes", []float64{0.95, 0.05}, 0, 0.95},
		{"binary no", []float64{0.04, 0.96}, 1, 0.96},
		{"multi outcome", []float64{0.1, 0.2, 0.6, 0.1}, 2, 0.6},
		{"tie resolves first", []float64{0.5, 0.5}, 0, 0.5},
		{"empty", nil, -1, 0},
	}
	for _, tc := range cases {
		idx, prob := WinningPrice(tc.prices)
		if idx != tc.wantIndex || prob != tc.wantProb {
			t.Fatalf("%s: WinningPrice = (%d, %v), want (%d, %v)", tc.name, idx, prob, tc.wantIndex, tc.wantProb)
		}
	}
}

func TestStatusOK(t *testing.T) {
	base := Candidate{Active: true, Closed: false, Archived: false, Funded: true}
	if !base.StatusOK() {
		t.Fatalf("healthy market should pass status check")
	}
	cases := []struct {
		name   string
		mutate func(*Candidate)
	}{
		{"inactive", func(c *Candidate) { c.Active = false }},
		{"closed", func(c *Candidate) { c.Closed = true }},
		{"archived", func(c *Candidate) { c.Archived = true }},
		{"unfunded", func(c *Candidate) { c.Funded = false }},
	}
	for _, tc := range cases {
		c := base
		tc.mutate(&c)
		if c.StatusOK() {
			t.Fatalf("%s market should fail status check", tc.name)
		}
	}
}

func TestWinningOutcomeAndToken(t *testing.T) {
	c := Candidate{
		Outcomes:            []string{"Yes", "No"},
		TokenIDs:            []string{"tok-yes", "tok-no"},
		WinningOutcomeIndex: 0,
	}
	if got := c.WinningOutcome(); got != "Yes" {
		t.Fatalf("WinningOutcome = %q, want Yes", got)
	}
	if got := c.WinningToken(); got != "tok-yes" {
		t.Fatalf("WinningToken = %q, want tok-yes", got)
	}

	c.WinningOutcomeIndex = 5
	if got := c.WinningOutcome(); got != "" {
		t.Fatalf("out-of-range WinningOutcome = %q, want empty", got)
	}
	if got := c.WinningToken(); got != "" {
		t.Fatalf("out-of-range WinningToken = %q, want empty", got)
	}
}

func TestCategorize(t *testing.T) {
	cases := []struct {
		question string
		tags     []string
		want     Category
	}{
		{"Will the Lakers win the NBA championship?", []string{"sports"}, CategorySports},
		{"Will Trump win the 2024 election?", nil, CategoryPolitics},
		{"Will Bitcoin reach $100k?", nil, CategoryCrypto},
		{"Will the Fed cut interest rates in March?", nil, CategoryEconomics},
		{"Will the film win an Oscar?", nil, CategoryEntertainment},
		{"Will it rain in London tomorrow?", nil, CategoryOther},
	}
	for _, tc := range cases {
		if got := Categorize(tc.question, "", tc.tags); got != tc.want {
			t.Fatalf("Categorize(%q) = %s, want %s", tc.question, got, tc.want)
		}
	}
}

func TestCategorizeTieOrder(t *testing.T) {
	// "price" belongs to crypto but sports keywords are checked first.
	got := Categorize("Will the team price in a win?", "", nil)
	if got != CategorySports {
		t.Fatalf("Categorize = %s, want sports (earliest matching set wins)", got)
	}
}

func TestCandidateTimestampsNotZero(t *testing.T) {
	c := Candidate{EndDate: time.Now().Add(24 * time.Hour), ScannedAt: time.Now()}
	if c.EndDate.IsZero() || c.ScannedAt.IsZero() {
		t.Fatalf("timestamps should be set")
	}
}
