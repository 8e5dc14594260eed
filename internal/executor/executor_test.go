package executor

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/activity"
	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/config"
	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/market"
	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/risk"
)

type stubVenue struct {
	price      float64
	priceErr   error
	orderID    string
	orderErr   error
	orderCalls int
}

func (v *stubVenue) GetOrderbookPrice(ctx context.Context, tokenID string) (float64, error) {
	return v.price, v.priceErr
}

func (v *stubVenue) ExecuteMarketOrder(ctx context.Context, tokenID string, amountUSD float64) (string, error) {
	v.orderCalls++
	return v.orderID, v.orderErr
}

type stubBalance struct {
	balance float64
	err     error
}

func (s *stubBalance) GetUSDCBalance(ctx context.Context) (float64, error) {
	return s.balance, s.err
}

func goodCandidate() *market.Candidate {
	return &market.Candidate{
		MarketID:            1,
		Question:            "Will the Lakers win?",
		Outcomes:            []string{"Yes", "No"},
		OutcomePrices:       []float64{0.95, 0.05},
		WinningOutcomeIndex: 0,
		WinningProbability:  0.95,
		Liquidity:           5000,
		Spread:              0.02,
		TokenIDs:            []string{"tok-yes", "tok-no"},
	}
}

func newTestExecutor(venue *stubVenue, balance *stubBalance, dryRun bool) (*Executor, *activity.Log) {
	riskMgr := risk.NewManager(
		config.RiskConfig{
			BasePositionUSD:    100,
			MaxPositionUSD:     100,
			MinPositionUSD:     10,
			MaxSpread:          0.05,
			BalanceBufferRatio: 1.10,
		},
		config.ScannerConfig{
			MinProbability:  0.92,
			MaxProbability:  0.99,
			MinLiquidityUSD: 1000,
		},
		balance,
		nil,
	)
	log := activity.NewLog(100)
	e := New(config.ExecutorConfig{DryRun: dryRun}, riskMgr, venue, log, nil, nil)
	return e, log
}

func TestExecuteTradeSuccess(t *testing.T) {
	venue := &stubVenue{price: 0.95, orderID: "ord-1"}
	e, log := newTestExecutor(venue, &stubBalance{balance: 10000}, false)

	res := e.ExecuteTrade(context.Background(), goodCandidate(), 0, 0.95)
	if !res.Success {
		t.Fatalf("ExecuteTrade failed: %q", res.Error)
	}
	if res.OrderID != "ord-1" || res.PositionSize <= 0 {
		t.Fatalf("result = %+v", res)
	}
	if venue.orderCalls != 1 {
		t.Fatalf("order calls = %d, want 1", venue.orderCalls)
	}
	if s := log.Stats(); s.TradesSucceeded != 1 {
		t.Fatalf("activity stats = %+v", s)
	}
}

func TestExecuteTradeZeroSizeSkipsVenue(t *testing.T) {
	venue := &stubVenue{orderID: "ord-1"}
	e, _ := newTestExecutor(venue, &stubBalance{balance: 10000}, false)

	c := goodCandidate()
	c.Liquidity = 500 // below floor, sizes to zero
	res := e.ExecuteTrade(context.Background(), c, 0, 0.95)
	if res.Success {
		t.Fatalf("trade should fail on zero size")
	}
	if !strings.Contains(res.Error, "Position size is zero") {
		t.Fatalf("error = %q, want zero-size message", res.Error)
	}
	if res.PositionSize != 0 {
		t.Fatalf("position size = %v, want 0", res.PositionSize)
	}
	if venue.orderCalls != 0 {
		t.Fatalf("venue must never be called on zero size, got %d calls", venue.orderCalls)
	}
}

func TestExecuteTradeRiskRejection(t *testing.T) {
	venue := &stubVenue{orderID: "ord-1"}
	e, _ := newTestExecutor(venue, &stubBalance{balance: 1}, false)

	res := e.ExecuteTrade(context.Background(), goodCandidate(), 0, 0.95)
	if res.Success {
		t.Fatalf("trade should fail the risk gate")
	}
	if !strings.Contains(res.Error, "balance") {
		t.Fatalf("error = %q, want balance reason", res.Error)
	}
	if venue.orderCalls != 0 {
		t.Fatalf("rejected trade must not reach the venue")
	}
}

func TestExecuteTradeInvalidToken(t *testing.T) {
	venue := &stubVenue{orderID: "ord-1"}
	e, _ := newTestExecutor(venue, &stubBalance{balance: 10000}, false)

	cases := []struct {
		name  string
		index int
		prep  func(*market.Candidate)
	}{
		{"out of range", 5, func(c *market.Candidate) {}},
		{"negative", -1, func(c *market.Candidate) {}},
		{"empty token", 0, func(c *market.Candidate) { c.TokenIDs = []string{"", "tok-no"} }},
	}
	for _, tc := range cases {
		c := goodCandidate()
		tc.prep(c)
		res := e.ExecuteTrade(context.Background(), c, tc.index, 0.95)
		if res.Success || res.Error != "Invalid token ID" {
			t.Fatalf("%s: result = %+v, want Invalid token ID", tc.name, res)
		}
	}
}

func TestExecuteTradeSubmissionFailure(t *testing.T) {
	venue := &stubVenue{orderErr: fmt.Errorf("insufficient allowance")}
	e, log := newTestExecutor(venue, &stubBalance{balance: 10000}, false)

	res := e.ExecuteTrade(context.Background(), goodCandidate(), 0, 0.95)
	if res.Success {
		t.Fatalf("submission failure should produce a failed result")
	}
	if !strings.Contains(res.Error, "insufficient allowance") {
		t.Fatalf("error = %q, want venue failure text", res.Error)
	}
	if s := log.Stats(); s.TradesFailed != 1 {
		t.Fatalf("activity stats = %+v", s)
	}
}

func TestExecuteTradePriceFetchFailureIsInformational(t *testing.T) {
	venue := &stubVenue{priceErr: fmt.Errorf("no book"), orderID: "ord-1"}
	e, _ := newTestExecutor(venue, &stubBalance{balance: 10000}, false)

	res := e.ExecuteTrade(context.Background(), goodCandidate(), 0, 0.95)
	if !res.Success {
		t.Fatalf("price fetch failure must not block execution: %q", res.Error)
	}
}

func TestExecuteTradeDryRun(t *testing.T) {
	venue := &stubVenue{orderID: "ord-1"}
	e, _ := newTestExecutor(venue, &stubBalance{balance: 10000}, true)

	res := e.ExecuteTrade(context.Background(), goodCandidate(), 0, 0.95)
	if !res.Success {
		t.Fatalf("dry run failed: %q", res.Error)
	}
	if !strings.HasPrefix(res.OrderID, "dry-") {
		t.Fatalf("order id = %q, want dry- prefix", res.OrderID)
	}
	if venue.orderCalls != 0 {
		t.Fatalf("dry run must not submit real orders")
	}
}

func TestMonitorTradePlaceholder(t *testing.T) {
	e, _ := newTestExecutor(&stubVenue{}, &stubBalance{balance: 1}, true)
	st := e.MonitorTrade("ord-9")
	if st.OrderID != "ord-9" || st.Status != "pending" || st.Filled {
		t.Fatalf("status = %+v, want pending/not filled", st)
	}
}
