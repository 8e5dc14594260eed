package risk

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/config"
	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/market"
)

type stubBalance struct {
	balance float64
	err     error
}

func (s *stubBalance) GetUSDCBalance(ctx context.Context) (float64, error) {
	return s.balance, s.err
}

func testScannerConfig() config.ScannerConfig {
	return config.ScannerConfig{
		MinProbability:  0.92,
		MaxProbability:  0.99,
		MinLiquidityUSD: 1000,
	}
}

func testRiskConfig() config.RiskConfig {
	return config.RiskConfig{
		BasePositionUSD:    100,
		MaxPositionUSD:     100,
		MinPositionUSD:     10,
		MaxSpread:          0.05,
		BalanceBufferRatio: 1.10,
	}
}

func newTestManager(balance *stubBalance) *Manager {
	return NewManager(testRiskConfig(), testScannerConfig(), balance, nil)
}

func TestPositionSizeZeroBelowLiquidityFloor(t *testing.T) {
	m := newTestManager(&stubBalance{balance: 10000})
	c := &market.Candidate{Liquidity: 999}
	for _, prob := range []float64{0.92, 0.95, 0.99} {
		if got := m.PositionSize(c, prob); got != 0 {
			t.Fatalf("PositionSize(liq=999, prob=%v) = %v, want 0", prob, got)
		}
	}
}

func TestPositionSizeScalesWithProbability(t *testing.T) {
	m := newTestManager(&stubBalance{balance: 10000})
	c := &market.Candidate{Liquidity: 5000} // liquidity multiplier capped at 1

	low := m.PositionSize(c, 0.93)
	high := m.PositionSize(c, 0.98)
	if low >= high {
		t.Fatalf("sizing should grow with probability: %v >= %v", low, high)
	}
	if top := m.PositionSize(c, 0.99); top != 100 {
		t.Fatalf("PositionSize at band top = %v, want 100", top)
	}
}

func TestPositionSizeClampsProbabilityMultiplier(t *testing.T) {
	m := newTestManager(&stubBalance{balance: 10000})
	c := &market.Candidate{Liquidity: 5000}
	if got := m.PositionSize(c, 1.5); got > m.Config.BasePositionUSD {
		t.Fatalf("PositionSize(prob=1.5) = %v, must not exceed base", got)
	}
	if got := m.PositionSize(c, 0.5); got != 0 {
		t.Fatalf("PositionSize(prob=0.5) = %v, want 0 (multiplier clamped at 0)", got)
	}
}

func TestPositionSizeZeroBelowMinimumViable(t *testing.T) {
	m := newTestManager(&stubBalance{balance: 10000})
	// Liquidity just over the floor keeps the multipliers small:
	// 100 * ~0.0714 * ~0.5005 is well under the $10 minimum.
	c := &market.Candidate{Liquidity: 1001}
	if got := m.PositionSize(c, 0.925); got != 0 {
		t.Fatalf("PositionSize = %v, want 0 (below minimum viable)", got)
	}
}

func TestPositionSizeNeverExceedsBase(t *testing.T) {
	m := newTestManager(&stubBalance{balance: 10000})
	c := &market.Candidate{Liquidity: 1_000_000}
	for _, prob := range []float64{0.92, 0.95, 0.99} {
		if got := m.PositionSize(c, prob); got > 100 {
			t.Fatalf("PositionSize(prob=%v) = %v, exceeds base 100", prob, got)
		}
	}
}

func TestCheckLimitsApproved(t *testing.T) {
	m := newTestManager(&stubBalance{balance: 1000})
	c := &market.Candidate{Liquidity: 5000, Spread: 0.02}
	d := m.CheckLimits(context.Background(), c, 50)
	if !d.Approved {
		t.Fatalf("CheckLimits should approve, got reasons %v", d.Reasons)
	}
	if len(d.Reasons) != 0 {
		t.Fatalf("approved decision must carry no reasons, got %v", d.Reasons)
	}
}

func TestCheckLimitsCollectsAllReasons(t *testing.T) {
	m := newTestManager(&stubBalance{balance: 10})
	c := &market.Candidate{Liquidity: 100, Spread: 0.20}
	d := m.CheckLimits(context.Background(), c, 150)
	if d.Approved {
		t.Fatalf("CheckLimits should reject")
	}
	if len(d.Reasons) != 4 {
		t.Fatalf("want all 4 failing reasons collected, got %d: %v", len(d.Reasons), d.Reasons)
	}
	joined := strings.Join(d.Reasons, "; ")
	for _, want := range []string{"liquidity", "position size", "balance", "spread"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("reasons missing %q: %v", want, d.Reasons)
		}
	}
}

func TestCheckLimitsBalanceFetchError(t *testing.T) {
	m := newTestManager(&stubBalance{err: fmt.Errorf("connection refused")})
	c := &market.Candidate{Liquidity: 5000, Spread: 0.02}
	d := m.CheckLimits(context.Background(), c, 50)
	if d.Approved {
		t.Fatalf("balance fetch failure must reject")
	}
	if len(d.Reasons) != 1 || !strings.Contains(d.Reasons[0], "failed to fetch balance") {
		t.Fatalf("reasons = %v, want single balance-fetch reason", d.Reasons)
	}
}

func TestCheckLimitsBalanceBuffer(t *testing.T) {
	// 100 * 1.10 = 110 required; 105 on hand fails, 110 passes.
	c := &market.Candidate{Liquidity: 5000, Spread: 0.02}
	m := newTestManager(&stubBalance{balance: 105})
	if d := m.CheckLimits(context.Background(), c, 100); d.Approved {
		t.Fatalf("balance 105 should fail the 110 requirement")
	}
	m = newTestManager(&stubBalance{balance: 110})
	if d := m.CheckLimits(context.Background(), c, 100); !d.Approved {
		t.Fatalf("balance 110 should pass, got %v", d.Reasons)
	}
}

func TestExpectedValue(t *testing.T) {
	if got := ExpectedValue(0.95, 0.93); got < 0.0199 || got > 0.0201 {
		t.Fatalf("ExpectedValue = %v, want ~0.02", got)
	}
	if got := ExpectedValue(0.90, 0.95); got >= 0 {
		t.Fatalf("ExpectedValue = %v, want negative", got)
	}
}
