package risk

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/config"
	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/market"
)

// BalanceProvider reports the account's available USDC.
type BalanceProvider interface {
	GetUSDCBalance(ctx context.Context) (float64, error)
}

// Decision is the outcome of the risk gate. Reasons is empty iff
// Approved.
type Decision struct {
	Approved bool     `json:"approved"`
	Reasons  []string `json:"reasons,omitempty"`
}

type Manager struct {
	Config  config.RiskConfig
	Scanner config.ScannerConfig
	Balance BalanceProvider
	Logger  *zap.Logger
}

func NewManager(cfg config.RiskConfig, scanCfg config.ScannerConfig, balance BalanceProvider, logger *zap.Logger) *Manager {
	return &Manager{
		Config:  cfg,
		Scanner: scanCfg,
		Balance: balance,
		Logger:  logger,
	}
}

// PositionSize computes a bounded position size in USD. A market with
// liquidity under the scanner floor sizes to zero, as does any raw
// size under the minimum viable position.
func (m *Manager) PositionSize(c *market.Candidate, probability float64) float64 {
	minLiq := m.Scanner.MinLiquidityUSD
	if c.Liquidity < minLiq {
		return 0
	}

	band := m.Scanner.MaxProbability - m.Scanner.MinProbability
	probMult := 0.0
	if band > 0 {
		probMult = (probability - m.Scanner.MinProbability) / band
	}
	if probMult < 0 {
		probMult = 0
	} else if probMult > 1 {
		probMult = 1
	}

	liqMult := c.Liquidity / (2 * minLiq)
	if liqMult > 1 {
		liqMult = 1
	}

	base := decimal.NewFromFloat(m.Config.BasePositionUSD)
	raw := base.
		Mul(decimal.NewFromFloat(probMult)).
		Mul(decimal.NewFromFloat(liqMult)).
		Round(2)

	if raw.LessThan(decimal.NewFromFloat(m.Config.MinPositionUSD)) {
		return 0
	}
	if raw.GreaterThan(base) {
		raw = base
	}
	return raw.InexactFloat64()
}

// CheckLimits evaluates every hard risk gate and collects all
// failing reasons; it never stops at the first one.
func (m *Manager) CheckLimits(ctx context.Context, c *market.Candidate, positionSize float64) Decision {
	var reasons []string

	if c.Liquidity < m.Scanner.MinLiquidityUSD {
		reasons = append(reasons, fmt.Sprintf("liquidity $%.2f below minimum $%.2f", c.Liquidity, m.Scanner.MinLiquidityUSD))
	}
	if positionSize > m.Config.MaxPositionUSD {
		reasons = append(reasons, fmt.Sprintf("position size $%.2f exceeds maximum $%.2f", positionSize, m.Config.MaxPositionUSD))
	}

	required := decimal.NewFromFloat(positionSize).
		Mul(decimal.NewFromFloat(m.Config.BalanceBufferRatio))
	balance, err := m.Balance.GetUSDCBalance(ctx)
	if err != nil {
		reasons = append(reasons, fmt.Sprintf("failed to fetch balance: %v", err))
	} else if decimal.NewFromFloat(balance).LessThan(required) {
		reasons = append(reasons, fmt.Sprintf("balance $%.2f below required $%s (includes fee buffer)", balance, required.StringFixed(2)))
	}

	if c.Spread > m.Config.MaxSpread {
		reasons = append(reasons, fmt.Sprintf("spread %.4f exceeds maximum %.4f", c.Spread, m.Config.MaxSpread))
	}

	decision := Decision{Approved: len(reasons) == 0, Reasons: reasons}
	if !decision.Approved && m.Logger != nil {
		m.Logger.Debug("risk: rejected",
			zap.Int("market_id", c.MarketID),
			zap.Float64("position_size", positionSize),
			zap.Strings("reasons", reasons),
		)
	}
	return decision
}

// ExpectedValue is the per-dollar edge of buying the winning outcome
// at its current price, assuming it resolves to 1.
func ExpectedValue(probability, price float64) float64 {
	return probability - price
}
