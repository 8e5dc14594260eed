// Package executor drives one candidate through sizing, the risk
// gate, token resolution and order submission. Every failure comes
// back as a structured result; nothing here panics past the caller.
package executor

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/activity"
	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/config"
	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/market"
	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/notify"
	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/risk"
)

// Venue is the order-execution collaborator.
type Venue interface {
	GetOrderbookPrice(ctx context.Context, tokenID string) (float64, error)
	ExecuteMarketOrder(ctx context.Context, tokenID string, amountUSD float64) (string, error)
}

// TradeResult reports one trade attempt. Error is set iff Success is
// false; PositionSize is the amount actually attempted.
type TradeResult struct {
	Success      bool    `json:"success"`
	OrderID      string  `json:"order_id,omitempty"`
	Error        string  `json:"error,omitempty"`
	PositionSize float64 `json:"position_size"`
}

// TradeStatus is the answer to a monitor query.
type TradeStatus struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Filled  bool   `json:"filled"`
}

type Executor struct {
	cfg      config.ExecutorConfig
	risk     *risk.Manager
	venue    Venue
	log      *activity.Log
	notifier *notify.Notifier
	logger   *zap.Logger
}

func New(cfg config.ExecutorConfig, riskMgr *risk.Manager, venue Venue, log *activity.Log, notifier *notify.Notifier, logger *zap.Logger) *Executor {
	return &Executor{
		cfg:      cfg,
		risk:     riskMgr,
		venue:    venue,
		log:      log,
		notifier: notifier,
		logger:   logger,
	}
}

// ExecuteTrade sizes, gates and submits one trade for the candidate's
// outcome at outcomeIndex. Failures never propagate as errors; they
// come back inside the result.
func (e *Executor) ExecuteTrade(ctx context.Context, c *market.Candidate, outcomeIndex int, probability float64) TradeResult {
	size := e.risk.PositionSize(c, probability)
	if size == 0 {
		return e.fail(ctx, c, "Position size is zero")
	}

	decision := e.risk.CheckLimits(ctx, c, size)
	if !decision.Approved {
		return e.fail(ctx, c, strings.Join(decision.Reasons, "; "))
	}

	if outcomeIndex < 0 || outcomeIndex >= len(c.TokenIDs) || c.TokenIDs[outcomeIndex] == "" {
		return e.fail(ctx, c, "Invalid token ID")
	}
	tokenID := c.TokenIDs[outcomeIndex]

	// Informational only; execution does not block on the quote.
	if price, err := e.venue.GetOrderbookPrice(ctx, tokenID); err == nil {
		if e.logger != nil {
			e.logger.Info("current orderbook price",
				zap.Int("market_id", c.MarketID),
				zap.String("token_id", tokenID),
				zap.Float64("price", price),
			)
		}
	} else if e.logger != nil {
		e.logger.Warn("price fetch failed", zap.String("token_id", tokenID), zap.Error(err))
	}

	orderID, err := e.submit(ctx, tokenID, size)
	if err != nil {
		return e.fail(ctx, c, err.Error())
	}

	if e.logger != nil {
		e.logger.Info("trade executed",
			zap.Int("market_id", c.MarketID),
			zap.String("order_id", orderID),
			zap.Float64("size_usd", size),
			zap.Bool("dry_run", e.cfg.DryRun),
		)
	}
	if e.log != nil {
		e.log.RecordTrade(c.MarketID, c.Question, size, true, "order "+orderID)
	}
	e.notifier.TradeResult(ctx, c, true, size, "order "+orderID)

	return TradeResult{Success: true, OrderID: orderID, PositionSize: size}
}

// MonitorTrade is a placeholder status query pending a real
// status-check integration.
func (e *Executor) MonitorTrade(orderID string) TradeStatus {
	return TradeStatus{OrderID: orderID, Status: "pending", Filled: false}
}

func (e *Executor) submit(ctx context.Context, tokenID string, sizeUSD float64) (string, error) {
	if e.cfg.DryRun {
		return "dry-" + uuid.NewString(), nil
	}
	orderID, err := e.venue.ExecuteMarketOrder(ctx, tokenID, sizeUSD)
	if err != nil {
		return "", fmt.Errorf("order submission failed: %w", err)
	}
	return orderID, nil
}

func (e *Executor) fail(ctx context.Context, c *market.Candidate, reason string) TradeResult {
	if e.logger != nil {
		e.logger.Warn("trade rejected",
			zap.Int("market_id", c.MarketID),
			zap.String("reason", reason),
		)
	}
	if e.log != nil {
		e.log.RecordTrade(c.MarketID, c.Question, 0, false, reason)
	}
	e.notifier.TradeResult(ctx, c, false, 0, reason)
	return TradeResult{Success: false, Error: reason}
}
