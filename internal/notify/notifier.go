// Package notify pushes best-effort alerts about scan results and
// trades. Delivery failures are logged and swallowed; nothing in the
// pipeline waits on a notification.
package notify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/activity"
	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/market"
)

// Sender delivers one plain-text message to a chat sink.
type Sender interface {
	Send(ctx context.Context, message string) error
}

type Notifier struct {
	sender          Sender
	logger          *zap.Logger
	maxSummaryItems int
}

func NewNotifier(sender Sender, maxSummaryItems int, logger *zap.Logger) *Notifier {
	if maxSummaryItems <= 0 {
		maxSummaryItems = 5
	}
	return &Notifier{
		sender:          sender,
		logger:          logger,
		maxSummaryItems: maxSummaryItems,
	}
}

// ScanSummary pushes a truncated digest of the qualified candidates.
func (n *Notifier) ScanSummary(ctx context.Context, candidates []*market.Candidate) {
	if n == nil || n.sender == nil || len(candidates) == 0 {
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d qualified market(s):\n", len(candidates))
	shown := len(candidates)
	if shown > n.maxSummaryItems {
		shown = n.maxSummaryItems
	}
	for _, c := range candidates[:shown] {
		fmt.Fprintf(&b, "• %s — %s at %.1f%%, $%.0f liquidity, %.1fh left\n",
			c.Question, c.WinningOutcome(), c.WinningProbability*100, c.Liquidity, c.HoursUntilResolution)
	}
	if len(candidates) > shown {
		fmt.Fprintf(&b, "…and %d more\n", len(candidates)-shown)
	}
	n.send(ctx, b.String())
}

// StatsSummary pushes a periodic digest of the activity counters.
func (n *Notifier) StatsSummary(ctx context.Context, s activity.Statistics) {
	if n == nil || n.sender == nil {
		return
	}
	n.send(ctx, fmt.Sprintf(
		"Activity summary: %d scans, %d qualified, %d/%d trades filled, $%.2f deployed",
		s.TotalScans, s.QualifiedMarkets, s.TradesSucceeded, s.TradesAttempted, s.TotalSizeUSD,
	))
}

// TradeResult pushes the outcome of one trade attempt.
func (n *Notifier) TradeResult(ctx context.Context, c *market.Candidate, success bool, sizeUSD float64, detail string) {
	if n == nil || n.sender == nil {
		return
	}
	if success {
		n.send(ctx, fmt.Sprintf("Trade executed: %s, $%.2f (%s)", c.Question, sizeUSD, detail))
		return
	}
	n.send(ctx, fmt.Sprintf("Trade failed: %s — %s", c.Question, detail))
}

func (n *Notifier) send(ctx context.Context, message string) {
	if err := n.sender.Send(ctx, message); err != nil && n.logger != nil {
		n.logger.Warn("notification delivery failed", zap.Error(err))
	}
}
