// Package verify attempts independent corroboration of a market's
// likely resolution from secondary data sources before capital is
// committed.
package verify

import (
	"context"

	"go.uber.org/zap"

	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/market"
)

// Result is the outcome of one verification attempt.
type Result struct {
	Verified   bool     `json:"verified"`
	Confidence float64  `json:"confidence"`
	Sources    []string `json:"sources"`
	Reasoning  string   `json:"reasoning"`
}

// Source is one secondary data source. A missing credential or a
// lookup failure is a normal "not verified" outcome, never an error
// that aborts the chain.
type Source interface {
	Name() string
	Lookup(ctx context.Context, c *market.Candidate) Result
}

type Verifier struct {
	sources []Source
	logger  *zap.Logger
}

func NewVerifier(logger *zap.Logger, sources ...Source) *Verifier {
	return &Verifier{
		sources: sources,
		logger:  logger,
	}
}

// VerifyOutcome tries each source in order and returns the first
// verified result with the source name appended. When nothing
// verifies, the zero-confidence default comes back.
func (v *Verifier) VerifyOutcome(ctx context.Context, c *market.Candidate) Result {
	for _, src := range v.sources {
		res := src.Lookup(ctx, c)
		if res.Verified {
			res.Sources = append(res.Sources, src.Name())
			if v.logger != nil {
				v.logger.Info("outcome verified",
					zap.Int("market_id", c.MarketID),
					zap.String("source", src.Name()),
					zap.Float64("confidence", res.Confidence),
				)
			}
			return res
		}
		if v.logger != nil {
			v.logger.Debug("source did not verify",
				zap.Int("market_id", c.MarketID),
				zap.String("source", src.Name()),
				zap.String("reasoning", res.Reasoning),
			)
		}
	}
	return Result{Sources: []string{}, Reasoning: "no source confirmed the outcome"}
}
