// Package scanner samples the market universe and produces qualified
// candidates for the rest of the pipeline. Scans are strictly
// sequential; one bad market never aborts a cycle.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/client/clob"
	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/client/gamma"
	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/config"
	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/market"
	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/notify"
)

const (
	fetchAttempts  = 3
	fetchBaseDelay = 2 * time.Second
	fetchMaxDelay  = 10 * time.Second
)

// MarketProvider lists the market universe and fetches per-market
// detail.
type MarketProvider interface {
	ListMarkets(ctx context.Context, params gamma.ListMarketsParams) ([]gamma.Market, error)
	GetMarket(ctx context.Context, marketID int) (*gamma.Market, error)
}

// BookProvider fetches per-token order books for the liquidity
// fallback path.
type BookProvider interface {
	GetBook(ctx context.Context, tokenID string) (*clob.OrderBook, error)
}

// Callback receives the qualified candidates of one scan cycle.
type Callback func(candidates []*market.Candidate)

// Stats is a point-in-time snapshot of the scanner's counters.
type Stats struct {
	ScanCount  int       `json:"scan_count"`
	LastScanAt time.Time `json:"last_scan_at"`
	Scanning   bool      `json:"scanning"`
}

type Scanner struct {
	cfg      config.ScannerConfig
	markets  MarketProvider
	books    BookProvider
	notifier *notify.Notifier
	logger   *zap.Logger

	blacklist []*regexp.Regexp

	fetchBaseDelay time.Duration
	fetchMaxDelay  time.Duration

	mu            sync.Mutex
	scanCount     int
	lastScanAt    time.Time
	scanning      bool
	lastQualified []*market.Candidate
}

func New(cfg config.ScannerConfig, markets MarketProvider, books BookProvider, notifier *notify.Notifier, logger *zap.Logger) (*Scanner, error) {
	blacklist := make([]*regexp.Regexp, 0, len(cfg.BlacklistKeywords))
	for _, kw := range cfg.BlacklistKeywords {
		re, err := regexp.Compile("(?i)" + kw)
		if err != nil {
			return nil, fmt.Errorf("invalid blacklist pattern %q: %w", kw, err)
		}
		blacklist = append(blacklist, re)
	}
	return &Scanner{
		cfg:            cfg,
		markets:        markets,
		books:          books,
		notifier:       notifier,
		logger:         logger,
		blacklist:      blacklist,
		fetchBaseDelay: fetchBaseDelay,
		fetchMaxDelay:  fetchMaxDelay,
	}, nil
}

// ScanMarkets runs one scan cycle with the given thresholds and
// returns the qualified candidates. Per-market failures are logged
// and skipped; only a top-level fetch failure (after retries)
// propagates.
func (s *Scanner) ScanMarkets(ctx context.Context, minProb, maxProb, windowHours float64) ([]*market.Candidate, error) {
	if minProb < 0 || minProb >= maxProb || maxProb > 1 {
		return nil, fmt.Errorf("invalid probability band [%v, %v]", minProb, maxProb)
	}
	if windowHours <= 0 {
		return nil, fmt.Errorf("time window must be positive, got %v", windowHours)
	}

	s.setScanning(true)
	defer s.setScanning(false)

	raw, err := s.listWithRetry(ctx)
	if err != nil {
		return nil, err
	}

	qualified := make([]*market.Candidate, 0)
	for i := range raw {
		m := &raw[i]
		ok, reason := s.CheckMarketCriteria(m, minProb, maxProb, windowHours)
		if !ok {
			if s.logger != nil {
				s.logger.Debug("market skipped",
					zap.Int("market_id", int(m.ID)),
					zap.String("reason", reason),
				)
			}
			continue
		}
		candidate, err := s.GetMarketDetails(ctx, int(m.ID))
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("failed to build candidate",
					zap.Int("market_id", int(m.ID)),
					zap.Error(err),
				)
			}
			continue
		}
		if candidate == nil {
			continue
		}
		qualified = append(qualified, candidate)
	}

	s.mu.Lock()
	s.scanCount++
	s.lastScanAt = time.Now().UTC()
	s.lastQualified = qualified
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Info("scan cycle complete",
			zap.Int("universe", len(raw)),
			zap.Int("qualified", len(qualified)),
		)
	}
	return qualified, nil
}

// CheckMarketCriteria applies the ordered qualification checks to one
// raw market record, stopping at the first failure. The reason string
// always explains the verdict.
func (s *Scanner) CheckMarketCriteria(m *gamma.Market, minProb, maxProb, windowHours float64) (bool, string) {
	if !m.Active {
		return false, "market is not active"
	}
	if m.Closed {
		return false, "market is closed"
	}
	if m.Archived {
		return false, "market is archived"
	}
	if !m.Funded {
		return false, "market is not funded"
	}
	if reason, hit := s.blacklisted(m); hit {
		return false, reason
	}
	if len(s.cfg.BlacklistCategories) > 0 {
		cat := market.Categorize(m.Question, m.Description, []string(m.Tags))
		for _, banned := range s.cfg.BlacklistCategories {
			if strings.EqualFold(string(cat), banned) {
				return false, fmt.Sprintf("category %q is blacklisted", cat)
			}
		}
	}
	if vol := float64(m.Volume24hr); s.cfg.MinVolume24hUSD > 0 && vol > 0 && vol < s.cfg.MinVolume24hUSD {
		return false, fmt.Sprintf("24h volume $%.2f below minimum $%.2f", vol, s.cfg.MinVolume24hUSD)
	}

	prices := []float64(m.OutcomePrices)
	if len(prices) < 2 {
		return false, "missing or short outcome price vector"
	}
	_, winning := market.WinningPrice(prices)
	if winning < minProb || winning > maxProb {
		return false, fmt.Sprintf("winning probability %.3f outside range [%.2f, %.2f]", winning, minProb, maxProb)
	}

	end, err := m.EndTime()
	if err != nil {
		return false, "missing or unparseable end date"
	}
	hoursLeft := time.Until(end).Hours()
	if hoursLeft <= 0 {
		return false, fmt.Sprintf("market already past resolution (%.1fh ago)", -hoursLeft)
	}
	if hoursLeft > windowHours {
		return false, fmt.Sprintf("resolves in %.1fh, beyond %.0fh window", hoursLeft, windowHours)
	}

	if liq := m.ReportedLiquidity(); liq > 0 && liq < s.cfg.MinLiquidityUSD {
		return false, fmt.Sprintf("liquidity $%.2f below minimum $%.2f", liq, s.cfg.MinLiquidityUSD)
	}

	return true, "All criteria met"
}

// GetMarketDetails fetches one market's full record and builds a
// Candidate. A missing market returns (nil, nil). The qualification
// flags are computed against the configured canonical band, not the
// thresholds a particular scan happened to use.
func (s *Scanner) GetMarketDetails(ctx context.Context, marketID int) (*market.Candidate, error) {
	m, err := s.markets.GetMarket(ctx, marketID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, nil
	}

	prices := []float64(m.OutcomePrices)
	outcomes := []string(m.Outcomes)
	if len(prices) < 2 || len(outcomes) != len(prices) {
		return nil, fmt.Errorf("market %d: malformed outcome vectors (%d outcomes, %d prices)", marketID, len(outcomes), len(prices))
	}
	winIdx, winProb := market.WinningPrice(prices)

	var (
		end       time.Time
		hoursLeft float64
	)
	if t, err := m.EndTime(); err == nil {
		end = t
		hoursLeft = time.Until(t).Hours()
	}

	tokens := []string(m.ClobTokenIDs)
	liquidity := s.resolveLiquidity(ctx, m, tokens, winIdx)

	c := &market.Candidate{
		MarketID:             marketID,
		Question:             m.Question,
		Description:          m.Description,
		Slug:                 m.Slug,
		Tags:                 []string(m.Tags),
		Outcomes:             outcomes,
		OutcomePrices:        prices,
		WinningOutcomeIndex:  winIdx,
		WinningProbability:   winProb,
		EndDate:              end,
		HoursUntilResolution: hoursLeft,
		Active:               m.Active,
		Closed:               m.Closed,
		Archived:             m.Archived,
		Funded:               m.Funded,
		Liquidity:            liquidity,
		Volume:               m.ReportedVolume(),
		Volume24h:            float64(m.Volume24hr),
		Spread:               float64(m.Spread),
		Category:             market.Categorize(m.Question, m.Description, []string(m.Tags)),
		TokenIDs:             tokens,
		ConditionID:          m.ConditionID,
		ScannedAt:            time.Now().UTC(),
	}

	c.MeetsLiquidity = liquidity >= s.cfg.MinLiquidityUSD
	c.MeetsProbability = winProb >= s.cfg.MinProbability && winProb <= s.cfg.MaxProbability
	c.MeetsTimeWindow = hoursLeft > 0 && hoursLeft <= s.cfg.MaxHoursToResolution
	c.Qualified = c.StatusOK() && c.MeetsLiquidity && c.MeetsProbability && c.MeetsTimeWindow

	return c, nil
}

// RunContinuousScan polls until the context is cancelled. A failed
// cycle is logged and the loop sleeps and tries again; it never dies
// on one bad cycle. Cancellation is observed only between cycles.
func (s *Scanner) RunContinuousScan(ctx context.Context, minProb, maxProb, windowHours float64, callback Callback) {
	if s.logger != nil {
		s.logger.Info("continuous scan started",
			zap.Float64("min_prob", minProb),
			zap.Float64("max_prob", maxProb),
			zap.Float64("window_hours", windowHours),
			zap.Duration("interval", s.cfg.ScanInterval),
		)
	}
	for {
		candidates, err := s.ScanMarkets(ctx, minProb, maxProb, windowHours)
		switch {
		case err == nil:
			if len(candidates) > 0 {
				s.notifier.ScanSummary(ctx, candidates)
				if callback != nil {
					callback(candidates)
				}
			}
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			// fall through to the ctx.Done check below
		default:
			if s.logger != nil {
				s.logger.Error("scan cycle failed", zap.Error(err))
			}
		}

		select {
		case <-ctx.Done():
			if s.logger != nil {
				s.logger.Info("continuous scan stopped")
			}
			return
		case <-time.After(s.cfg.ScanInterval):
		}
	}
}

// Stats returns a snapshot of the scan counters.
func (s *Scanner) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		ScanCount:  s.scanCount,
		LastScanAt: s.lastScanAt,
		Scanning:   s.scanning,
	}
}

// LastQualified returns a copy of the most recent qualified set.
func (s *Scanner) LastQualified() []*market.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*market.Candidate, len(s.lastQualified))
	copy(out, s.lastQualified)
	return out
}

func (s *Scanner) setScanning(v bool) {
	s.mu.Lock()
	s.scanning = v
	s.mu.Unlock()
}

func (s *Scanner) blacklisted(m *gamma.Market) (string, bool) {
	if len(s.blacklist) == 0 {
		return "", false
	}
	text := m.Question + " " + m.Description + " " + strings.Join([]string(m.Tags), " ")
	for _, re := range s.blacklist {
		if re.MatchString(text) {
			return fmt.Sprintf("matches blacklist pattern %q", re.String()), true
		}
	}
	return "", false
}

// listWithRetry fetches the tradable universe, retrying transient
// failures with exponential backoff. This is the only place in the
// scan path that retries.
func (s *Scanner) listWithRetry(ctx context.Context) ([]gamma.Market, error) {
	active, closed, archived, book := true, false, false, true
	params := gamma.ListMarketsParams{
		Active:          &active,
		Closed:          &closed,
		Archived:        &archived,
		EnableOrderBook: &book,
		Limit:           s.cfg.MarketLimit,
	}

	var lastErr error
	delay := s.fetchBaseDelay
	for attempt := 1; attempt <= fetchAttempts; attempt++ {
		markets, err := s.markets.ListMarkets(ctx, params)
		if err == nil {
			return markets, nil
		}
		lastErr = err
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		if attempt < fetchAttempts {
			if s.logger != nil {
				s.logger.Warn("market fetch failed, retrying",
					zap.Int("attempt", attempt),
					zap.Duration("backoff", delay),
					zap.Error(err),
				)
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
			if delay > s.fetchMaxDelay {
				delay = s.fetchMaxDelay
			}
		}
	}
	return nil, fmt.Errorf("market fetch failed after %d attempts: %w", fetchAttempts, lastErr)
}

// resolveLiquidity prefers the venue-reported figure; when that is
// missing or under the floor and tokens are known, it falls back to
// the notional depth of the winning outcome's book. Fallback errors
// degrade to the reported figure.
func (s *Scanner) resolveLiquidity(ctx context.Context, m *gamma.Market, tokens []string, winIdx int) float64 {
	liquidity := m.ReportedLiquidity()
	if liquidity >= s.cfg.MinLiquidityUSD {
		return liquidity
	}
	if s.books == nil || winIdx < 0 || winIdx >= len(tokens) || tokens[winIdx] == "" {
		return liquidity
	}
	book, err := s.books.GetBook(ctx, tokens[winIdx])
	if err != nil {
		if s.logger != nil {
			s.logger.Debug("order book fallback failed",
				zap.Int("market_id", int(m.ID)),
				zap.Error(err),
			)
		}
		return liquidity
	}
	if notional := book.NotionalUSD().InexactFloat64(); notional > liquidity {
		return notional
	}
	return liquidity
}
