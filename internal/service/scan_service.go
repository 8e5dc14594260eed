package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/xFactorSOL/polymarket-arbitrage-agent/internal/scanner"
)

// ScanService owns the background continuous-scan worker. At most one
// worker runs at a time; Stop waits for the in-flight cycle to finish
// before returning.
type ScanService struct {
	scanner *scanner.Scanner
	logger  *zap.Logger
	baseCtx context.Context

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

func NewScanService(baseCtx context.Context, sc *scanner.Scanner, logger *zap.Logger) *ScanService {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	return &ScanService{
		scanner: sc,
		logger:  logger,
		baseCtx: baseCtx,
	}
}

// Start launches the continuous scan with the given thresholds. It
// fails if a worker is already running.
func (s *ScanService) Start(minProb, maxProb, windowHours float64, callback scanner.Callback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return fmt.Errorf("scan already running")
	}

	ctx, cancel := context.WithCancel(s.baseCtx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	s.running = true

	go func() {
		defer close(done)
		s.scanner.RunContinuousScan(ctx, minProb, maxProb, windowHours, callback)
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	if s.logger != nil {
		s.logger.Info("scan worker started",
			zap.Float64("min_prob", minProb),
			zap.Float64("max_prob", maxProb),
			zap.Float64("window_hours", windowHours),
		)
	}
	return nil
}

// Stop cancels the worker and waits for it to exit. It fails if no
// worker is running.
func (s *ScanService) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return fmt.Errorf("scan not running")
	}
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	cancel()
	<-done
	if s.logger != nil {
		s.logger.Info("scan worker stopped")
	}
	return nil
}

// Running reports whether a worker is active.
func (s *ScanService) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
