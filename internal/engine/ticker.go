package engine

import (
	"context"
	"time"

	"github.com/shaomun/dnaminer/server/internal/platform/logger"
	"github.com/shaomun/dnaminer/server/internal/platform/metrics"
)

// DefaultAccrualInterval is the recommended cadence for the accrual loop.
// Correctness never depends on it: each fire credits true elapsed time, so a
// stalled loop catches up on its next fire.
const DefaultAccrualInterval = 100 * time.Millisecond

// AccrualTicker drives passive income from the host clock. It does NOT know
// about coins or levels - only elapsed time.
type AccrualTicker struct {
	engine   *Engine
	logger   *logger.Logger
	interval time.Duration
	stopChan chan struct{}
}

// NewAccrualTicker creates a ticker for the given engine. A non-positive
// interval falls back to DefaultAccrualInterval.
func NewAccrualTicker(e *Engine, log *logger.Logger, interval time.Duration) *AccrualTicker {
	if interval <= 0 {
		interval = DefaultAccrualInterval
	}
	return &AccrualTicker{
		engine:   e,
		logger:   log,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start begins the accrual loop. Call in a goroutine.
func (t *AccrualTicker) Start(ctx context.Context) {
	t.logger.Info("Accrual ticker started.")

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("Accrual ticker stopped by context.")
			return
		case <-t.stopChan:
			t.logger.Info("Accrual ticker stopped manually.")
			return
		case <-ticker.C:
			now := time.Now()
			began := now
			t.engine.AccrueElapsed(now.Sub(last))
			last = now
			metrics.Get().RecordAccrualTick(time.Since(began))
		}
	}
}

// Stop gracefully stops the ticker.
func (t *AccrualTicker) Stop() {
	close(t.stopChan)
}
