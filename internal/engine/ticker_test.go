package engine

import (
	"context"
	"testing"
	"time"

	"github.com/shaomun/dnaminer/server/internal/domain/catalog"
	"github.com/shaomun/dnaminer/server/internal/events"
	"github.com/shaomun/dnaminer/server/internal/platform/logger"
)

func TestAccrualTickerCreditsElapsedTime(t *testing.T) {
	cat := catalog.Default()
	cat.Starting.ProfitPerHour = 3600000 // 1000 coins per second, so a short run is observable
	eng := NewEngine(cat, events.NewEventLog(nil), nil, nil)

	ticker := NewAccrualTicker(eng, logger.NewLogger(), 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	go ticker.Start(ctx)

	time.Sleep(150 * time.Millisecond)
	cancel()

	snap := eng.Snapshot()
	if snap.Coins == 0 {
		t.Error("Ticker never credited any passive income")
	}
}

func TestAccrualTickerStop(t *testing.T) {
	eng := NewEngine(catalog.Default(), events.NewEventLog(nil), nil, nil)
	ticker := NewAccrualTicker(eng, logger.NewLogger(), 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		ticker.Start(context.Background())
		close(done)
	}()

	ticker.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Ticker did not stop")
	}
}

func TestNewAccrualTickerDefaultsInterval(t *testing.T) {
	eng := NewEngine(catalog.Default(), events.NewEventLog(nil), nil, nil)
	ticker := NewAccrualTicker(eng, logger.NewLogger(), 0)
	if ticker.interval != DefaultAccrualInterval {
		t.Errorf("Expected fallback to %v, got %v", DefaultAccrualInterval, ticker.interval)
	}
}
