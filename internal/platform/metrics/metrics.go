// Package metrics provides observability for the miner server: tap and
// rejection counters, accrual loop latency, journal writes and WebSocket
// traffic, exposed as a JSON endpoint.
package metrics

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Collector gathers performance metrics.
type Collector struct {
	// Tap metrics
	TapsAccepted int64
	TapsRejected int64

	// Command rejections by reason
	rejections   map[string]int64
	rejectionsMu sync.Mutex

	// Accrual loop metrics
	AccrualTicks      int64
	AccrualLatencySum int64 // nanoseconds
	AccrualLatencyMax int64
	LastAccrualTime   time.Time

	// Journal metrics
	EventsWritten    int64
	EventWriteLatSum int64
	EventWriteLatMax int64
	EventWriteErrors int64

	// WebSocket metrics
	WSConnectionsActive int64
	WSMessagesIn        int64
	WSMessagesOut       int64
	WSErrors            int64

	// System
	StartTime time.Time
	mu        sync.RWMutex
}

// Global collector instance
var collector = &Collector{
	StartTime:  time.Now(),
	rejections: make(map[string]int64),
}

// Get returns the global collector.
func Get() *Collector {
	return collector
}

// RecordTap records a tap attempt.
func (c *Collector) RecordTap(accepted bool) {
	if accepted {
		atomic.AddInt64(&c.TapsAccepted, 1)
	} else {
		atomic.AddInt64(&c.TapsRejected, 1)
	}
}

// RecordRejection records a rejected command by reason code.
func (c *Collector) RecordRejection(reason string) {
	c.rejectionsMu.Lock()
	c.rejections[reason]++
	c.rejectionsMu.Unlock()
}

// RecordAccrualTick records one pass of the accrual loop.
func (c *Collector) RecordAccrualTick(latency time.Duration) {
	atomic.AddInt64(&c.AccrualTicks, 1)
	atomic.AddInt64(&c.AccrualLatencySum, int64(latency))

	// Update max (non-atomic but acceptable for metrics)
	if int64(latency) > atomic.LoadInt64(&c.AccrualLatencyMax) {
		atomic.StoreInt64(&c.AccrualLatencyMax, int64(latency))
	}

	c.mu.Lock()
	c.LastAccrualTime = time.Now()
	c.mu.Unlock()
}

// RecordEventWrite records an event write to the journal.
func (c *Collector) RecordEventWrite(latency time.Duration, err error) {
	atomic.AddInt64(&c.EventsWritten, 1)
	atomic.AddInt64(&c.EventWriteLatSum, int64(latency))

	if int64(latency) > atomic.LoadInt64(&c.EventWriteLatMax) {
		atomic.StoreInt64(&c.EventWriteLatMax, int64(latency))
	}

	if err != nil {
		atomic.AddInt64(&c.EventWriteErrors, 1)
	}
}

// RecordWSConnection records WebSocket connection changes.
func (c *Collector) RecordWSConnection(delta int64) {
	atomic.AddInt64(&c.WSConnectionsActive, delta)
}

// RecordWSMessage records WebSocket messages.
func (c *Collector) RecordWSMessage(incoming bool) {
	if incoming {
		atomic.AddInt64(&c.WSMessagesIn, 1)
	} else {
		atomic.AddInt64(&c.WSMessagesOut, 1)
	}
}

// RecordWSError records a WebSocket error.
func (c *Collector) RecordWSError() {
	atomic.AddInt64(&c.WSErrors, 1)
}

// Snapshot returns current metrics as a map.
func (c *Collector) Snapshot() map[string]interface{} {
	c.mu.RLock()
	lastAccrual := c.LastAccrualTime
	c.mu.RUnlock()

	ticks := atomic.LoadInt64(&c.AccrualTicks)
	eventsWritten := atomic.LoadInt64(&c.EventsWritten)

	var accrualAvg, eventAvg float64
	if ticks > 0 {
		accrualAvg = float64(atomic.LoadInt64(&c.AccrualLatencySum)) / float64(ticks) / 1e6 // ms
	}
	if eventsWritten > 0 {
		eventAvg = float64(atomic.LoadInt64(&c.EventWriteLatSum)) / float64(eventsWritten) / 1e6
	}

	c.rejectionsMu.Lock()
	rejections := make(map[string]int64, len(c.rejections))
	for k, v := range c.rejections {
		rejections[k] = v
	}
	c.rejectionsMu.Unlock()

	return map[string]interface{}{
		"uptime_seconds": time.Since(c.StartTime).Seconds(),

		"taps": map[string]interface{}{
			"accepted": atomic.LoadInt64(&c.TapsAccepted),
			"rejected": atomic.LoadInt64(&c.TapsRejected),
		},

		"rejections": rejections,

		"accrual": map[string]interface{}{
			"ticks":          ticks,
			"avg_latency_ms": accrualAvg,
			"max_latency_ms": float64(atomic.LoadInt64(&c.AccrualLatencyMax)) / 1e6,
			"last_tick":      lastAccrualFormat(lastAccrual),
		},

		"events": map[string]interface{}{
			"written":          eventsWritten,
			"avg_write_lat_ms": eventAvg,
			"max_write_lat_ms": float64(atomic.LoadInt64(&c.EventWriteLatMax)) / 1e6,
			"errors":           atomic.LoadInt64(&c.EventWriteErrors),
		},

		"websocket": map[string]interface{}{
			"active_connections": atomic.LoadInt64(&c.WSConnectionsActive),
			"messages_in":        atomic.LoadInt64(&c.WSMessagesIn),
			"messages_out":       atomic.LoadInt64(&c.WSMessagesOut),
			"errors":             atomic.LoadInt64(&c.WSErrors),
		},
	}
}

func lastAccrualFormat(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")

		snapshot := collector.Snapshot()
		json.NewEncoder(w).Encode(snapshot)
	}
}
