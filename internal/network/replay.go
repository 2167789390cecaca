// Package network - replay.go
// Session replay endpoint - JSON export of everything the player did this
// session, with human-readable summaries.
package network

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/shaomun/dnaminer/server/internal/engine"
	"github.com/shaomun/dnaminer/server/internal/events"
	"github.com/shaomun/dnaminer/server/internal/platform/logger"
)

// ReplayHandler provides the session replay API.
type ReplayHandler struct {
	eventLog *events.EventLog
	logger   *logger.Logger
}

// NewReplayHandler creates a new replay handler.
func NewReplayHandler(el *events.EventLog, log *logger.Logger) *ReplayHandler {
	return &ReplayHandler{
		eventLog: el,
		logger:   log,
	}
}

// ReplayEvent is a rendered event for public viewing.
type ReplayEvent struct {
	ID        string      `json:"id"`
	Timestamp string      `json:"timestamp"`
	Type      string      `json:"type"`
	StreakDay int         `json:"streak_day"`
	Summary   string      `json:"summary"`
	Details   interface{} `json:"details,omitempty"`
}

// ReplayResponse is the API response for the session replay.
type ReplayResponse struct {
	TotalEvents int           `json:"total_events"`
	FilteredBy  string        `json:"filtered_by,omitempty"`
	GeneratedAt string        `json:"generated_at"`
	Events      []ReplayEvent `json:"events"`
}

// HandleReplay returns the session event history.
// GET /api/replay?type=TAP&limit=100
func (rh *ReplayHandler) HandleReplay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		rh.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	all := rh.eventLog.Replay()

	filterType := r.URL.Query().Get("type")
	var filtered []events.GameEvent
	if filterType == "" {
		filtered = all
	} else {
		for _, e := range all {
			if string(e.Type) == filterType {
				filtered = append(filtered, e)
			}
		}
	}

	limit := len(filtered)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 && n < limit {
			limit = n
		}
	}
	// Keep the newest entries when truncating.
	filtered = filtered[len(filtered)-limit:]

	out := make([]ReplayEvent, 0, len(filtered))
	for _, e := range filtered {
		out = append(out, ReplayEvent{
			ID:        e.ID,
			Timestamp: e.Timestamp.Format(time.RFC3339),
			Type:      string(e.Type),
			StreakDay: e.StreakDay,
			Summary:   summarize(e),
			Details:   e.Payload,
		})
	}

	resp := ReplayResponse{
		TotalEvents: len(all),
		FilteredBy:  filterType,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Events:      out,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// summarize renders a one-line description of an event.
func summarize(e events.GameEvent) string {
	switch p := e.Payload.(type) {
	case engine.TapPayload:
		return "Tapped for +" + humanize.Comma(int64(p.Amount)) + " coins (balance " + humanize.Comma(p.BalanceTo) + ")"
	case engine.LevelUpPayload:
		return "Advanced from level " + strconv.Itoa(p.From) + " to level " + strconv.Itoa(p.To)
	case engine.BoosterPayload:
		return "Bought booster " + string(p.Key) + " for " + humanize.Comma(p.Cost) + " coins"
	case engine.MinerPayload:
		return "Bought miner " + p.ID + " for " + humanize.Comma(p.Cost) + " coins (profit now " + humanize.Comma(int64(p.ProfitPerHour)) + "/h)"
	case engine.DailyPayload:
		return "Claimed day " + strconv.Itoa(p.StreakDay) + " reward of " + humanize.Comma(p.Reward) + " coins"
	case engine.RechargePayload:
		return "Recharged energy to " + humanize.Comma(int64(p.Energy)) + " (" + strconv.Itoa(p.ChargesLeft) + " charges left)"
	case engine.TaskPayload:
		if e.Type == events.EventTypeTaskVerifyStart {
			return "Started verification for task " + string(p.Task)
		}
		return "Completed task " + string(p.Task) + " for " + humanize.Comma(p.Reward) + " coins"
	default:
		return string(e.Type)
	}
}

func (rh *ReplayHandler) jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
