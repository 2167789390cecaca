// Package network - rest.go
// CommandBridge - REST fallback for hosts that cannot hold a WebSocket.
package network

import (
	"encoding/json"
	"net/http"

	"github.com/shaomun/dnaminer/server/internal/domain/player"
	"github.com/shaomun/dnaminer/server/internal/engine"
	"github.com/shaomun/dnaminer/server/internal/platform/logger"
)

// CommandBridge exposes the engine commands over plain HTTP.
type CommandBridge struct {
	engine *engine.Engine
	logger *logger.Logger
}

// NewCommandBridge creates a new REST command handler.
func NewCommandBridge(eng *engine.Engine, log *logger.Logger) *CommandBridge {
	return &CommandBridge{engine: eng, logger: log}
}

// CommandRequest is the payload for POST /api/command.
type CommandRequest struct {
	Action string `json:"action"`
	Key    string `json:"key,omitempty"`  // booster key
	ID     string `json:"id,omitempty"`   // miner id
	Task   string `json:"task,omitempty"` // task key
}

// HandleCommand dispatches a single engine command.
// POST /api/command
func (cb *CommandBridge) HandleCommand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		cb.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		cb.jsonError(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	var result interface{}
	switch req.Action {
	case "TAP":
		result = cb.engine.Tap()
	case "BUY_BOOSTER":
		result = cb.engine.PurchaseBooster(player.BoosterKey(req.Key))
	case "BUY_MINER":
		result = cb.engine.PurchaseMiner(req.ID)
	case "CLAIM_DAILY":
		result = cb.engine.ClaimDailyReward()
	case "CLAIM_ENERGY":
		result = cb.engine.ClaimEnergyRecharge()
	case "COMPLETE_TASK":
		result = cb.engine.CompleteTask(player.TaskKey(req.Task))
	case "CANCEL_TASK":
		result = map[string]bool{"canceled": cb.engine.CancelVerification()}
	default:
		cb.jsonError(w, "Unknown action: "+req.Action, http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "ok",
		"action": req.Action,
		"result": result,
	})
}

// HandleState returns the current snapshot.
// GET /api/state
func (cb *CommandBridge) HandleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		cb.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cb.engine.Snapshot())
}

func (cb *CommandBridge) jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
