package engine

import (
	"time"

	"github.com/shaomun/dnaminer/server/internal/domain/player"
)

// Reason explains why a command was rejected. Commands never fail with a Go
// error; the caller checks the result value and re-renders accordingly.
type Reason string

const (
	ReasonNone                   Reason = ""
	ReasonInsufficientFunds      Reason = "INSUFFICIENT_FUNDS"
	ReasonAlreadyOwned           Reason = "ALREADY_OWNED"
	ReasonLocked                 Reason = "LOCKED"
	ReasonAlreadyClaimedToday    Reason = "ALREADY_CLAIMED_TODAY"
	ReasonOnCooldown             Reason = "ON_COOLDOWN"
	ReasonVerificationInProgress Reason = "VERIFICATION_IN_PROGRESS"
	ReasonAlreadyCompleted       Reason = "ALREADY_COMPLETED"
	ReasonUnknownKey             Reason = "UNKNOWN_KEY"
)

// TapResult reports the outcome of a single tap.
type TapResult struct {
	Accepted bool   `json:"accepted"`
	Reason   Reason `json:"reason,omitempty"`
	EventID  string `json:"event_id,omitempty"` // unique id for the floating "+N" indicator
	Amount   int    `json:"amount,omitempty"`
	Energy   int    `json:"energy"`
	Balance  int64  `json:"balance"`
}

// PurchaseResult reports the outcome of a booster or miner purchase.
type PurchaseResult struct {
	Accepted      bool   `json:"accepted"`
	Reason        Reason `json:"reason,omitempty"`
	Balance       int64  `json:"balance"`
	EarnPerTap    int    `json:"earn_per_tap"`
	ProfitPerHour int    `json:"profit_per_hour"`
}

// ClaimResult reports the outcome of a daily-reward or energy-recharge claim.
type ClaimResult struct {
	Accepted          bool          `json:"accepted"`
	Reason            Reason        `json:"reason,omitempty"`
	Reward            int64         `json:"reward,omitempty"`
	StreakDay         int           `json:"streak_day,omitempty"`
	Energy            int           `json:"energy,omitempty"`
	EnergyCharges     int           `json:"energy_charges,omitempty"`
	CooldownRemaining time.Duration `json:"cooldown_remaining_ns,omitempty"`
}

// TaskResult reports the outcome of starting a task verification.
type TaskResult struct {
	Accepted bool           `json:"accepted"`
	Reason   Reason         `json:"reason,omitempty"`
	Task     player.TaskKey `json:"task,omitempty"`
	Pending  bool           `json:"pending,omitempty"`
	Reward   int64          `json:"reward,omitempty"`
}
