package engine

import (
	"time"

	"github.com/shaomun/dnaminer/server/internal/domain/player"
)

// Snapshot is the read-only view the presentation layer renders from. It is
// a value copy; holding one never observes later mutations.
type Snapshot struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`

	Coins         int64 `json:"coins"`
	Energy        int   `json:"energy"`
	EnergyCap     int   `json:"energy_cap"`
	EarnPerTap    int   `json:"earn_per_tap"`
	ProfitPerHour int   `json:"profit_per_hour"`

	Level              int    `json:"level"`
	LevelName          string `json:"level_name"`
	NextLevelThreshold int64  `json:"next_level_threshold"` // 0 at the ceiling

	Boosters       []player.BoosterKey `json:"boosters"`
	CompletedTasks []player.TaskKey    `json:"completed_tasks"`

	DailyStreakDay  int   `json:"daily_streak_day"`
	NextDailyReward int64 `json:"next_daily_reward"`
	CanClaimDaily   bool  `json:"can_claim_daily"`

	EnergyCharges             int           `json:"energy_charges"`
	RechargeCooldownRemaining time.Duration `json:"recharge_cooldown_remaining_ns"`

	TaskVerificationInFlight bool           `json:"task_verification_in_flight"`
	PendingTask              player.TaskKey `json:"pending_task,omitempty"`

	ReferralLink   string `json:"referral_link"`
	InvitedFriends int    `json:"invited_friends"`
}

// Snapshot captures the current player state for rendering.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	p := e.player

	threshold, _ := e.catalog.ThresholdFor(p.Level)

	boosters := make([]player.BoosterKey, 0, len(p.PurchasedBoosters))
	for k := range p.PurchasedBoosters {
		boosters = append(boosters, k)
	}
	tasks := make([]player.TaskKey, 0, len(p.CompletedTasks))
	for k := range p.CompletedTasks {
		tasks = append(tasks, k)
	}

	canClaim := p.LastDailyClaim == nil || !sameCalendarDay(*p.LastDailyClaim, now)

	return Snapshot{
		PlayerID:   p.ID,
		PlayerName: p.Name,

		Coins:         p.Balance(),
		Energy:        p.Energy,
		EnergyCap:     p.EnergyCap(),
		EarnPerTap:    p.EarnPerTap,
		ProfitPerHour: p.ProfitPerHour,

		Level:              p.Level,
		LevelName:          e.catalog.LevelName(p.Level),
		NextLevelThreshold: threshold,

		Boosters:       boosters,
		CompletedTasks: tasks,

		DailyStreakDay:  p.DailyStreakDay,
		NextDailyReward: e.catalog.DailyReward(p.DailyStreakDay),
		CanClaimDaily:   canClaim,

		EnergyCharges:             p.EnergyCharges,
		RechargeCooldownRemaining: e.rechargeCooldownRemaining(now),

		TaskVerificationInFlight: e.verifyPending,
		PendingTask:              e.pendingTask,

		ReferralLink:   e.catalog.ReferralLink,
		InvitedFriends: p.InvitedFriends,
	}
}
