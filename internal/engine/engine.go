// Package engine contains the progression logic of the miner game.
//
// ARCHITECTURAL RULE: the Player aggregate is owned exclusively by the
// Engine. All mutation funnels through the command methods below; the UI
// layer only ever sees Snapshot values.
package engine

import (
	"sync"
	"time"

	"github.com/shaomun/dnaminer/server/internal/domain/catalog"
	"github.com/shaomun/dnaminer/server/internal/domain/player"
	"github.com/shaomun/dnaminer/server/internal/events"
	"github.com/shaomun/dnaminer/server/internal/platform/logger"
	"github.com/shaomun/dnaminer/server/internal/platform/metrics"
)

// Engine owns the player state and applies the game rules to it. Commands
// arrive from WebSocket clients, the REST bridge and the accrual ticker on
// different goroutines, so every entry point takes the aggregate mutex.
type Engine struct {
	mu      sync.Mutex
	player  *player.Player
	catalog *catalog.Catalog

	eventLog *events.EventLog
	logger   *logger.Logger
	clock    Clock

	// Task verification state machine. One verification in flight at a
	// time, globally, not per task.
	verifyPending bool
	pendingTask   player.TaskKey
	pendingTimer  Timer
}

// NewEngine creates an engine with a fresh player built from the catalog's
// starting stats. A nil clock selects the system clock.
func NewEngine(cat *catalog.Catalog, eventLog *events.EventLog, log *logger.Logger, clock Clock) *Engine {
	if clock == nil {
		clock = SystemClock()
	}
	p := player.New("PLAYER_1", "Anonymous", player.Starting{
		Energy:        cat.Starting.Energy,
		EnergyCap:     cat.Starting.EnergyCap,
		EarnPerTap:    cat.Starting.EarnPerTap,
		ProfitPerHour: cat.Starting.ProfitPerHour,
		EnergyCharges: cat.Starting.EnergyCharges,
	})
	return &Engine{
		player:   p,
		catalog:  cat,
		eventLog: eventLog,
		logger:   log,
		clock:    clock,
	}
}

// TapPayload is the event payload for an accepted tap.
type TapPayload struct {
	Amount    int   `json:"amount"`
	EnergyTo  int   `json:"energy_to"`
	BalanceTo int64 `json:"balance_to"`
}

// Tap spends energy for coins. A tap that cannot be fully covered by the
// remaining energy is rejected outright; there is no partial credit.
func (e *Engine) Tap() TapResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	amount := e.player.EarnPerTap
	if !e.player.DrainEnergy(amount) {
		metrics.Get().RecordTap(false)
		return TapResult{Reason: ReasonInsufficientFunds, Energy: e.player.Energy, Balance: e.player.Balance()}
	}

	e.player.AddCoins(float64(amount))
	e.evaluateLevelUp()
	metrics.Get().RecordTap(true)

	id := e.emit(events.EventTypeTap, TapPayload{
		Amount:    amount,
		EnergyTo:  e.player.Energy,
		BalanceTo: e.player.Balance(),
	})

	return TapResult{
		Accepted: true,
		EventID:  id,
		Amount:   amount,
		Energy:   e.player.Energy,
		Balance:  e.player.Balance(),
	}
}

// AccrueElapsed credits passive income for elapsed wall-clock time. The
// credit is proportional to the delta, never to tick count, so dropped or
// delayed ticks under-call this without losing coins.
func (e *Engine) AccrueElapsed(delta time.Duration) {
	if delta <= 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.player.AddCoins(float64(e.player.ProfitPerHour) * delta.Hours())
	e.evaluateLevelUp()
}

// LevelUpPayload is the event payload for a level advance.
type LevelUpPayload struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// evaluateLevelUp advances the level while the next threshold is met, so a
// single large grant can cross several levels at once. Never advances past
// the catalog ceiling. Caller must hold the mutex.
func (e *Engine) evaluateLevelUp() {
	for {
		threshold, ok := e.catalog.ThresholdFor(e.player.Level)
		if !ok || e.player.Balance() < threshold {
			return
		}
		from := e.player.Level
		e.player.Level++
		e.emit(events.EventTypeLevelUp, LevelUpPayload{From: from, To: e.player.Level})
		if e.logger != nil {
			e.logger.Event("LEVEL_UP", e.player.ID, "reached level "+e.catalog.LevelName(e.player.Level))
		}
	}
}

// BoosterPayload is the event payload for a booster purchase.
type BoosterPayload struct {
	Key        player.BoosterKey `json:"key"`
	Cost       int64             `json:"cost"`
	EarnPerTap int               `json:"earn_per_tap"`
	EnergyCap  int               `json:"energy_cap"`
}

// PurchaseBooster buys a one-time permanent upgrade. A booster key already
// in the purchased set can never be bought again, regardless of funds.
func (e *Engine) PurchaseBooster(key player.BoosterKey) PurchaseResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, ok := e.catalog.Booster(key)
	if !ok {
		return e.rejectPurchase(ReasonUnknownKey)
	}
	if e.player.HasBooster(key) {
		return e.rejectPurchase(ReasonAlreadyOwned)
	}
	if !e.player.SpendCoins(b.Cost) {
		return e.rejectPurchase(ReasonInsufficientFunds)
	}

	e.player.MarkBooster(key)
	if b.Multiplier > 0 {
		e.player.EarnPerTap *= b.Multiplier
	}
	if b.EnergyBonus > 0 {
		// The cap widens; the current energy value is untouched.
		e.player.WidenEnergyCap(b.EnergyBonus)
	}

	e.emit(events.EventTypeBoosterPurchased, BoosterPayload{
		Key:        key,
		Cost:       b.Cost,
		EarnPerTap: e.player.EarnPerTap,
		EnergyCap:  e.player.EnergyCap(),
	})

	return e.acceptPurchase()
}

// MinerPayload is the event payload for a miner purchase.
type MinerPayload struct {
	ID            string `json:"id"`
	Cost          int64  `json:"cost"`
	ProfitPerHour int    `json:"profit_per_hour"` // new total after the purchase
}

// PurchaseMiner buys a shop item, permanently raising passive profit.
// Miners are intentionally repeatable: each purchase deducts the cost and
// adds the item's profit contribution again.
func (e *Engine) PurchaseMiner(id string) PurchaseResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	m, ok := e.catalog.Miner(id)
	if !ok {
		return e.rejectPurchase(ReasonUnknownKey)
	}
	if e.player.Level < m.LevelRequired {
		return e.rejectPurchase(ReasonLocked)
	}
	if !e.player.SpendCoins(m.Cost) {
		return e.rejectPurchase(ReasonInsufficientFunds)
	}

	e.player.ProfitPerHour += m.ProfitPerHour

	e.emit(events.EventTypeMinerPurchased, MinerPayload{
		ID:            id,
		Cost:          m.Cost,
		ProfitPerHour: e.player.ProfitPerHour,
	})

	return e.acceptPurchase()
}

func (e *Engine) rejectPurchase(reason Reason) PurchaseResult {
	metrics.Get().RecordRejection(string(reason))
	return PurchaseResult{
		Reason:        reason,
		Balance:       e.player.Balance(),
		EarnPerTap:    e.player.EarnPerTap,
		ProfitPerHour: e.player.ProfitPerHour,
	}
}

func (e *Engine) acceptPurchase() PurchaseResult {
	return PurchaseResult{
		Accepted:      true,
		Balance:       e.player.Balance(),
		EarnPerTap:    e.player.EarnPerTap,
		ProfitPerHour: e.player.ProfitPerHour,
	}
}

// DailyPayload is the event payload for a daily-reward claim.
type DailyPayload struct {
	StreakDay int   `json:"streak_day"`
	Reward    int64 `json:"reward"`
}

// ClaimDailyReward grants the streak reward, at most once per calendar day
// in the engine clock's local time.
func (e *Engine) ClaimDailyReward() ClaimResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	if e.player.LastDailyClaim != nil && sameCalendarDay(*e.player.LastDailyClaim, now) {
		metrics.Get().RecordRejection(string(ReasonAlreadyClaimedToday))
		return ClaimResult{Reason: ReasonAlreadyClaimedToday, StreakDay: e.player.DailyStreakDay}
	}

	day := e.player.DailyStreakDay
	reward := e.catalog.DailyReward(day)
	e.player.AddCoins(float64(reward))
	e.evaluateLevelUp()
	e.player.DailyStreakDay++
	e.player.LastDailyClaim = &now

	e.emit(events.EventTypeDailyClaimed, DailyPayload{StreakDay: day, Reward: reward})

	return ClaimResult{Accepted: true, Reward: reward, StreakDay: day}
}

// RechargePayload is the event payload for an energy recharge.
type RechargePayload struct {
	Energy      int `json:"energy"`
	ChargesLeft int `json:"charges_left"`
}

// ClaimEnergyRecharge consumes one charge for a full refill to the current
// cap. The 60-minute cooldown is measured from the last claim; charges never
// regenerate on their own.
func (e *Engine) ClaimEnergyRecharge() ClaimResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.player.EnergyCharges <= 0 {
		metrics.Get().RecordRejection(string(ReasonOnCooldown))
		return ClaimResult{Reason: ReasonOnCooldown, EnergyCharges: 0}
	}

	now := e.clock.Now()
	if remaining := e.rechargeCooldownRemaining(now); remaining > 0 {
		metrics.Get().RecordRejection(string(ReasonOnCooldown))
		return ClaimResult{
			Reason:            ReasonOnCooldown,
			EnergyCharges:     e.player.EnergyCharges,
			CooldownRemaining: remaining,
		}
	}

	e.player.RefillEnergy()
	e.player.EnergyCharges--
	e.player.LastEnergyCharge = &now

	e.emit(events.EventTypeEnergyRecharged, RechargePayload{
		Energy:      e.player.Energy,
		ChargesLeft: e.player.EnergyCharges,
	})

	return ClaimResult{
		Accepted:      true,
		Energy:        e.player.Energy,
		EnergyCharges: e.player.EnergyCharges,
	}
}

// rechargeCooldownRemaining returns how long until the next recharge claim
// is allowed, zero when eligible. Caller must hold the mutex.
func (e *Engine) rechargeCooldownRemaining(now time.Time) time.Duration {
	if e.player.LastEnergyCharge == nil {
		return 0
	}
	readyAt := e.player.LastEnergyCharge.Add(e.catalog.Timing.RechargeCooldown())
	if !now.Before(readyAt) {
		return 0
	}
	return readyAt.Sub(now)
}

// emit appends an event to the session log. Caller must hold the mutex.
func (e *Engine) emit(t events.EventType, payload interface{}) string {
	id := events.GenerateEventID()
	if e.eventLog != nil {
		e.eventLog.Append(events.GameEvent{
			ID:        id,
			Timestamp: e.clock.Now(),
			Type:      t,
			ActorID:   e.player.ID,
			Payload:   payload,
			StreakDay: e.player.DailyStreakDay,
		})
	}
	return id
}

// sameCalendarDay reports whether two instants fall on the same local
// calendar day. Comparing the full date triple, not just the day-of-month,
// so the same day number a month apart stays claimable.
func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
