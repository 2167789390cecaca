// Package player defines the core domain aggregate for the miner game.
// This package is PURE and must NOT import any infrastructure packages (network, events, platform).
package player

import (
	"math"
	"time"
)

// BoosterKey identifies a one-time permanent upgrade.
type BoosterKey string

const (
	BoosterMultitap    BoosterKey = "multitap"
	BoosterEnergyLimit BoosterKey = "energyLimit"
)

// TaskKey identifies an external reward task.
type TaskKey string

const (
	TaskTelegram TaskKey = "telegram"
	TaskTwitter  TaskKey = "twitter"
)

// Starting holds the initial stats for a fresh session.
type Starting struct {
	Coins         float64
	Energy        int
	EnergyCap     int
	EarnPerTap    int
	ProfitPerHour int
	EnergyCharges int
}

// Player represents the full mutable state of a session.
//
// Coins is a raw accumulator: passive accrual deposits fractional amounts
// into it between ticks. Every observation and every spend goes through
// Balance(), which floors. The raw float never leaves this package.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	Coins         float64 `json:"coins"`
	Energy        int     `json:"energy"`
	EnergyCapBase int     `json:"energy_cap_base"`
	EnergyBonus   int     `json:"energy_bonus"` // widened cap from the energy-limit booster
	EarnPerTap    int     `json:"earn_per_tap"`
	ProfitPerHour int     `json:"profit_per_hour"`
	Level         int     `json:"level"`

	PurchasedBoosters map[BoosterKey]bool `json:"purchased_boosters"`
	CompletedTasks    map[TaskKey]bool    `json:"completed_tasks"`

	DailyStreakDay   int        `json:"daily_streak_day"`
	LastDailyClaim   *time.Time `json:"last_daily_claim,omitempty"`
	EnergyCharges    int        `json:"energy_charges"`
	LastEnergyCharge *time.Time `json:"last_energy_charge,omitempty"`

	// Referral bookkeeping is presentational only; nothing rewards it yet.
	InvitedFriends int `json:"invited_friends"`
}

// New creates a fresh player with the supplied starting stats.
func New(id, name string, s Starting) *Player {
	return &Player{
		ID:                id,
		Name:              name,
		Coins:             s.Coins,
		Energy:            s.Energy,
		EnergyCapBase:     s.EnergyCap,
		EarnPerTap:        s.EarnPerTap,
		ProfitPerHour:     s.ProfitPerHour,
		Level:             1,
		PurchasedBoosters: make(map[BoosterKey]bool),
		CompletedTasks:    make(map[TaskKey]bool),
		DailyStreakDay:    1,
		EnergyCharges:     s.EnergyCharges,
	}
}

// Balance returns the observable coin total, floored to a whole coin.
func (p *Player) Balance() int64 {
	return int64(math.Floor(p.Coins))
}

// AddCoins deposits an amount (possibly fractional) into the accumulator.
// Negative deposits are ignored; spending goes through SpendCoins.
func (p *Player) AddCoins(amount float64) {
	if amount <= 0 {
		return
	}
	p.Coins += amount
}

// SpendCoins deducts a whole-coin cost. The accumulator is floored first so
// fractional accrual can never be spent. Returns false (no change) if the
// floored balance does not cover the cost.
func (p *Player) SpendCoins(cost int64) bool {
	if cost < 0 {
		return false
	}
	bal := p.Balance()
	if bal < cost {
		return false
	}
	p.Coins = float64(bal - cost)
	return true
}

// EnergyCap returns the current energy ceiling including booster bonuses.
func (p *Player) EnergyCap() int {
	return p.EnergyCapBase + p.EnergyBonus
}

// DrainEnergy removes energy for a tap. Returns false (no change) if the
// remaining energy cannot cover the full amount; partial drains are never
// allowed.
func (p *Player) DrainEnergy(amount int) bool {
	if amount < 0 || p.Energy < amount {
		return false
	}
	p.Energy -= amount
	return true
}

// RefillEnergy restores energy to the current cap.
func (p *Player) RefillEnergy() {
	p.Energy = p.EnergyCap()
}

// WidenEnergyCap raises the cap without touching the current energy value.
func (p *Player) WidenEnergyCap(bonus int) {
	p.EnergyBonus += bonus
}

func (p *Player) HasBooster(key BoosterKey) bool {
	return p.PurchasedBoosters[key]
}

func (p *Player) MarkBooster(key BoosterKey) {
	if p.PurchasedBoosters == nil {
		p.PurchasedBoosters = make(map[BoosterKey]bool)
	}
	p.PurchasedBoosters[key] = true
}

func (p *Player) HasCompletedTask(key TaskKey) bool {
	return p.CompletedTasks[key]
}

func (p *Player) MarkTaskCompleted(key TaskKey) {
	if p.CompletedTasks == nil {
		p.CompletedTasks = make(map[TaskKey]bool)
	}
	p.CompletedTasks[key] = true
}
