// Package catalog holds the static game data the engine consumes: level
// thresholds, boosters, the miner shop, reward tasks and timing rules.
// The engine never hardcodes any of these values; it is handed a Catalog at
// construction so tests and rebalances swap data, not code.
package catalog

import (
	"fmt"
	"time"

	"github.com/shaomun/dnaminer/server/internal/domain/player"
)

// MaxLevel is the progression ceiling. There is no threshold beyond it and
// the engine never auto-advances past it.
const MaxLevel = 10

// Booster is a one-time permanent upgrade.
type Booster struct {
	Key         player.BoosterKey `yaml:"key" json:"key"`
	Name        string            `yaml:"name" json:"name"`
	Cost        int64             `yaml:"cost" json:"cost"`
	Multiplier  int               `yaml:"multiplier,omitempty" json:"multiplier,omitempty"` // earn-per-tap factor (multitap)
	EnergyBonus int               `yaml:"energy_bonus,omitempty" json:"energy_bonus,omitempty"`
}

// Miner is a shop item whose purchase permanently raises passive profit.
// Miners carry no ownership flag: each entry is repeatably purchasable and
// every purchase adds its profit contribution again.
type Miner struct {
	ID            string `yaml:"id" json:"id"`
	Title         string `yaml:"title" json:"title"`
	Description   string `yaml:"description" json:"description"`
	Cost          int64  `yaml:"cost" json:"cost"`
	ProfitPerHour int    `yaml:"profit_per_hour" json:"profit_per_hour"`
	LevelRequired int    `yaml:"level_required" json:"level_required"`
}

// Task is an external action rewarded after a simulated verification delay.
type Task struct {
	Key    player.TaskKey `yaml:"key" json:"key"`
	Title  string         `yaml:"title" json:"title"`
	URL    string         `yaml:"url" json:"url"`
	Reward int64          `yaml:"reward" json:"reward"`
}

// Timing groups the wall-clock rules. Durations are stored in whole
// seconds/minutes so the catalog round-trips through YAML cleanly.
type Timing struct {
	VerificationDelaySeconds int `yaml:"verification_delay_seconds" json:"verification_delay_seconds"`
	RechargeCooldownMinutes  int `yaml:"recharge_cooldown_minutes" json:"recharge_cooldown_minutes"`
}

// VerificationDelay returns the task verification delay as a duration.
func (t Timing) VerificationDelay() time.Duration {
	return time.Duration(t.VerificationDelaySeconds) * time.Second
}

// RechargeCooldown returns the energy-recharge cooldown as a duration.
func (t Timing) RechargeCooldown() time.Duration {
	return time.Duration(t.RechargeCooldownMinutes) * time.Minute
}

// Daily holds the daily streak reward rule: the reward doubles each day of a
// fixed-length cycle, then the cycle wraps while the streak day keeps
// counting for display.
type Daily struct {
	BaseReward int64 `yaml:"base_reward" json:"base_reward"`
	CycleDays  int   `yaml:"cycle_days" json:"cycle_days"`
}

// Starting holds the stats a fresh session begins with.
type Starting struct {
	Energy        int `yaml:"energy" json:"energy"`
	EnergyCap     int `yaml:"energy_cap" json:"energy_cap"`
	EarnPerTap    int `yaml:"earn_per_tap" json:"earn_per_tap"`
	ProfitPerHour int `yaml:"profit_per_hour" json:"profit_per_hour"`
	EnergyCharges int `yaml:"energy_charges" json:"energy_charges"`
}

// Catalog is the complete static data set for one game configuration.
type Catalog struct {
	LevelThresholds []int64   `yaml:"level_thresholds" json:"level_thresholds"` // index i = coins needed to leave level i+1
	LevelNames      []string  `yaml:"level_names" json:"level_names"`
	Boosters        []Booster `yaml:"boosters" json:"boosters"`
	Miners          []Miner   `yaml:"miners" json:"miners"`
	Tasks           []Task    `yaml:"tasks" json:"tasks"`
	Daily           Daily     `yaml:"daily" json:"daily"`
	Timing          Timing    `yaml:"timing" json:"timing"`
	Starting        Starting  `yaml:"starting" json:"starting"`
	ReferralLink    string    `yaml:"referral_link" json:"referral_link"`
}

// Booster looks up a booster by key.
func (c *Catalog) Booster(key player.BoosterKey) (Booster, bool) {
	for _, b := range c.Boosters {
		if b.Key == key {
			return b, true
		}
	}
	return Booster{}, false
}

// Miner looks up a shop item by id.
func (c *Catalog) Miner(id string) (Miner, bool) {
	for _, m := range c.Miners {
		if m.ID == id {
			return m, true
		}
	}
	return Miner{}, false
}

// Task looks up a reward task by key.
func (c *Catalog) Task(key player.TaskKey) (Task, bool) {
	for _, t := range c.Tasks {
		if t.Key == key {
			return t, true
		}
	}
	return Task{}, false
}

// ThresholdFor returns the coin total required to advance past the given
// level, or false at or beyond the ceiling. The last table entry never gates
// anything: the top level is terminal no matter the balance.
func (c *Catalog) ThresholdFor(level int) (int64, bool) {
	if level < 1 || level >= len(c.LevelThresholds) {
		return 0, false
	}
	return c.LevelThresholds[level-1], true
}

// LevelName returns the display name for a level, clamping past the table.
func (c *Catalog) LevelName(level int) string {
	if len(c.LevelNames) == 0 {
		return ""
	}
	if level < 1 {
		level = 1
	}
	if level > len(c.LevelNames) {
		level = len(c.LevelNames)
	}
	return c.LevelNames[level-1]
}

// DailyReward computes the reward for a streak day. The cycle wraps every
// CycleDays while the streak day itself grows without bound.
func (c *Catalog) DailyReward(streakDay int) int64 {
	if streakDay < 1 {
		streakDay = 1
	}
	cycleDay := (streakDay-1)%c.Daily.CycleDays + 1
	return c.Daily.BaseReward << (cycleDay - 1)
}

// Validate checks internal consistency so a bad data file fails at startup
// instead of mid-session.
func (c *Catalog) Validate() error {
	if len(c.LevelThresholds) == 0 {
		return fmt.Errorf("catalog: no level thresholds")
	}
	for i := 1; i < len(c.LevelThresholds); i++ {
		if c.LevelThresholds[i] <= c.LevelThresholds[i-1] {
			return fmt.Errorf("catalog: level thresholds must be strictly increasing (index %d)", i)
		}
	}
	if len(c.LevelNames) != len(c.LevelThresholds) {
		return fmt.Errorf("catalog: %d level names for %d thresholds", len(c.LevelNames), len(c.LevelThresholds))
	}
	seen := make(map[player.BoosterKey]bool)
	for _, b := range c.Boosters {
		if b.Key == "" || b.Cost < 0 {
			return fmt.Errorf("catalog: invalid booster %q", b.Key)
		}
		if seen[b.Key] {
			return fmt.Errorf("catalog: duplicate booster %q", b.Key)
		}
		seen[b.Key] = true
	}
	minerIDs := make(map[string]bool)
	for _, m := range c.Miners {
		if m.ID == "" || m.Cost <= 0 || m.ProfitPerHour <= 0 {
			return fmt.Errorf("catalog: invalid miner %q", m.ID)
		}
		if m.LevelRequired < 1 || m.LevelRequired > len(c.LevelThresholds) {
			return fmt.Errorf("catalog: miner %q requires out-of-range level %d", m.ID, m.LevelRequired)
		}
		if minerIDs[m.ID] {
			return fmt.Errorf("catalog: duplicate miner %q", m.ID)
		}
		minerIDs[m.ID] = true
	}
	taskKeys := make(map[player.TaskKey]bool)
	for _, t := range c.Tasks {
		if t.Key == "" || t.Reward <= 0 {
			return fmt.Errorf("catalog: invalid task %q", t.Key)
		}
		if taskKeys[t.Key] {
			return fmt.Errorf("catalog: duplicate task %q", t.Key)
		}
		taskKeys[t.Key] = true
	}
	if c.Daily.BaseReward <= 0 || c.Daily.CycleDays <= 0 {
		return fmt.Errorf("catalog: invalid daily reward rule")
	}
	if c.Timing.VerificationDelaySeconds < 0 || c.Timing.RechargeCooldownMinutes < 0 {
		return fmt.Errorf("catalog: negative timing value")
	}
	if c.Starting.EnergyCap <= 0 || c.Starting.EarnPerTap <= 0 {
		return fmt.Errorf("catalog: invalid starting stats")
	}
	return nil
}
