package player

import (
	"testing"
)

func newTestPlayer() *Player {
	return New("PLAYER_1", "Tester", Starting{
		Energy:        1000,
		EnergyCap:     1000,
		EarnPerTap:    2,
		ProfitPerHour: 100,
		EnergyCharges: 6,
	})
}

func TestNewPlayerDefaults(t *testing.T) {
	p := newTestPlayer()

	if p.Level != 1 {
		t.Errorf("Expected level 1, got %d", p.Level)
	}
	if p.DailyStreakDay != 1 {
		t.Errorf("Expected streak day 1, got %d", p.DailyStreakDay)
	}
	if p.Balance() != 0 {
		t.Errorf("Expected zero balance, got %d", p.Balance())
	}
	if p.EnergyCap() != 1000 {
		t.Errorf("Expected energy cap 1000, got %d", p.EnergyCap())
	}
}

func TestBalanceFloorsAccumulator(t *testing.T) {
	p := newTestPlayer()

	p.AddCoins(10.9)
	if p.Balance() != 10 {
		t.Errorf("Expected floored balance 10, got %d", p.Balance())
	}

	// The fraction is kept in the accumulator and surfaces once whole.
	p.AddCoins(0.1)
	if p.Balance() != 11 {
		t.Errorf("Expected balance 11 after fraction completes, got %d", p.Balance())
	}
}

func TestAddCoinsIgnoresNonPositive(t *testing.T) {
	p := newTestPlayer()
	p.AddCoins(5)
	p.AddCoins(0)
	p.AddCoins(-100)

	if p.Balance() != 5 {
		t.Errorf("Expected balance 5, got %d", p.Balance())
	}
}

func TestSpendCoins(t *testing.T) {
	p := newTestPlayer()
	p.AddCoins(100.7)

	if !p.SpendCoins(50) {
		t.Fatal("Expected spend of 50 to succeed")
	}
	if p.Balance() != 50 {
		t.Errorf("Expected balance 50 after spend, got %d", p.Balance())
	}

	// Spending floors first: the 0.7 fraction must be gone.
	if p.Coins != 50.0 {
		t.Errorf("Expected accumulator exactly 50.0 after spend, got %f", p.Coins)
	}
}

func TestSpendCoinsInsufficient(t *testing.T) {
	p := newTestPlayer()
	p.AddCoins(49.9)

	if p.SpendCoins(50) {
		t.Fatal("Expected spend to fail: fractional accrual is not spendable")
	}
	if p.Balance() != 49 {
		t.Errorf("Balance should be unchanged, got %d", p.Balance())
	}
}

func TestSpendCoinsRejectsNegativeCost(t *testing.T) {
	p := newTestPlayer()
	p.AddCoins(100)

	if p.SpendCoins(-10) {
		t.Fatal("Negative cost must be rejected")
	}
}

func TestDrainEnergyNoPartial(t *testing.T) {
	p := newTestPlayer()
	p.Energy = 3

	if !p.DrainEnergy(2) {
		t.Fatal("Expected drain of 2 to succeed")
	}
	if p.Energy != 1 {
		t.Errorf("Expected 1 energy left, got %d", p.Energy)
	}

	if p.DrainEnergy(2) {
		t.Fatal("Expected drain of 2 with 1 left to fail")
	}
	if p.Energy != 1 {
		t.Errorf("Failed drain must not change energy, got %d", p.Energy)
	}
}

func TestWidenEnergyCapKeepsCurrentEnergy(t *testing.T) {
	p := newTestPlayer()
	p.Energy = 400

	p.WidenEnergyCap(500)

	if p.EnergyCap() != 1500 {
		t.Errorf("Expected cap 1500, got %d", p.EnergyCap())
	}
	if p.Energy != 400 {
		t.Errorf("Widening the cap must not touch current energy, got %d", p.Energy)
	}

	p.RefillEnergy()
	if p.Energy != 1500 {
		t.Errorf("Refill should reach the widened cap, got %d", p.Energy)
	}
}

func TestBoosterAndTaskFlags(t *testing.T) {
	p := newTestPlayer()

	if p.HasBooster(BoosterMultitap) {
		t.Fatal("Fresh player should own no boosters")
	}
	p.MarkBooster(BoosterMultitap)
	if !p.HasBooster(BoosterMultitap) {
		t.Fatal("Booster flag not set")
	}

	if p.HasCompletedTask(TaskTelegram) {
		t.Fatal("Fresh player should have no completed tasks")
	}
	p.MarkTaskCompleted(TaskTelegram)
	if !p.HasCompletedTask(TaskTelegram) {
		t.Fatal("Task flag not set")
	}
}

func TestNilMapSafety(t *testing.T) {
	p := &Player{}
	p.MarkBooster(BoosterEnergyLimit)
	p.MarkTaskCompleted(TaskTwitter)

	if !p.HasBooster(BoosterEnergyLimit) || !p.HasCompletedTask(TaskTwitter) {
		t.Fatal("Marking on a zero-value player must allocate the maps")
	}
}
