package engine

import (
	"testing"
	"time"

	"github.com/shaomun/dnaminer/server/internal/domain/player"
	"github.com/shaomun/dnaminer/server/internal/events"
)

func TestCompleteTaskGrantsAfterDelay(t *testing.T) {
	eng, eventLog, clock := newTestEngine(t)

	res := eng.CompleteTask(player.TaskTelegram)
	if !res.Accepted || !res.Pending {
		t.Fatalf("Expected pending verification, got accepted=%v pending=%v reason=%s", res.Accepted, res.Pending, res.Reason)
	}
	if res.Reward != 5000 {
		t.Errorf("Expected advertised reward 5000, got %d", res.Reward)
	}

	// Nothing is granted until the delay elapses.
	if snap := eng.Snapshot(); snap.Coins != 0 {
		t.Errorf("Reward granted before verification finished: %d", snap.Coins)
	}
	if !eng.VerificationInFlight() {
		t.Fatal("Verification should be in flight")
	}

	clock.Advance(6 * time.Second)

	snap := eng.Snapshot()
	if snap.Coins != 5000 {
		t.Errorf("Expected 5000 coins after verification, got %d", snap.Coins)
	}
	if eng.VerificationInFlight() {
		t.Error("Verification should be finished")
	}

	// 5000 coins crosses the level-2 threshold.
	if snap.Level != 3 {
		t.Errorf("Expected level 3 at 5000 coins, got %d", snap.Level)
	}

	started := eventLog.GetByType(events.EventTypeTaskVerifyStart)
	completed := eventLog.GetByType(events.EventTypeTaskCompleted)
	if len(started) != 1 || len(completed) != 1 {
		t.Fatalf("Expected 1 start and 1 completion event, got %d/%d", len(started), len(completed))
	}
}

func TestCompleteTaskSingleVerificationGate(t *testing.T) {
	eng, _, clock := newTestEngine(t)

	if res := eng.CompleteTask(player.TaskTelegram); !res.Accepted {
		t.Fatalf("First verification should start, got %s", res.Reason)
	}

	// The gate is global: a different task is also blocked while one runs.
	res := eng.CompleteTask(player.TaskTwitter)
	if res.Accepted || res.Reason != ReasonVerificationInProgress {
		t.Errorf("Expected VERIFICATION_IN_PROGRESS, got accepted=%v reason=%s", res.Accepted, res.Reason)
	}
	if res.Task != player.TaskTelegram {
		t.Errorf("Rejection should name the pending task, got %s", res.Task)
	}

	clock.Advance(6 * time.Second)

	// After the first grant the second task can verify.
	if res := eng.CompleteTask(player.TaskTwitter); !res.Accepted {
		t.Fatalf("Second verification should start after the first finished, got %s", res.Reason)
	}
}

func TestCompleteTaskNeverRegrants(t *testing.T) {
	eng, _, clock := newTestEngine(t)

	eng.CompleteTask(player.TaskTelegram)
	clock.Advance(6 * time.Second)

	res := eng.CompleteTask(player.TaskTelegram)
	if res.Accepted || res.Reason != ReasonAlreadyCompleted {
		t.Errorf("Expected ALREADY_COMPLETED, got accepted=%v reason=%s", res.Accepted, res.Reason)
	}

	if snap := eng.Snapshot(); snap.Coins != 5000 {
		t.Errorf("Reward must be granted exactly once, got %d", snap.Coins)
	}
}

func TestCompleteTaskUnknownKey(t *testing.T) {
	eng, _, _ := newTestEngine(t)

	res := eng.CompleteTask("myspace")
	if res.Accepted || res.Reason != ReasonUnknownKey {
		t.Errorf("Expected UNKNOWN_KEY, got accepted=%v reason=%s", res.Accepted, res.Reason)
	}
}

func TestCancelVerification(t *testing.T) {
	eng, _, clock := newTestEngine(t)

	if eng.CancelVerification() {
		t.Fatal("Cancel with nothing pending should return false")
	}

	eng.CompleteTask(player.TaskTelegram)
	if !eng.CancelVerification() {
		t.Fatal("Cancel of a pending verification should return true")
	}
	if eng.VerificationInFlight() {
		t.Error("Nothing should be in flight after cancel")
	}

	// The stopped timer firing late must not grant anything.
	clock.Advance(10 * time.Second)
	if snap := eng.Snapshot(); snap.Coins != 0 {
		t.Errorf("Canceled verification granted %d coins", snap.Coins)
	}

	// The task stays claimable after a cancel.
	if res := eng.CompleteTask(player.TaskTelegram); !res.Accepted {
		t.Fatalf("Expected retry after cancel to start, got %s", res.Reason)
	}
	clock.Advance(6 * time.Second)
	if snap := eng.Snapshot(); snap.Coins != 5000 {
		t.Errorf("Expected 5000 coins after retried verification, got %d", snap.Coins)
	}
}

func TestSnapshotExposesPendingTask(t *testing.T) {
	eng, _, clock := newTestEngine(t)

	eng.CompleteTask(player.TaskTwitter)

	snap := eng.Snapshot()
	if !snap.TaskVerificationInFlight || snap.PendingTask != player.TaskTwitter {
		t.Errorf("Snapshot should expose the pending verification, got inflight=%v task=%s",
			snap.TaskVerificationInFlight, snap.PendingTask)
	}

	clock.Advance(6 * time.Second)

	snap = eng.Snapshot()
	if snap.TaskVerificationInFlight || snap.PendingTask != "" {
		t.Errorf("Snapshot should clear after completion, got inflight=%v task=%s",
			snap.TaskVerificationInFlight, snap.PendingTask)
	}
	if len(snap.CompletedTasks) != 1 {
		t.Errorf("Expected 1 completed task in snapshot, got %d", len(snap.CompletedTasks))
	}
}
