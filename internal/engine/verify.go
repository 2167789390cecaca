package engine

import (
	"github.com/shaomun/dnaminer/server/internal/domain/player"
	"github.com/shaomun/dnaminer/server/internal/events"
)

// Task verification models the "open the link, wait for verification"
// flow: Idle -> Pending (timer running) -> Granted. A single verification
// may be in flight at a time, across all tasks.

// TaskPayload is the event payload for verification start and completion.
type TaskPayload struct {
	Task   player.TaskKey `json:"task"`
	Reward int64          `json:"reward,omitempty"`
}

// CompleteTask starts verification for a task. The reward is granted after
// the catalog's verification delay on the engine clock.
func (e *Engine) CompleteTask(key player.TaskKey) TaskResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, ok := e.catalog.Task(key)
	if !ok {
		return TaskResult{Reason: ReasonUnknownKey}
	}
	if e.player.HasCompletedTask(key) {
		// The reward was already granted once; never re-grant.
		return TaskResult{Reason: ReasonAlreadyCompleted, Task: key}
	}
	if e.verifyPending {
		return TaskResult{Reason: ReasonVerificationInProgress, Task: e.pendingTask}
	}

	e.verifyPending = true
	e.pendingTask = key
	e.emit(events.EventTypeTaskVerifyStart, TaskPayload{Task: key})
	e.pendingTimer = e.clock.AfterFunc(e.catalog.Timing.VerificationDelay(), func() {
		e.finishVerification(key)
	})

	return TaskResult{Accepted: true, Task: key, Pending: true, Reward: t.Reward}
}

// CancelVerification aborts a pending verification without granting the
// reward. Returns false when nothing was pending.
func (e *Engine) CancelVerification() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.verifyPending {
		return false
	}
	if e.pendingTimer != nil {
		e.pendingTimer.Stop()
	}
	e.verifyPending = false
	e.pendingTask = ""
	e.pendingTimer = nil
	return true
}

// VerificationInFlight reports whether a task verification is pending.
func (e *Engine) VerificationInFlight() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.verifyPending
}

// finishVerification grants the reward when the delay elapses. A stale
// firing (canceled or superseded verification) is a no-op.
func (e *Engine) finishVerification(key player.TaskKey) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.verifyPending || e.pendingTask != key {
		return
	}
	e.verifyPending = false
	e.pendingTask = ""
	e.pendingTimer = nil

	t, ok := e.catalog.Task(key)
	if !ok {
		return
	}

	e.player.MarkTaskCompleted(key)
	e.player.AddCoins(float64(t.Reward))
	e.evaluateLevelUp()

	e.emit(events.EventTypeTaskCompleted, TaskPayload{Task: key, Reward: t.Reward})
	if e.logger != nil {
		e.logger.Event("TASK_COMPLETED", e.player.ID, "verified "+string(key))
	}
}
