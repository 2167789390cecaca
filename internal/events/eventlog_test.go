package events

import (
	"sync"
	"testing"
	"time"
)

// recordingPersister captures write-through events for assertions.
type recordingPersister struct {
	mu     sync.Mutex
	events []GameEvent
}

func (p *recordingPersister) Append(event GameEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPersister) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func TestAppendAndLen(t *testing.T) {
	el := NewEventLog(nil)

	el.Append(GameEvent{ID: GenerateEventID(), Type: EventTypeTap})
	el.Append(GameEvent{ID: GenerateEventID(), Type: EventTypeLevelUp})

	if el.Len() != 2 {
		t.Errorf("Expected 2 events, got %d", el.Len())
	}
}

func TestGetByType(t *testing.T) {
	el := NewEventLog(nil)

	el.Append(GameEvent{Type: EventTypeTap})
	el.Append(GameEvent{Type: EventTypeDailyClaimed})
	el.Append(GameEvent{Type: EventTypeTap})

	taps := el.GetByType(EventTypeTap)
	if len(taps) != 2 {
		t.Errorf("Expected 2 TAP events, got %d", len(taps))
	}
	if got := el.GetByType(EventTypeMinerPurchased); len(got) != 0 {
		t.Errorf("Expected no MINER_PURCHASED events, got %d", len(got))
	}
}

func TestSinceCursor(t *testing.T) {
	el := NewEventLog(nil)

	el.Append(GameEvent{Type: EventTypeTap})
	el.Append(GameEvent{Type: EventTypeTap})

	tail, cursor := el.Since(0)
	if len(tail) != 2 || cursor != 2 {
		t.Fatalf("Expected 2 events and cursor 2, got %d/%d", len(tail), cursor)
	}

	// Nothing new: empty tail, cursor unchanged.
	tail, cursor = el.Since(cursor)
	if len(tail) != 0 || cursor != 2 {
		t.Fatalf("Expected empty tail and cursor 2, got %d/%d", len(tail), cursor)
	}

	el.Append(GameEvent{Type: EventTypeLevelUp})
	tail, cursor = el.Since(cursor)
	if len(tail) != 1 || cursor != 3 {
		t.Fatalf("Expected 1 new event and cursor 3, got %d/%d", len(tail), cursor)
	}
	if tail[0].Type != EventTypeLevelUp {
		t.Errorf("Expected LEVEL_UP, got %s", tail[0].Type)
	}

	// Negative cursors clamp to the start.
	tail, _ = el.Since(-5)
	if len(tail) != 3 {
		t.Errorf("Expected full history for negative cursor, got %d", len(tail))
	}
}

func TestReplayReturnsCopy(t *testing.T) {
	el := NewEventLog(nil)
	el.Append(GameEvent{ID: "a", Type: EventTypeTap})

	history := el.Replay()
	history[0].ID = "mutated"

	if el.Replay()[0].ID != "a" {
		t.Error("Replay must return a copy, not the backing slice")
	}
}

func TestAppendWritesThroughToPersister(t *testing.T) {
	p := &recordingPersister{}
	el := NewEventLog(p)

	el.Append(GameEvent{ID: GenerateEventID(), Type: EventTypeTap, Timestamp: time.Now()})

	// Persistence is async; give it a moment.
	deadline := time.Now().Add(time.Second)
	for p.count() < 1 {
		if time.Now().After(deadline) {
			t.Fatal("Persister never received the event")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestGenerateEventIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateEventID()
		if id == "" || seen[id] {
			t.Fatalf("Duplicate or empty event ID: %q", id)
		}
		seen[id] = true
	}
}
