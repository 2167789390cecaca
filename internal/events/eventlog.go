// Package events provides the append-only session event log. Every accepted
// engine command leaves an immutable record here; the WebSocket hub and the
// replay API read it, the SQLite journal persists it.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType defines the category of a game event.
type EventType string

const (
	EventTypeTap              EventType = "TAP"
	EventTypeLevelUp          EventType = "LEVEL_UP"
	EventTypeBoosterPurchased EventType = "BOOSTER_PURCHASED"
	EventTypeMinerPurchased   EventType = "MINER_PURCHASED"
	EventTypeDailyClaimed     EventType = "DAILY_CLAIMED"
	EventTypeEnergyRecharged  EventType = "ENERGY_RECHARGED"
	EventTypeTaskVerifyStart  EventType = "TASK_VERIFY_STARTED"
	EventTypeTaskCompleted    EventType = "TASK_COMPLETED"
)

// GameEvent represents an immutable record of an accepted command.
type GameEvent struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`
	Payload   interface{} `json:"payload"` // Event-specific data
	StreakDay int         `json:"streak_day"`
}

// EventPersister defines how an event is durably stored.
type EventPersister interface {
	Append(event GameEvent) error
}

// EventLog is the in-memory append-only log of session events.
type EventLog struct {
	mu        sync.RWMutex
	events    []GameEvent
	persister EventPersister
}

// NewEventLog creates a new event log with an optional persister.
func NewEventLog(persister EventPersister) *EventLog {
	return &EventLog{
		events:    make([]GameEvent, 0),
		persister: persister,
	}
}

// Append adds a new event to the log. Events are immutable once appended.
func (el *EventLog) Append(event GameEvent) {
	el.mu.Lock()
	defer el.mu.Unlock()
	el.events = append(el.events, event)

	if el.persister != nil {
		// Write through to the journal off the hot path.
		go func(e GameEvent) {
			_ = el.persister.Append(e)
		}(event)
	}
}

// GetByType returns all events of a given type, oldest first.
func (el *EventLog) GetByType(t EventType) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// Since returns the events appended after the given index along with the new
// high-water mark. Pollers (the hub, the journal flusher) use it to pick up
// only what they have not yet seen.
func (el *EventLog) Since(index int) ([]GameEvent, int) {
	el.mu.RLock()
	defer el.mu.RUnlock()

	if index < 0 {
		index = 0
	}
	if index >= len(el.events) {
		return nil, len(el.events)
	}
	tail := make([]GameEvent, len(el.events)-index)
	copy(tail, el.events[index:])
	return tail, len(el.events)
}

// Replay returns the full session history, oldest first.
func (el *EventLog) Replay() []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()
	out := make([]GameEvent, len(el.events))
	copy(out, el.events)
	return out
}

// Len returns the number of events recorded so far.
func (el *EventLog) Len() int {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return len(el.events)
}

// GenerateEventID creates a unique event identifier.
func GenerateEventID() string {
	return uuid.NewString()
}
