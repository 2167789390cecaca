// Package storage provides the SQLite session journal: an append-only copy
// of the event log plus periodic player snapshots. The journal is diagnostic
// data for the current session; the server never restores state from it.
package storage

import (
	"context"
	"time"
)

// GameEvent is the storage-facing shape of a session event.
type GameEvent struct {
	ID        string
	SessionID string
	Timestamp time.Time
	EventType string
	ActorID   string
	Payload   map[string]interface{}
	StreakDay int
}

// PlayerSnapshot is a periodic dump of the aggregate for inspection.
type PlayerSnapshot struct {
	PlayerID      string
	SessionID     string
	Name          string
	Coins         int64
	Energy        int
	EnergyCap     int
	EarnPerTap    int
	ProfitPerHour int
	Level         int
	StreakDay     int
	EnergyCharges int
}

// EventRepository defines how journal events are written and read back.
type EventRepository interface {
	Append(ctx context.Context, event GameEvent) error
	GetBySessionID(ctx context.Context, sessionID string) ([]GameEvent, error)
	GetByEventType(ctx context.Context, sessionID, eventType string) ([]GameEvent, error)
}

// SnapshotRepository defines how player snapshots are upserted and read.
type SnapshotRepository interface {
	Upsert(ctx context.Context, snapshot PlayerSnapshot) error
	GetByPlayerID(ctx context.Context, playerID string) (*PlayerSnapshot, error)
}
