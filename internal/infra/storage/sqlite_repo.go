package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// SQLiteEventRepository implements EventRepository for SQLite.
type SQLiteEventRepository struct {
	db *sql.DB
}

func NewSQLiteEventRepository(db *sql.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{db: db}
}

func (r *SQLiteEventRepository) Append(ctx context.Context, event GameEvent) error {
	payloadBytes, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO events (id, session_id, timestamp, event_type, actor_id, payload, streak_day)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		event.ID, event.SessionID, event.Timestamp, event.EventType, event.ActorID,
		string(payloadBytes), event.StreakDay,
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

func (r *SQLiteEventRepository) getMany(ctx context.Context, query string, args ...interface{}) ([]GameEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []GameEvent
	for rows.Next() {
		var e GameEvent
		var payloadStr string
		err := rows.Scan(
			&e.ID, &e.SessionID, &e.Timestamp, &e.EventType, &e.ActorID,
			&payloadStr, &e.StreakDay,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(payloadStr), &e.Payload); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *SQLiteEventRepository) GetBySessionID(ctx context.Context, sessionID string) ([]GameEvent, error) {
	query := `SELECT id, session_id, timestamp, event_type, actor_id, payload, streak_day FROM events WHERE session_id = ? ORDER BY timestamp ASC`
	return r.getMany(ctx, query, sessionID)
}

func (r *SQLiteEventRepository) GetByEventType(ctx context.Context, sessionID, eventType string) ([]GameEvent, error) {
	query := `SELECT id, session_id, timestamp, event_type, actor_id, payload, streak_day FROM events WHERE session_id = ? AND event_type = ? ORDER BY timestamp ASC`
	return r.getMany(ctx, query, sessionID, eventType)
}

// ---------------------------------------------------------
// SQLiteSnapshotRepository
// ---------------------------------------------------------

type SQLiteSnapshotRepository struct {
	db *sql.DB
}

func NewSQLiteSnapshotRepository(db *sql.DB) *SQLiteSnapshotRepository {
	return &SQLiteSnapshotRepository{db: db}
}

func (r *SQLiteSnapshotRepository) Upsert(ctx context.Context, snapshot PlayerSnapshot) error {
	query := `
		INSERT INTO player_snapshots (player_id, session_id, name, coins, energy, energy_cap, earn_per_tap, profit_per_hour, level, streak_day, energy_charges, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(player_id) DO UPDATE SET
			session_id=excluded.session_id,
			name=excluded.name,
			coins=excluded.coins,
			energy=excluded.energy,
			energy_cap=excluded.energy_cap,
			earn_per_tap=excluded.earn_per_tap,
			profit_per_hour=excluded.profit_per_hour,
			level=excluded.level,
			streak_day=excluded.streak_day,
			energy_charges=excluded.energy_charges,
			last_updated=excluded.last_updated
	`
	_, err := r.db.ExecContext(ctx, query,
		snapshot.PlayerID, snapshot.SessionID, snapshot.Name, snapshot.Coins,
		snapshot.Energy, snapshot.EnergyCap, snapshot.EarnPerTap, snapshot.ProfitPerHour,
		snapshot.Level, snapshot.StreakDay, snapshot.EnergyCharges, time.Now(),
	)
	return err
}

func (r *SQLiteSnapshotRepository) GetByPlayerID(ctx context.Context, playerID string) (*PlayerSnapshot, error) {
	query := `SELECT player_id, session_id, name, coins, energy, energy_cap, earn_per_tap, profit_per_hour, level, streak_day, energy_charges FROM player_snapshots WHERE player_id = ?`
	var s PlayerSnapshot
	err := r.db.QueryRowContext(ctx, query, playerID).Scan(
		&s.PlayerID, &s.SessionID, &s.Name, &s.Coins, &s.Energy, &s.EnergyCap,
		&s.EarnPerTap, &s.ProfitPerHour, &s.Level, &s.StreakDay, &s.EnergyCharges,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return &s, nil
}
