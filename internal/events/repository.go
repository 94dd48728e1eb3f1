package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dannybabbev/totem/internal/infrastructure/database"
)

// SQLiteRepository persists events in the event_log table so history
// survives daemon restarts.
type SQLiteRepository struct {
	db *database.DB
}

// NewSQLiteRepository creates a repository backed by the given database.
func NewSQLiteRepository(db *database.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Save writes one event.
func (r *SQLiteRepository) Save(ctx context.Context, e Event) error {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return fmt.Errorf("marshalling event data: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO event_log (id, module, type, data, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Module, e.Type, string(data), e.Timestamp.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}
	return nil
}

// Recent returns the newest events, most recent first.
func (r *SQLiteRepository) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, module, type, data, created_at FROM event_log ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		var data, createdAt string
		if err := rows.Scan(&e.ID, &e.Module, &e.Type, &data, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning event row: %w", err)
		}
		if err := json.Unmarshal([]byte(data), &e.Data); err != nil {
			return nil, fmt.Errorf("unmarshalling event data: %w", err)
		}
		e.Timestamp, _ = time.Parse(time.RFC3339Nano, createdAt) //nolint:errcheck // Format is controlled
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}
	return out, nil
}
