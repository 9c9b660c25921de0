// Package dhikr persists tasbih counters on the shared document store.
package dhikr

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type Counter struct {
	Name      string `json:"name"`
	Count     int    `json:"count"`
	Target    int    `json:"target"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

const DefaultTarget = 33

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get returns the named counter, or a zeroed counter with the default
// target when it was never incremented.
func (s *SQLiteStore) Get(ctx context.Context, name string) (Counter, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT name, count, target, updated_at FROM dhikr_counters WHERE name = ?", name)
	var c Counter
	var updatedAt sql.NullString
	err := row.Scan(&c.Name, &c.Count, &c.Target, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Counter{Name: name, Target: DefaultTarget}, nil
	}
	if err != nil {
		return Counter{}, fmt.Errorf("reading counter %s: %w", name, err)
	}
	c.UpdatedAt = updatedAt.String
	return c, nil
}

// Increment adds one to the named counter, creating it on first use, and
// returns the new state.
func (s *SQLiteStore) Increment(ctx context.Context, name string) (Counter, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO dhikr_counters (name, count, target, updated_at)
		VALUES (?, 1, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			count = count + 1,
			updated_at = excluded.updated_at
	`, name, DefaultTarget, now)
	if err != nil {
		return Counter{}, fmt.Errorf("incrementing counter %s: %w", name, err)
	}
	return s.Get(ctx, name)
}

func (s *SQLiteStore) Reset(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx,
		"UPDATE dhikr_counters SET count = 0 WHERE name = ?", name); err != nil {
		return fmt.Errorf("resetting counter %s: %w", name, err)
	}
	return nil
}
