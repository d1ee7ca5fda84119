package sqlstore

import (
	"context"
	"fmt"
	"time"
)

// Run statuses.
const (
	RunCommitted = "committed"
	RunCanceled  = "canceled"
	RunFailed    = "failed"
)

// Run is one logged writeback invocation.
type Run struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Status     string    `json:"status"`
	Lots       int       `json:"lots"`
	Rooms      int       `json:"rooms"`
	Writes     int       `json:"writes"`
	Message    string    `json:"message,omitempty"`
}

// RecordRun logs a writeback outside of its unit of work, so failed and
// canceled runs are kept too.
func (s *Store) RecordRun(ctx context.Context, r Run) error {
	_, err := s.db.ExecContext(ctx, s.rebind(
		`INSERT INTO runs(id, started_at, finished_at, status, lots, rooms, writes, message)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?)`),
		r.ID, r.StartedAt.UTC(), r.FinishedAt.UTC(), r.Status, r.Lots, r.Rooms, r.Writes, r.Message)
	if err != nil {
		return fmt.Errorf("record run %s: %w", r.ID, err)
	}
	return nil
}

// Runs returns the most recent runs first.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT id, started_at, finished_at, status, lots, rooms, writes, COALESCE(message, '')
		FROM runs ORDER BY started_at DESC LIMIT ?`), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.Status, &r.Lots, &r.Rooms, &r.Writes, &r.Message); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
