package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"state_notifier/internal/domain/run"
)

// ErrRunNotFound is returned when no run is recorded for the requested date.
var ErrRunNotFound = fmt.Errorf("notification run not found")

type SQLiteRunRepository struct {
	db *sql.DB
}

func NewSQLiteRunRepository(db *sql.DB) *SQLiteRunRepository {
	return &SQLiteRunRepository{db: db}
}

// Record inserts the run for its calendar date, overwriting any earlier record
// for the same date. The ledger holds at most one row per day.
func (r *SQLiteRunRepository) Record(ctx context.Context, rec *run.Run) error {
	query := `INSERT INTO notification_runs (run_date, state, destination, delivered, created_at)
               VALUES (?, ?, ?, ?, ?)
               ON CONFLICT(run_date) DO UPDATE SET
                   state = excluded.state,
                   destination = excluded.destination,
                   delivered = excluded.delivered,
                   created_at = excluded.created_at
               RETURNING id`
	rec.CreatedAt = time.Now()
	err := r.db.QueryRowContext(ctx, query, rec.RunDate, rec.State, rec.Destination, rec.Delivered, rec.CreatedAt).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("error recording notification run: %w", err)
	}
	return nil
}

func (r *SQLiteRunRepository) GetByDate(ctx context.Context, date string) (*run.Run, error) {
	query := `SELECT id, run_date, state, destination, delivered, created_at
               FROM notification_runs WHERE run_date = ?`
	rec := run.Run{}
	err := r.db.QueryRowContext(ctx, query, date).Scan(
		&rec.ID, &rec.RunDate, &rec.State, &rec.Destination, &rec.Delivered, &rec.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("error getting notification run by date: %w", err)
	}
	return &rec, nil
}
