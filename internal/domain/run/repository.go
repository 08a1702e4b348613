package run

import (
	"context"
)

// Repository defines the operations for persisting and retrieving the per-day
// execution ledger.
type Repository interface {
	// Record writes (or overwrites) the run for its calendar date.
	Record(ctx context.Context, r *Run) error
	// GetByDate returns the run recorded for the given calendar date.
	GetByDate(ctx context.Context, date string) (*Run, error)
}
