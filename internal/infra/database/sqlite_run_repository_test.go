package database

import (
	"context"
	"path/filepath"
	"testing"

	"state_notifier/internal/domain/run"

	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *SQLiteRunRepository {
	t.Helper()
	db, err := NewSQLiteConnection(filepath.Join(t.TempDir(), "notifier.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLiteRunRepository(db)
}

func TestRecordAndGetByDate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rec := &run.Run{
		RunDate:     "2026-08-30",
		State:       "home",
		Destination: "https://hooks/home",
		Delivered:   true,
	}
	require.NoError(t, repo.Record(ctx, rec))
	require.NotZero(t, rec.ID)
	require.False(t, rec.CreatedAt.IsZero())

	got, err := repo.GetByDate(ctx, "2026-08-30")
	require.NoError(t, err)
	require.Equal(t, rec.RunDate, got.RunDate)
	require.Equal(t, "home", got.State)
	require.Equal(t, "https://hooks/home", got.Destination)
	require.True(t, got.Delivered)
}

func TestGetByDate_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetByDate(context.Background(), "2026-08-30")
	require.ErrorIs(t, err, ErrRunNotFound)
}

func TestGetByDate_DifferentDateIsNotFound(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Record(ctx, &run.Run{
		RunDate: "2026-08-29", State: "home", Destination: "https://hooks/home", Delivered: true,
	}))

	_, err := repo.GetByDate(ctx, "2026-08-30")
	require.ErrorIs(t, err, ErrRunNotFound)
}

func TestRecord_OverwritesSameDate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Record(ctx, &run.Run{
		RunDate: "2026-08-30", State: "home", Destination: "https://hooks/home", Delivered: true,
	}))
	require.NoError(t, repo.Record(ctx, &run.Run{
		RunDate: "2026-08-30", State: "away", Destination: "https://hooks/away", Delivered: true,
	}))

	got, err := repo.GetByDate(ctx, "2026-08-30")
	require.NoError(t, err)
	require.Equal(t, "away", got.State)
	require.Equal(t, "https://hooks/away", got.Destination)
}

func TestLedgerSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notifier.db")
	ctx := context.Background()

	db, err := NewSQLiteConnection(path)
	require.NoError(t, err)
	repo := NewSQLiteRunRepository(db)
	require.NoError(t, repo.Record(ctx, &run.Run{
		RunDate: "2026-08-30", State: "home", Destination: "https://hooks/home", Delivered: true,
	}))
	require.NoError(t, db.Close())

	db, err = NewSQLiteConnection(path)
	require.NoError(t, err)
	defer db.Close()

	got, err := NewSQLiteRunRepository(db).GetByDate(ctx, "2026-08-30")
	require.NoError(t, err)
	require.Equal(t, "home", got.State)
}
