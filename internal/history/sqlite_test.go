package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRun(outcome string, startedAt time.Time) Run {
	return Run{
		ID:         uuid.NewString(),
		StartedAt:  startedAt,
		FinishedAt: startedAt.Add(3 * time.Second),
		Remote:     "git@host:repo.git",
		Branch:     "gh-pages",
		CommitHash: "0123456789abcdef0123456789abcdef01234567",
		Files:      42,
		Outcome:    outcome,
	}
}

func TestSQLiteStore_RecordAndRecent(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	base := time.Now().Add(-time.Hour).Truncate(time.Second)

	first := newTestRun(OutcomeSuccess, base)
	second := newTestRun(OutcomeUnchanged, base.Add(10*time.Minute))
	require.NoError(t, store.Record(ctx, first))
	require.NoError(t, store.Record(ctx, second))

	runs, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Newest first
	assert.Equal(t, second.ID, runs[0].ID)
	assert.Equal(t, first.ID, runs[1].ID)

	got := runs[1]
	assert.Equal(t, first.Remote, got.Remote)
	assert.Equal(t, first.Branch, got.Branch)
	assert.Equal(t, first.CommitHash, got.CommitHash)
	assert.Equal(t, first.Files, got.Files)
	assert.Equal(t, OutcomeSuccess, got.Outcome)
	assert.Equal(t, first.StartedAt.Unix(), got.StartedAt.Unix())
}

func TestSQLiteStore_RecentLimit(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	base := time.Now().Add(-time.Hour)
	for i := range 5 {
		require.NoError(t, store.Record(ctx, newTestRun(OutcomeSuccess, base.Add(time.Duration(i)*time.Minute))))
	}

	runs, err := store.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestSQLiteStore_RecordsFailures(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	run := newTestRun(OutcomeFailure, time.Now())
	run.CommitHash = ""
	run.Error = "git push failed"
	require.NoError(t, store.Record(context.Background(), run))

	runs, err := store.Recent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, OutcomeFailure, runs[0].Outcome)
	assert.Equal(t, "git push failed", runs[0].Error)
	assert.Empty(t, runs[0].CommitHash)
}

func TestSQLiteStore_PersistsToFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "journal", "history.db")

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Record(context.Background(), newTestRun(OutcomeSuccess, time.Now())))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	runs, err := reopened.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
