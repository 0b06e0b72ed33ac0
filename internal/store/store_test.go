// SPDX-FileCopyrightText: 2026 Logan Lindquist Land
// SPDX-License-Identifier: FSL-1.1-MIT

package store

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llbbl/cicd-hello/internal/ci"
	"github.com/llbbl/cicd-hello/internal/db"
)

// setupTestStore creates an in-memory database and returns a Store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	database, err := db.Open(db.MemoryPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close(database)
	})

	err = db.RunMigrations(database)
	require.NoError(t, err)

	return New(database)
}

// testRun creates a successful run started age ago.
func testRun(id string, age time.Duration) Run {
	return Run{
		ID:           id,
		StartedAt:    time.Now().Add(-age).UTC().Truncate(time.Millisecond),
		Duration:     3 * time.Millisecond,
		Status:       StatusOK,
		BytesWritten: 81,
		Version:      "dev",
		Provider:     ci.ProviderLocal,
	}
}

func TestRecordRun_GetRun(t *testing.T) {
	store := setupTestStore(t)

	run := testRun("run-1", time.Minute)
	run.Pipeline = "build"
	run.CIRunID = "99"
	run.Commit = "abc123"
	run.Ref = "refs/heads/main"

	err := store.RecordRun(run)
	require.NoError(t, err)

	got, err := store.GetRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.True(t, run.StartedAt.Equal(got.StartedAt), "started_at should round trip: %v vs %v", run.StartedAt, got.StartedAt)
	assert.Equal(t, run.Duration, got.Duration)
	assert.Equal(t, StatusOK, got.Status)
	assert.Equal(t, 81, got.BytesWritten)
	assert.Equal(t, "dev", got.Version)
	assert.Equal(t, ci.ProviderLocal, got.Provider)
	assert.Equal(t, "build", got.Pipeline)
	assert.Equal(t, "99", got.CIRunID)
	assert.Equal(t, "abc123", got.Commit)
	assert.Equal(t, "refs/heads/main", got.Ref)
	assert.Empty(t, got.Error)
}

func TestRecordRun_FailedRunKeepsError(t *testing.T) {
	store := setupTestStore(t)

	run := testRun("run-failed", time.Minute)
	run.Status = StatusFailed
	run.Error = "writing line 1: broken pipe"

	require.NoError(t, store.RecordRun(run))

	got, err := store.GetRun("run-failed")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, got.Status)
	assert.Equal(t, "writing line 1: broken pipe", got.Error)
	assert.False(t, got.OK())
}

func TestRecordRun_Validation(t *testing.T) {
	store := setupTestStore(t)

	tests := []struct {
		name    string
		mutate  func(r *Run)
		wantErr string
	}{
		{
			name:    "missing id",
			mutate:  func(r *Run) { r.ID = "" },
			wantErr: "missing id",
		},
		{
			name:    "missing start time",
			mutate:  func(r *Run) { r.StartedAt = time.Time{} },
			wantErr: "missing start time",
		},
		{
			name:    "missing status",
			mutate:  func(r *Run) { r.Status = "" },
			wantErr: "missing status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := testRun("run-x", time.Minute)
			tt.mutate(&run)

			err := store.RecordRun(run)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRecordRun_DuplicateID(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.RecordRun(testRun("dup", time.Minute)))
	assert.Error(t, store.RecordRun(testRun("dup", time.Second)))
}

func TestGetRun_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetRun("missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListRuns_NewestFirst(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.RecordRun(testRun("oldest", 3*time.Hour)))
	require.NoError(t, store.RecordRun(testRun("newest", time.Minute)))
	require.NoError(t, store.RecordRun(testRun("middle", time.Hour)))

	runs, err := store.ListRuns(0)
	require.NoError(t, err)
	require.Len(t, runs, 3)

	assert.Equal(t, "newest", runs[0].ID)
	assert.Equal(t, "middle", runs[1].ID)
	assert.Equal(t, "oldest", runs[2].ID)
}

func TestListRuns_SameTimestampUsesInsertOrder(t *testing.T) {
	store := setupTestStore(t)

	startedAt := time.Now().UTC().Truncate(time.Millisecond)
	first := testRun("first", 0)
	first.StartedAt = startedAt
	second := testRun("second", 0)
	second.StartedAt = startedAt

	require.NoError(t, store.RecordRun(first))
	require.NoError(t, store.RecordRun(second))

	runs, err := store.ListRuns(0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "second", runs[0].ID)
}

func TestListRuns_Limit(t *testing.T) {
	store := setupTestStore(t)

	for i, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, store.RecordRun(testRun(id, time.Duration(i+1)*time.Minute)))
	}

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"limit smaller than total", 2, 2},
		{"limit larger than total", 10, 4},
		{"zero returns all", 0, 4},
		{"negative returns all", -5, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs, err := store.ListRuns(tt.limit)
			require.NoError(t, err)
			assert.Len(t, runs, tt.want)
		})
	}
}

func TestListRuns_Empty(t *testing.T) {
	store := setupTestStore(t)

	runs, err := store.ListRuns(10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStats(t *testing.T) {
	store := setupTestStore(t)

	newest := testRun("newest", time.Minute)
	failed := testRun("failed", time.Hour)
	failed.Status = StatusFailed
	failed.Error = "boom"

	require.NoError(t, store.RecordRun(testRun("old", 2*time.Hour)))
	require.NoError(t, store.RecordRun(failed))
	require.NoError(t, store.RecordRun(newest))

	stats, err := store.Stats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.OK)
	assert.Equal(t, 1, stats.Failed)
	assert.True(t, newest.StartedAt.Equal(stats.LastRun))
}

func TestStats_Empty(t *testing.T) {
	store := setupTestStore(t)

	stats, err := store.Stats()
	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)
	assert.True(t, stats.LastRun.IsZero())
}

func TestPruneRuns(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.RecordRun(testRun("recent", time.Hour)))
	require.NoError(t, store.RecordRun(testRun("old", 10*24*time.Hour)))
	require.NoError(t, store.RecordRun(testRun("ancient", 100*24*time.Hour)))

	deleted, err := store.PruneRuns(time.Now().Add(-7 * 24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	runs, err := store.ListRuns(0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "recent", runs[0].ID)
}

func TestPruneRuns_NothingToDelete(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.RecordRun(testRun("recent", time.Minute)))

	deleted, err := store.PruneRuns(time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
}

func TestNewRun_Finish(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	env := ci.Environment{Provider: ci.ProviderGitHubActions, Pipeline: "ci", RunID: "7", Commit: "sha", Ref: "main"}

	run := NewRun(start, "1.0.0", env)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, ci.ProviderGitHubActions, run.Provider)
	assert.Equal(t, "ci", run.Pipeline)
	assert.Equal(t, "7", run.CIRunID)
	assert.Equal(t, "sha", run.Commit)
	assert.Equal(t, "main", run.Ref)

	run.Finish(81, nil, start.Add(5*time.Millisecond))
	assert.Equal(t, StatusOK, run.Status)
	assert.Equal(t, 81, run.BytesWritten)
	assert.Equal(t, 5*time.Millisecond, run.Duration)

	run.Finish(18, errors.New("broken pipe"), start.Add(-time.Second))
	assert.Equal(t, StatusFailed, run.Status)
	assert.Equal(t, "broken pipe", run.Error)
	assert.Equal(t, time.Duration(0), run.Duration, "negative durations clamp to zero")
}

func TestRun_ShortID(t *testing.T) {
	assert.Equal(t, "12345678", Run{ID: "123456789abc"}.ShortID())
	assert.Equal(t, "abc", Run{ID: "abc"}.ShortID())
}
