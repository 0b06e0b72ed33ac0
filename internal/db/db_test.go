// SPDX-FileCopyrightText: 2026 Logan Lindquist Land
// SPDX-License-Identifier: FSL-1.1-MIT

package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_InMemory(t *testing.T) {
	db, err := Open(MemoryPath)
	require.NoError(t, err)
	defer Close(db)

	err = db.Ping()
	assert.NoError(t, err)
}

func TestOpen_FileCreatesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	db, err := Open(path)
	require.NoError(t, err)
	defer Close(db)

	assert.FileExists(t, path)
}

func TestRunMigrations_CreatesRunsTable(t *testing.T) {
	db, err := Open(MemoryPath)
	require.NoError(t, err)
	defer Close(db)

	err = RunMigrations(db)
	require.NoError(t, err)

	// Verify runs table exists by querying it
	_, err = db.Exec("SELECT seq, id, started_at, duration_ms, status, error_message, bytes_written, version, provider, pipeline, ci_run_id, commit_sha, ref FROM runs LIMIT 1")
	assert.NoError(t, err, "runs table should exist with expected columns")
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db, err := Open(MemoryPath)
	require.NoError(t, err)
	defer Close(db)

	err = RunMigrations(db)
	require.NoError(t, err)

	err = RunMigrations(db)
	assert.NoError(t, err, "running migrations twice should be idempotent")
}

func TestGetMigrationVersion(t *testing.T) {
	db, err := Open(MemoryPath)
	require.NoError(t, err)
	defer Close(db)

	err = RunMigrations(db)
	require.NoError(t, err)

	version, err := GetMigrationVersion(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version, "migration version should be 1 after running 00001_create_runs.sql")
}

func TestClose_NilDB(t *testing.T) {
	err := Close(nil)
	assert.NoError(t, err)
}

func TestGetDefaultDBPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path, err := GetDefaultDBPath()
	require.NoError(t, err)
	assert.Contains(t, path, ".cicd-hello")
	assert.Contains(t, path, "history.db")
}

func TestResolvePath(t *testing.T) {
	t.Run("configured path is used and parent created", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "runs.db")

		got, err := ResolvePath(path)
		require.NoError(t, err)
		assert.Equal(t, path, got)
		assert.DirExists(t, filepath.Dir(path))
	})

	t.Run("memory path passes through", func(t *testing.T) {
		got, err := ResolvePath(MemoryPath)
		require.NoError(t, err)
		assert.Equal(t, MemoryPath, got)
	})

	t.Run("empty falls back to default", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())

		got, err := ResolvePath("")
		require.NoError(t, err)
		assert.Contains(t, got, filepath.Join(".cicd-hello", "history.db"))
	})
}

func TestOpenAndMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	db, err := OpenAndMigrate(path)
	require.NoError(t, err)
	defer Close(db)

	version, err := GetMigrationVersion(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
}

func TestRunsTable_Indexes(t *testing.T) {
	db, err := Open(MemoryPath)
	require.NoError(t, err)
	defer Close(db)

	err = RunMigrations(db)
	require.NoError(t, err)

	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='index' AND tbl_name='runs'")
	require.NoError(t, err)
	defer rows.Close()

	var indexes []string
	for rows.Next() {
		var name string
		err := rows.Scan(&name)
		require.NoError(t, err)
		indexes = append(indexes, name)
	}

	assert.Contains(t, indexes, "idx_runs_started_at")
	assert.Contains(t, indexes, "idx_runs_status")
}

func TestRunsTable_Constraints(t *testing.T) {
	db, err := Open(MemoryPath)
	require.NoError(t, err)
	defer Close(db)

	err = RunMigrations(db)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO runs (id, started_at, status) VALUES ('run-1', '2026-01-01 00:00:00.000', 'ok')`)
	require.NoError(t, err)

	// Duplicate id should fail
	_, err = db.Exec(`INSERT INTO runs (id, started_at, status) VALUES ('run-1', '2026-01-02 00:00:00.000', 'ok')`)
	assert.Error(t, err, "duplicate id should violate unique constraint")

	// Unknown status should fail
	_, err = db.Exec(`INSERT INTO runs (id, started_at, status) VALUES ('run-2', '2026-01-02 00:00:00.000', 'running')`)
	assert.Error(t, err, "status outside ok/failed should violate check constraint")
}
