// SPDX-FileCopyrightText: 2026 Logan Lindquist Land
// SPDX-License-Identifier: FSL-1.1-MIT

// Package store provides data access layer for run history.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store provides data access methods for recorded runs.
type Store struct {
	db *sql.DB
}

// New creates a new Store with the given database connection.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// RecordRun inserts a run. The run must have an ID.
func (s *Store) RecordRun(run Run) error {
	if run.ID == "" {
		return errors.New("recording run: missing id")
	}
	if run.StartedAt.IsZero() {
		return fmt.Errorf("recording run %s: missing start time", run.ID)
	}
	if run.Status == "" {
		return fmt.Errorf("recording run %s: missing status", run.ID)
	}

	_, err := s.db.Exec(`
		INSERT INTO runs (
			id, started_at, duration_ms, status, error_message, bytes_written,
			version, provider, pipeline, ci_run_id, commit_sha, ref
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		formatTimeForSQLite(run.StartedAt),
		run.Duration.Milliseconds(),
		string(run.Status),
		nullString(run.Error),
		run.BytesWritten,
		nullString(run.Version),
		nullString(run.Provider),
		nullString(run.Pipeline),
		nullString(run.CIRunID),
		nullString(run.Commit),
		nullString(run.Ref),
	)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", run.ID, err)
	}

	return nil
}

// GetRun loads a single run by ID.
// Returns ErrNotFound if the run does not exist.
func (s *Store) GetRun(id string) (*Run, error) {
	row := s.db.QueryRow(`
		SELECT id, started_at, duration_ms, status, error_message, bytes_written,
		       version, provider, pipeline, ci_run_id, commit_sha, ref
		FROM runs
		WHERE id = ?
	`, id)

	run, err := scanRunRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying run: %w", err)
	}

	return &run, nil
}

// ListRuns returns runs newest first. A limit of zero or less returns all runs.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1 // SQLite treats a negative LIMIT as no limit
	}

	rows, err := s.db.Query(`
		SELECT id, started_at, duration_ms, status, error_message, bytes_written,
		       version, provider, pipeline, ci_run_id, commit_sha, ref
		FROM runs
		ORDER BY started_at DESC, seq DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRunRows(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	return runs, nil
}

// Stats returns counts of recorded runs and the time of the most recent one.
func (s *Store) Stats() (Stats, error) {
	var stats Stats
	var okCount, failedCount sql.NullInt64
	var lastRun sql.NullString

	err := s.db.QueryRow(`
		SELECT COUNT(*),
		       SUM(CASE WHEN status = 'ok' THEN 1 ELSE 0 END),
		       SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END),
		       MAX(started_at)
		FROM runs
	`).Scan(&stats.Total, &okCount, &failedCount, &lastRun)
	if err != nil {
		return Stats{}, fmt.Errorf("querying run stats: %w", err)
	}

	// SUM over zero rows is NULL
	if okCount.Valid {
		stats.OK = int(okCount.Int64)
	}
	if failedCount.Valid {
		stats.Failed = int(failedCount.Int64)
	}
	if lastRun.Valid && lastRun.String != "" {
		t, err := parseTimeFromSQLite(lastRun.String)
		if err != nil {
			return Stats{}, fmt.Errorf("parsing last run time: %w", err)
		}
		stats.LastRun = t
	}

	return stats, nil
}

// PruneRuns removes runs started before the given time.
// Returns the number of deleted runs.
func (s *Store) PruneRuns(before time.Time) (int64, error) {
	result, err := s.db.Exec(`
		DELETE FROM runs
		WHERE started_at < ?
	`, before.UTC().Format(sqliteTimeFormat))
	if err != nil {
		return 0, fmt.Errorf("deleting old runs: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("getting rows affected: %w", err)
	}

	return count, nil
}

// scanner is an interface for both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanRunRows scans a run from sql.Rows.
func scanRunRows(rows *sql.Rows) (Run, error) {
	return scanRun(rows)
}

// scanRunRow scans a run from sql.Row.
func scanRunRow(row *sql.Row) (Run, error) {
	return scanRun(row)
}

// scanRun handles the common scanning logic.
func scanRun(s scanner) (Run, error) {
	var run Run
	var startedAt, status string
	var durationMs int64
	var errorMessage, version, provider, pipeline, ciRunID, commit, ref sql.NullString

	err := s.Scan(
		&run.ID,
		&startedAt,
		&durationMs,
		&status,
		&errorMessage,
		&run.BytesWritten,
		&version,
		&provider,
		&pipeline,
		&ciRunID,
		&commit,
		&ref,
	)
	if err != nil {
		return Run{}, err
	}

	t, err := parseTimeFromSQLite(startedAt)
	if err != nil {
		return Run{}, fmt.Errorf("parsing started_at: %w", err)
	}
	run.StartedAt = t
	run.Duration = time.Duration(durationMs) * time.Millisecond
	run.Status = Status(status)
	run.Error = errorMessage.String
	run.Version = version.String
	run.Provider = provider.String
	run.Pipeline = pipeline.String
	run.CIRunID = ciRunID.String
	run.Commit = commit.String
	run.Ref = ref.String

	return run, nil
}

// nullString returns a sql.NullString for the given string.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// sqliteTimeFormat keeps milliseconds so runs within the same second sort correctly.
const sqliteTimeFormat = "2006-01-02 15:04:05.000"

// formatTimeForSQLite converts a time to SQLite format string, or nil if zero.
func formatTimeForSQLite(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(sqliteTimeFormat)
}

// parseTimeFromSQLite parses a time string from SQLite, handling multiple formats.
func parseTimeFromSQLite(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}

	formats := []string{
		"2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z",
		"2006-01-02T15:04:05.999999999Z",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("cannot parse time: %s", s)
}
