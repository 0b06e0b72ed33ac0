// SPDX-FileCopyrightText: 2026 Logan Lindquist Land
// SPDX-License-Identifier: FSL-1.1-MIT

// Package testutil provides testing utilities and helpers for the cicd-hello project.
package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/llbbl/cicd-hello/internal/store"
)

// RunOption is a functional option for configuring test runs.
type RunOption func(*store.Run)

// NewTestRun creates a successful Run with sensible defaults for testing.
// Use the With* option functions to customize specific fields.
func NewTestRun(opts ...RunOption) store.Run {
	run := store.Run{
		ID:           uuid.NewString(),
		StartedAt:    time.Now().Add(-time.Hour).UTC().Truncate(time.Millisecond),
		Duration:     2 * time.Millisecond,
		Status:       store.StatusOK,
		BytesWritten: 81,
		Version:      "test",
		Provider:     "local",
	}

	for _, opt := range opts {
		opt(&run)
	}

	return run
}

// WithID sets the run ID.
func WithID(id string) RunOption {
	return func(r *store.Run) {
		r.ID = id
	}
}

// WithStartedAt sets the start time, truncated to the stored precision.
func WithStartedAt(t time.Time) RunOption {
	return func(r *store.Run) {
		r.StartedAt = t.UTC().Truncate(time.Millisecond)
	}
}

// WithAge sets the start time to d before now.
func WithAge(d time.Duration) RunOption {
	return func(r *store.Run) {
		r.StartedAt = time.Now().Add(-d).UTC().Truncate(time.Millisecond)
	}
}

// WithFailure marks the run as failed with the given message.
func WithFailure(msg string) RunOption {
	return func(r *store.Run) {
		r.Status = store.StatusFailed
		r.Error = msg
		r.BytesWritten = 0
	}
}

// WithDuration sets the run duration.
func WithDuration(d time.Duration) RunOption {
	return func(r *store.Run) {
		r.Duration = d
	}
}

// WithVersion sets the program version.
func WithVersion(v string) RunOption {
	return func(r *store.Run) {
		r.Version = v
	}
}

// WithPipeline sets the CI provider and pipeline details.
func WithPipeline(provider, pipeline, runID string) RunOption {
	return func(r *store.Run) {
		r.Provider = provider
		r.Pipeline = pipeline
		r.CIRunID = runID
	}
}

// WithCommit sets the commit and ref.
func WithCommit(commit, ref string) RunOption {
	return func(r *store.Run) {
		r.Commit = commit
		r.Ref = ref
	}
}
