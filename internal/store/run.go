// SPDX-FileCopyrightText: 2026 Logan Lindquist Land
// SPDX-License-Identifier: FSL-1.1-MIT

package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/llbbl/cicd-hello/internal/ci"
)

// Status is the outcome of a recorded run.
type Status string

const (
	// StatusOK means the greeting was written in full.
	StatusOK Status = "ok"
	// StatusFailed means writing the greeting returned an error.
	StatusFailed Status = "failed"
)

// Run is one recorded invocation of the greeting.
type Run struct {
	ID           string
	StartedAt    time.Time
	Duration     time.Duration
	Status       Status
	Error        string
	BytesWritten int
	Version      string

	// Pipeline details, see ci.Environment.
	Provider string
	Pipeline string
	CIRunID  string
	Commit   string
	Ref      string
}

// NewRun creates a Run with a fresh ID, started at startedAt.
func NewRun(startedAt time.Time, version string, env ci.Environment) Run {
	return Run{
		ID:        uuid.NewString(),
		StartedAt: startedAt,
		Version:   version,
		Provider:  env.Provider,
		Pipeline:  env.Pipeline,
		CIRunID:   env.RunID,
		Commit:    env.Commit,
		Ref:       env.Ref,
	}
}

// Finish sets the outcome of the run from the result of writing the greeting.
func (r *Run) Finish(bytesWritten int, err error, finishedAt time.Time) {
	r.BytesWritten = bytesWritten
	r.Duration = finishedAt.Sub(r.StartedAt)
	if r.Duration < 0 {
		r.Duration = 0
	}
	if err != nil {
		r.Status = StatusFailed
		r.Error = err.Error()
		return
	}
	r.Status = StatusOK
	r.Error = ""
}

// OK reports whether the run succeeded.
func (r Run) OK() bool {
	return r.Status == StatusOK
}

// ShortID returns the first eight characters of the ID, for display.
func (r Run) ShortID() string {
	if len(r.ID) <= 8 {
		return r.ID
	}
	return r.ID[:8]
}

// Stats summarizes the run history.
type Stats struct {
	Total   int
	OK      int
	Failed  int
	LastRun time.Time // zero if there are no runs
}
