// SPDX-FileCopyrightText: 2026 Logan Lindquist Land
// SPDX-License-Identifier: FSL-1.1-MIT

package testutil

import (
	"errors"
	"strings"
	"sync"
)

// ErrWriteFailed is returned by a RecordingWriter once it is configured to fail.
var ErrWriteFailed = errors.New("write failed")

// RecordingWriter implements io.Writer for testing.
// It records every successful write and can be told to fail after N writes,
// which stands in for a closed or broken stdout.
type RecordingWriter struct {
	mu        sync.Mutex
	Writes    []string // Record all successful writes for verification
	failAfter int
}

// NewRecordingWriter creates a RecordingWriter that never fails.
func NewRecordingWriter() *RecordingWriter {
	return &RecordingWriter{
		Writes:    make([]string, 0),
		failAfter: -1,
	}
}

// FailAfter makes every write after the first n successful ones return ErrWriteFailed.
// A negative n disables failures.
func (w *RecordingWriter) FailAfter(n int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.failAfter = n
}

// Write records p or fails, depending on configuration.
func (w *RecordingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.failAfter >= 0 && len(w.Writes) >= w.failAfter {
		return 0, ErrWriteFailed
	}
	w.Writes = append(w.Writes, string(p))
	return len(p), nil
}

// Reset clears all recorded writes.
func (w *RecordingWriter) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Writes = make([]string, 0)
}

// WriteCount returns the number of successful writes.
func (w *RecordingWriter) WriteCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.Writes)
}

// GetWrite returns the write at the given index, or "" if out of range.
func (w *RecordingWriter) GetWrite(index int) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if index < 0 || index >= len(w.Writes) {
		return ""
	}
	return w.Writes[index]
}

// String returns everything written so far.
func (w *RecordingWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return strings.Join(w.Writes, "")
}
