// SPDX-FileCopyrightText: 2026 Logan Lindquist Land
// SPDX-License-Identifier: FSL-1.1-MIT

// Package export provides export functionality for run history.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/llbbl/cicd-hello/internal/store"
)

// Supported export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ExportData represents the complete export structure.
type ExportData struct {
	ExportedAt time.Time     `json:"exported_at" yaml:"exported_at"`
	Total      int           `json:"total" yaml:"total"`
	Failed     int           `json:"failed" yaml:"failed"`
	Runs       []ExportedRun `json:"runs" yaml:"runs"`
}

// ExportedRun represents a single run in the export.
type ExportedRun struct {
	ID           string    `json:"id" yaml:"id"`
	StartedAt    time.Time `json:"started_at" yaml:"started_at"`
	DurationMs   int64     `json:"duration_ms" yaml:"duration_ms"`
	Status       string    `json:"status" yaml:"status"`
	Error        string    `json:"error,omitempty" yaml:"error,omitempty"`
	BytesWritten int       `json:"bytes_written" yaml:"bytes_written"`
	Version      string    `json:"version,omitempty" yaml:"version,omitempty"`
	Provider     string    `json:"provider,omitempty" yaml:"provider,omitempty"`
	Pipeline     string    `json:"pipeline,omitempty" yaml:"pipeline,omitempty"`
	CIRunID      string    `json:"ci_run_id,omitempty" yaml:"ci_run_id,omitempty"`
	Commit       string    `json:"commit,omitempty" yaml:"commit,omitempty"`
	Ref          string    `json:"ref,omitempty" yaml:"ref,omitempty"`
}

// Build converts runs into the export structure, stamped with exportedAt.
func Build(runs []store.Run, exportedAt time.Time) ExportData {
	exported := make([]ExportedRun, 0, len(runs))
	failed := 0

	for _, run := range runs {
		if !run.OK() {
			failed++
		}
		exported = append(exported, ExportedRun{
			ID:           run.ID,
			StartedAt:    run.StartedAt,
			DurationMs:   run.Duration.Milliseconds(),
			Status:       string(run.Status),
			Error:        run.Error,
			BytesWritten: run.BytesWritten,
			Version:      run.Version,
			Provider:     run.Provider,
			Pipeline:     run.Pipeline,
			CIRunID:      run.CIRunID,
			Commit:       run.Commit,
			Ref:          run.Ref,
		})
	}

	return ExportData{
		ExportedAt: exportedAt,
		Total:      len(runs),
		Failed:     failed,
		Runs:       exported,
	}
}

// ValidateFormat returns an error for unsupported formats.
func ValidateFormat(format string) error {
	switch format {
	case FormatJSON, FormatYAML:
		return nil
	}
	return fmt.Errorf("unsupported export format %q: must be %s or %s", format, FormatJSON, FormatYAML)
}

// Encode writes data to w in the given format.
func Encode(w io.Writer, data ExportData, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(data); err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			_ = enc.Close()
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return nil
	}
	return ValidateFormat(format)
}

// WriteFile writes runs to a timestamped file in dir and returns its path.
func WriteFile(runs []store.Run, format, dir string) (string, error) {
	if err := ValidateFormat(format); err != nil {
		return "", err
	}

	now := time.Now()
	stem := "cicd-hello-history-" + now.Format("2006-01-02-150405")

	f, path, err := createUnique(dir, stem, format)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	if err := Encode(f, Build(runs, now), format); err != nil {
		f.Close()
		return "", err
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return path, nil
}

// maxNameAttempts bounds the numbered suffixes tried by createUnique.
const maxNameAttempts = 100

// createUnique creates dir/stem.ext, or dir/stem-N.ext when that name is
// taken. Existing files are never opened or truncated.
func createUnique(dir, stem, ext string) (*os.File, string, error) {
	for i := 1; i <= maxNameAttempts; i++ {
		name := stem + "." + ext
		if i > 1 {
			name = fmt.Sprintf("%s-%d.%s", stem, i, ext)
		}
		path := filepath.Join(dir, name)

		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
		if err == nil {
			return f, path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", err
		}
	}
	return nil, "", fmt.Errorf("%s.%s: %d names already taken", filepath.Join(dir, stem), ext, maxNameAttempts)
}
