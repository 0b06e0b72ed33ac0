// SPDX-FileCopyrightText: 2026 Logan Lindquist Land
// SPDX-License-Identifier: FSL-1.1-MIT

// Package greeting holds the fixed output of the smoke-test program.
package greeting

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Lines are written in order, one per line.
var Lines = [...]string{
	"Hello from CI/CD!",
	"This is a simple Python application for DevOps demonstration.",
}

// ErrMismatch is returned when captured output differs from the greeting.
var ErrMismatch = errors.New("output does not match greeting")

// Text returns the complete expected output, including the trailing newline.
func Text() string {
	var sb strings.Builder
	for _, line := range Lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Write writes the greeting to w and returns the number of bytes written.
func Write(w io.Writer) (int, error) {
	total := 0
	for i, line := range Lines {
		n, err := io.WriteString(w, line+"\n")
		total += n
		if err != nil {
			return total, fmt.Errorf("writing line %d: %w", i+1, err)
		}
	}
	return total, nil
}

// Verify checks that out is exactly the greeting. On mismatch the returned
// error wraps ErrMismatch and names the first differing line.
func Verify(out []byte) error {
	if string(out) == Text() {
		return nil
	}

	scanner := bufio.NewScanner(bytes.NewReader(out))
	lineNo := 0
	for scanner.Scan() {
		if lineNo >= len(Lines) {
			return fmt.Errorf("%w: unexpected extra line %d: %q", ErrMismatch, lineNo+1, scanner.Text())
		}
		if got := scanner.Text(); got != Lines[lineNo] {
			return fmt.Errorf("%w: line %d: got %q, want %q", ErrMismatch, lineNo+1, got, Lines[lineNo])
		}
		lineNo++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading output: %w", err)
	}
	if lineNo < len(Lines) {
		return fmt.Errorf("%w: missing line %d: want %q", ErrMismatch, lineNo+1, Lines[lineNo])
	}

	// Every line matched, so only line termination differs.
	return fmt.Errorf("%w: lines must each end with a single \\n", ErrMismatch)
}

// VerifyReader reads r to EOF and verifies it with Verify.
func VerifyReader(r io.Reader) error {
	out, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading output: %w", err)
	}
	return Verify(out)
}
