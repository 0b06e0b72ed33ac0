// SPDX-FileCopyrightText: 2026 Logan Lindquist Land
// SPDX-License-Identifier: FSL-1.1-MIT

package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/llbbl/cicd-hello/internal/store"
)

// Column widths for the run table.
const (
	colWidthStatus   = 8
	colWidthID       = 10
	colWidthStarted  = 16
	colWidthDuration = 9
	colWidthProvider = 16
)

// Status icons.
const (
	iconOK     = "\u2713" // ✓
	iconFailed = "\u2717" // ✗
)

// Status renders a one-line check result.
func Status(ok bool, msg string) string {
	if ok {
		return DefaultStyle.StatusOK.Render(iconOK+" ok") + " " + msg
	}
	return DefaultStyle.StatusFailed.Render(iconFailed+" failed") + " " + msg
}

// RunTable renders runs as a table with start times relative to now.
func RunTable(runs []store.Run, now time.Time) string {
	if len(runs) == 0 {
		return DefaultStyle.Muted.Render("No runs recorded")
	}

	var b strings.Builder

	b.WriteString(DefaultStyle.TableHeader.Render(buildTableHeader()))
	b.WriteString("\n")

	for i, run := range runs {
		b.WriteString(renderRow(run, now))
		if i < len(runs)-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

// buildTableHeader builds the table header row content string.
func buildTableHeader() string {
	return fmt.Sprintf("%-*s %-*s %-*s %*s %-*s %s",
		colWidthStatus, "STATUS",
		colWidthID, "ID",
		colWidthStarted, "STARTED",
		colWidthDuration, "DURATION",
		colWidthProvider, "PROVIDER",
		"DETAIL",
	)
}

// renderRow renders one run. Padding is applied before styling so ANSI codes
// do not break column alignment.
func renderRow(run store.Run, now time.Time) string {
	statusText := fmt.Sprintf("%-*s", colWidthStatus, iconOK+" ok")
	statusStyle := DefaultStyle.StatusOK
	detail := run.Version
	if !run.OK() {
		statusText = fmt.Sprintf("%-*s", colWidthStatus, iconFailed+" failed")
		statusStyle = DefaultStyle.StatusFailed
		detail = run.Error
	}

	provider := run.Provider
	if provider == "" {
		provider = "-"
	}

	rest := fmt.Sprintf("%-*s %-*s %*s %-*s %s",
		colWidthID, run.ShortID(),
		colWidthStarted, truncate(humanize.RelTime(run.StartedAt, now, "ago", "from now"), colWidthStarted),
		colWidthDuration, run.Duration.String(),
		colWidthProvider, truncate(provider, colWidthProvider),
		detail,
	)

	return statusStyle.Render(statusText) + " " + DefaultStyle.TableRow.Render(rest)
}

// Stats renders a summary of the run history.
func Stats(stats store.Stats, now time.Time) string {
	lastRun := "never"
	if !stats.LastRun.IsZero() {
		lastRun = humanize.RelTime(stats.LastRun, now, "ago", "from now")
	}

	lines := []string{
		DefaultStyle.Label.Render("Runs:") + " " + humanize.Comma(int64(stats.Total)),
		DefaultStyle.Label.Render("OK:") + " " + humanize.Comma(int64(stats.OK)),
		DefaultStyle.Label.Render("Failed:") + " " + humanize.Comma(int64(stats.Failed)),
		DefaultStyle.Label.Render("Last run:") + " " + lastRun,
	}
	return strings.Join(lines, "\n")
}

// truncate shortens s to max runes, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}
