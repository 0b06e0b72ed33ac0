// SPDX-FileCopyrightText: 2026 Logan Lindquist Land
// SPDX-License-Identifier: FSL-1.1-MIT

// Package render formats run history and check results for the terminal.
package render

import "github.com/charmbracelet/lipgloss"

// Status colors for run outcomes.
const (
	ColorOK     = lipgloss.Color("#00FF00") // Green - successful runs
	ColorFailed = lipgloss.Color("#FF0000") // Red - failed runs
)

// UI colors for general interface elements.
const (
	ColorSecondary = lipgloss.Color("#FFFDF5") // Off-white text
	ColorMuted     = lipgloss.Color("#626262") // Muted text
	ColorBorder    = lipgloss.Color("#383838") // Border color
)

// Styles contains all lipgloss style definitions used for output.
type Styles struct {
	Label lipgloss.Style
	Muted lipgloss.Style

	// Table styles
	TableHeader lipgloss.Style
	TableRow    lipgloss.Style

	// Status indicators
	StatusOK     lipgloss.Style
	StatusFailed lipgloss.Style
}

// DefaultStyles creates a new Styles instance with default styling.
func DefaultStyles() Styles {
	return Styles{
		Label: lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true),

		Muted: lipgloss.NewStyle().
			Foreground(ColorMuted),

		TableHeader: lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(ColorBorder).
			BorderBottom(true),

		TableRow: lipgloss.NewStyle().
			Foreground(ColorSecondary),

		StatusOK: lipgloss.NewStyle().
			Foreground(ColorOK).
			Bold(true),

		StatusFailed: lipgloss.NewStyle().
			Foreground(ColorFailed).
			Bold(true),
	}
}

// DefaultStyle is the default style instance.
var DefaultStyle = DefaultStyles()
