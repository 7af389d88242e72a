// Package formatter renders CLI output with lipgloss styles.
package formatter

import (
	"strings"

	"github.com/alexanderramin/sitebook/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen   = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow  = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed     = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue    = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple  = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim     = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg      = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader  = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold    = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
	StyleSection = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
)

// ProgressStyle colors a completion ratio: green when done, yellow once
// started, dim otherwise.
func ProgressStyle(ratio float64) lipgloss.Style {
	switch {
	case ratio >= 1:
		return StyleGreen
	case ratio > 0:
		return StyleYellow
	default:
		return StyleDim
	}
}

// StatusPill returns a colored project status indicator.
func StatusPill(status domain.ProjectStatus) string {
	switch status {
	case domain.ProjectActive:
		return StyleGreen.Render("● active")
	case domain.ProjectArchived:
		return StyleDim.Render("○ archived")
	default:
		return StyleDim.Render("● " + string(status))
	}
}

// Header renders an upper-cased title over a rule of the same width.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return StyleHeader.Render(upper) + "\n" + StyleDim.Render(line)
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
