// Package tui implements a compact status dashboard for a running peer,
// polling its admin API the way surge's reporter polled a download's
// progress state instead of wiring the render loop to the daemon directly.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorCyan   = lipgloss.AdaptiveColor{Light: "#0073a8", Dark: "#8be9fd"}
	colorPink   = lipgloss.AdaptiveColor{Light: "#d10074", Dark: "#ff79c6"}
	colorGreen  = lipgloss.AdaptiveColor{Light: "#2e7d32", Dark: "#50fa7b"}
	colorOrange = lipgloss.AdaptiveColor{Light: "#f57c00", Dark: "#ffb86c"}
	colorRed    = lipgloss.AdaptiveColor{Light: "#d32f2f", Dark: "#ff5555"}
	colorGray   = lipgloss.AdaptiveColor{Light: "#d0d0d0", Dark: "#44475a"}

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Foreground(colorCyan).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorCyan).
			Width(14)

	valueStyle = lipgloss.NewStyle().
			Foreground(colorPink).
			Bold(true)

	trackerStyle  = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	followerStyle = lipgloss.NewStyle().Foreground(colorOrange)
	errStyle      = lipgloss.NewStyle().Foreground(colorRed)
)
