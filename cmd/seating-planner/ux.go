package main

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	colorAccent  = lipgloss.Color("#C9A0DC")
	colorSuccess = lipgloss.Color("#2CD7C7")
	colorWarning = lipgloss.Color("#F4D03F")
	colorError   = lipgloss.Color("#E74C3C")
	colorMuted   = lipgloss.Color("#6C7A89")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorAccent).Padding(0, 1)
)

func title(s string) string   { return titleStyle.Render(s) }
func success(s string) string { return successStyle.Render("✓ " + s) }
func warning(s string) string { return warningStyle.Render("⚠ " + s) }
func failure(s string) string { return errorStyle.Render("✗ " + s) }
func muted(s string) string   { return mutedStyle.Render(s) }
func boxed(s string) string   { return boxStyle.Render(s) }
