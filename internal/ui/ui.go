// Package ui holds the shared terminal styles for command output.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// RenderAccent styles s as an attention-drawing accent.
func RenderAccent(s string) string { return accentStyle.Render(s) }

// RenderPass styles s as a success marker.
func RenderPass(s string) string { return passStyle.Render(s) }

// RenderWarn styles s as a warning marker.
func RenderWarn(s string) string { return warnStyle.Render(s) }

// RenderError styles s as a failure marker.
func RenderError(s string) string { return errorStyle.Render(s) }
