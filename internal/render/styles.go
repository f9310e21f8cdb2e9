package render

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	summaryStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)

	changedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	unchangedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	skippedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)
