package cmd

import "github.com/charmbracelet/lipgloss"

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	pathStyle = lipgloss.NewStyle().Bold(true)
	statStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func okMark() string {
	return okStyle.Render("✓")
}
