package ui

import "github.com/charmbracelet/lipgloss"

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Bold(true).
			Padding(0, 1)

	KeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true)

	DimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	OnlineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)

	OfflineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	ErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	PendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// StatusBadge renders a lifecycle status with an appropriate color.
func StatusBadge(status string) string {
	switch status {
	case "ready":
		return OnlineStyle.Render(status)
	case "error":
		return ErrorStyle.Render(status)
	default:
		return PendingStyle.Render(status)
	}
}

// OnlineBadge renders the live state of a ready server.
func OnlineBadge(online bool) string {
	if online {
		return OnlineStyle.Render("online")
	}
	return OfflineStyle.Render("offline")
}
