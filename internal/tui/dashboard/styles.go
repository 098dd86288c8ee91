package dashboard

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lifehealth/dietcli/internal/models"
	"github.com/lifehealth/dietcli/internal/session"
)

var (
	primaryColor = lipgloss.Color("212")
	mutedColor   = lipgloss.Color("241")
	successColor = lipgloss.Color("42")
	warningColor = lipgloss.Color("214")
	errorColor   = lipgloss.Color("196")

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.Color("237")).
			Foreground(lipgloss.Color("255")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	cursorStyle = lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	subtleStyle = lipgloss.NewStyle().Foreground(mutedColor)
	helpStyle   = lipgloss.NewStyle().Foreground(mutedColor)
	noticeStyle = lipgloss.NewStyle().Foreground(warningColor).Bold(true)

	stateStyles = map[session.State]lipgloss.Style{
		session.StateAuthenticated:   lipgloss.NewStyle().Foreground(successColor),
		session.StateExpiring:        lipgloss.NewStyle().Foreground(warningColor).Bold(true),
		session.StateUnauthenticated: lipgloss.NewStyle().Foreground(errorColor),
	}

	syncStyles = map[models.SyncStatus]lipgloss.Style{
		models.SyncConfirmed:  lipgloss.NewStyle().Foreground(successColor),
		models.SyncLocalOnly:  lipgloss.NewStyle().Foreground(warningColor),
		models.SyncSuperseded: lipgloss.NewStyle().Foreground(lipgloss.Color("45")),
	}
)
