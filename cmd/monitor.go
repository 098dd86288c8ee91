package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lifehealth/dietcli/internal/tui/dashboard"
	"github.com/spf13/cobra"
)

var monitorCmd = &cobra.Command{
	Use:     "monitor",
	Short:   "Live dashboard with session countdown and grocery list",
	GroupID: "system",
	Long: `Open the live dashboard. The header shows who is signed in and a
one-second session countdown; the list supports optimistic purchase toggles
that sync in the background. A lapsed session switches to a sign-in notice
instead of exiting.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newApp()
		defer app.Close()

		model := dashboard.NewModel(dashboard.Deps{
			API:     app.API,
			Mirror:  app.Mirror,
			Engine:  app.Engine,
			Session: app.Session,
			Server:  app.Resolver.Base(),
		})

		p := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("error running dashboard: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}
