package cmd

import (
	"fmt"

	"github.com/lifehealth/dietcli/internal/output"
	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:     "log",
	Short:   "Show the sync outcome journal",
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newApp()
		defer app.Close()

		if app.Journal == nil {
			output.Warning("Journal unavailable.")
			return nil
		}

		limit, _ := cmd.Flags().GetInt("limit")
		entries, err := app.Journal.Recent(limit)
		if err != nil {
			output.Error("read journal: %v", err)
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No sync outcomes recorded yet.")
			return nil
		}
		for _, e := range entries {
			when := e.At.Format("Jan _2 15:04:05")
			fmt.Printf("%-15s %-18s %-8s %-12s %s\n",
				when, e.Feature, e.Action, e.Status, e.Detail)
		}
		return nil
	},
}

var logClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop all recorded sync outcomes",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newApp()
		defer app.Close()

		if app.Journal == nil {
			output.Warning("Journal unavailable.")
			return nil
		}
		if err := app.Journal.Clear(); err != nil {
			output.Error("clear journal: %v", err)
			return err
		}
		fmt.Println("Journal cleared.")
		return nil
	},
}

func init() {
	logCmd.Flags().Int("limit", 20, "Maximum entries to show")
	logCmd.AddCommand(logClearCmd)
	rootCmd.AddCommand(logCmd)
}
