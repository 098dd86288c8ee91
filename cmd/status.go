package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/lifehealth/dietcli/internal/output"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Probe the API server",
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newApp()
		defer app.Close()

		fmt.Printf("Server: %s\n", app.Resolver.Base())

		result, err := app.API.Health()
		if err != nil {
			output.Error("unreachable: %v", err)
			output.Subtle("Local mirrors remain usable; mutations will sync later.")
			return err
		}
		output.Success("Reachable via %s", result.Path)

		// Structured probe bodies get summarized, anything else is skipped.
		var body map[string]any
		if err := json.Unmarshal(result.Body, &body); err == nil {
			if status, ok := body["status"].(string); ok {
				fmt.Printf("Status: %s\n", status)
			}
			if version, ok := body["version"].(string); ok {
				fmt.Printf("Version: %s\n", version)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
