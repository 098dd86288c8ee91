package cmd

import (
	"fmt"

	"github.com/lifehealth/dietcli/internal/config"
	"github.com/lifehealth/dietcli/internal/endpoint"
	"github.com/lifehealth/dietcli/internal/output"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Show and change client settings",
	GroupID: "system",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newApp()
		defer app.Close()

		fmt.Printf("Server:     %s\n", app.Resolver.Base())
		fmt.Printf("  env:      %s\n", orUnset(config.EnvBaseURL()))
		fmt.Printf("  flag:     %s\n", orUnset(apiFlag))
		fmt.Printf("  saved:    %s\n", orUnset(app.Config.BaseURL))
		fmt.Printf("  default:  %s\n", endpoint.DefaultBase)
		if dir, err := config.Dir(); err == nil {
			fmt.Printf("Config dir: %s\n", dir)
		}
		if dir, err := config.StateDir(); err == nil {
			fmt.Printf("State dir:  %s\n", dir)
		}
		return nil
	},
}

func orUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}

var configSetBaseCmd = &cobra.Command{
	Use:   "set-base <url>",
	Short: "Save the preferred API base URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newApp()
		defer app.Close()

		app.Resolver.SetBase(args[0])
		output.Success("API base saved: %s", app.Resolver.Base())
		if env := config.EnvBaseURL(); env != "" {
			output.Warning("DIET_API_BASE=%s still takes precedence", env)
		}
		return nil
	},
}

var configClearBaseCmd = &cobra.Command{
	Use:   "clear-base",
	Short: "Forget the saved API base URL",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newApp()
		defer app.Close()

		app.Config.BaseURL = ""
		if err := config.Save(app.Config); err != nil {
			output.Error("save config: %v", err)
			return err
		}
		output.Success("Saved base cleared; using %s", endpoint.DefaultBase)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetBaseCmd)
	configCmd.AddCommand(configClearBaseCmd)
	rootCmd.AddCommand(configCmd)
}
