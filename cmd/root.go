package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	version string
	apiFlag string
)

// SetVersion sets the version string
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "diet",
	Short: "Terminal client for the diet and fitness planner API",
	Long: `diet - a terminal client for the personal diet/fitness planner.

Mutations apply to the local mirror first and sync to the API opportunistically,
so the tool stays usable when the backend is unreachable. Point it at a server
with --api, the ` + "`DIET_API_BASE`" + ` environment variable, or a saved preference.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiFlag, "api", "", "API base URL for this invocation (overrides saved preference)")
	// --server is the older spelling; keep it working.
	rootCmd.PersistentFlags().SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		if name == "server" {
			name = "api"
		}
		return pflag.NormalizedName(name)
	})

	rootCmd.AddGroup(
		&cobra.Group{ID: "plan", Title: "Planning Commands:"},
		&cobra.Group{ID: "track", Title: "Tracking Commands:"},
		&cobra.Group{ID: "system", Title: "System Commands:"},
	)
	rootCmd.SetHelpCommandGroupID("system")
	rootCmd.SetCompletionCommandGroupID("system")
}
