package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lifehealth/dietcli/internal/output"
	"github.com/lifehealth/dietcli/internal/transport"
	"github.com/spf13/cobra"
)

var apiCmd = &cobra.Command{
	Use:     "api <path>",
	Short:   "Send a raw request to the planner API",
	GroupID: "system",
	Long: `Send a raw request against the resolved base URL. The path goes through
the same URL builder as every other command, so /api/v1 is never doubled:

  diet api /api/v1/groceries
  diet api groceries            # same endpoint
  diet api -X POST -d '{"days":7}' plans/generate`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newApp()
		defer app.Close()

		method, _ := cmd.Flags().GetString("method")
		data, _ := cmd.Flags().GetString("data")

		opts := transport.Options{Method: strings.ToUpper(method)}
		if data != "" {
			var body any
			if err := json.Unmarshal([]byte(data), &body); err != nil {
				return fmt.Errorf("request body is not valid JSON: %w", err)
			}
			opts.Body = body
		}

		respBody, err := app.Transport.Request(args[0], opts)
		if err != nil {
			output.Error("%v", err)
			return err
		}

		var pretty bytes.Buffer
		if json.Indent(&pretty, respBody, "", "  ") == nil {
			fmt.Println(pretty.String())
		} else {
			fmt.Println(string(respBody))
		}
		return nil
	},
}

func init() {
	apiCmd.Flags().StringP("method", "X", "GET", "HTTP method")
	apiCmd.Flags().StringP("data", "d", "", "JSON request body")
	rootCmd.AddCommand(apiCmd)
}
