package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/teranos/sembrowse/am"
	"github.com/teranos/sembrowse/cmd/sembrowse/commands"
	"github.com/teranos/sembrowse/logger"
)

var rootCmd = &cobra.Command{
	Use:   "sembrowse",
	Short: "sembrowse - browse OpenTelemetry semantic convention registries",
	Long: `sembrowse - browse OpenTelemetry semantic convention registries.

Loads one or more registry roots, optionally correlates the attributes with
the columns present in Honeycomb datasets, and serves the resulting namespace
hierarchy as a drill-down web page.

Available commands:
  serve  - Build the attribute hierarchy and serve it over HTTP
  ls     - Print a subtree of the hierarchy
  am     - Inspect sembrowse configuration ("as configured")
  version

Examples:
  sembrowse serve --root otel=./model          # Serve one registry
  sembrowse serve --root otel=./model --no-usage
  sembrowse ls http.request --root otel=./model
  sembrowse am show --sources`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env never overrides variables already set in the environment
		if err := am.LoadDotEnv(".env"); err != nil {
			return err
		}

		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		if cfg, err := am.Load(); err == nil {
			verbosity = max(verbosity, cfg.Log.Verbosity)
			jsonLogs = jsonLogs || cfg.Log.JSON
		}
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Emit logs as JSON")

	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.LsCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
