// Package commands implements the gonetctl CLI commands.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// outputFormat controls the output format for commands that render
// structured data (table or json).
var outputFormat string

// rootCmd is the top-level cobra command for gonetctl.
var rootCmd = &cobra.Command{
	Use:   "gonetctl",
	Short: "CLI for the gonet TCP server",
	Long:  "gonetctl runs and inspects the gonet TCP server framework from the command line.",
	// Silence cobra's built-in usage/error printing so we control it.
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "table",
		"output format: table, json")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(ifacesCmd())
	rootCmd.AddCommand(versionCmd())
}

// Execute runs the root command and exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
