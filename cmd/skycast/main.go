// Skycast is a terminal weather application.
//
// It provides an interactive wizard for choosing a place (country, state,
// city) and units through searchable dropdowns, one-shot forecast output
// for scripting, and discovery of personal weather stations on the local
// network.
//
// Usage:
//
//	skycast [command] [flags]
//
// Running without arguments launches the interactive wizard.
// See 'skycast --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skycastapp/skycast/internal/logging"
	"github.com/skycastapp/skycast/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "skycast",
	Short: "SkyCast Terminal Weather",
	Long: `A terminal weather application.

Choose your place through searchable country, state, and city dropdowns,
view current conditions with a multi-day outlook, and discover personal
weather stations on your local network.

If no command is specified, the interactive wizard will launch automatically.`,
	Version: version.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.InitializeFromEnv()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run wizard when no subcommand provided
		return runWizard(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("skycast %s\n", version.Full())
	},
}
