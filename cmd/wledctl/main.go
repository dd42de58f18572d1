// Wledctl is a fleet controller for WLED devices on the local network.
//
// It discovers controllers over mDNS, keeps a grouped device registry,
// and runs bulk commands (power, UDP sync settings, reboot, state
// queries) across device selections with per-device retries.
//
// Usage:
//
//	wledctl [command] [flags]
//
// Running without arguments opens the interactive console.
// See 'wledctl --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muldoon/wledctl/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "wledctl",
	Short: "WLED Fleet Controller",
	Long: `Discover and control WLED devices on the local network.

Scans for controllers over mDNS, groups them into a fleet, and runs
bulk commands (power, UDP sync, reboot, state queries) across device
selections with per-device retries.

If no command is specified, the interactive console will launch.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: open the console when no subcommand given
		return runConsole(cmd, args)
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
		fmt.Printf("wledctl %s (commit: %s)\n", version.Version, version.Commit)
	},
}
