// Package main is the entry point for the linkbar CLI.
//
// Linkbar can be embedded as a library (SDK) or run as a standalone binary
// with YAML configuration. This CLI provides the standalone approach.
//
// Usage:
//
//	linkbar run -c config.yaml      # Start monitoring
//	linkbar validate -c config.yaml # Validate configuration
//	linkbar version                 # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
// It just displays help - actual functionality is in subcommands.
var rootCmd = &cobra.Command{
	Use:   "linkbar",
	Short: "A reachability status bar for your displays",
	Long: `Linkbar continuously probes a network endpoint and shows the result
as a colored bar across your displays: green when the target answers,
red when it does not.

Quick start:
  1. Create a config file (linkbar.yaml)
  2. Run: linkbar run -c linkbar.yaml

Example config:
  target_host: vpn.example.com:443
  display_policy: all
  statuses:
    reachable:
      color: green
      hide_after: 3s`,
	// No Run/RunE means this just shows help when called without subcommands
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this linkbar binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("linkbar %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	// Register subcommands with root
	rootCmd.AddCommand(versionCmd)
}
