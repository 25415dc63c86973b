// Package main is the entry point for the finboard CLI.
//
// FinBoard can be run either as a library (SDK) or as a standalone binary
// with YAML configuration. This CLI provides the standalone binary approach.
//
// Usage:
//
//	finboard serve -c config.yaml    # Start the dashboard
//	finboard validate -c config.yaml # Validate configuration
//	finboard version                 # Show version info
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
	Use:   "finboard",
	Short: "A lightweight finance data dashboard",
	Long: `FinBoard is a lightweight, real-time finance data dashboard.

Widgets are created in the web UI, each polling one JSON API on its own
refresh interval. Live values stream to the browser over Server-Sent
Events, and the widget layout survives restarts in a snapshot file.

Quick start:
  1. Create a config file (finboard.yaml), or rely on defaults
  2. Run: finboard serve -c finboard.yaml
  3. Open http://localhost:8080 and add widgets

Example config:
  title: Portfolio Overview
  port: 8080
  data_file: finboard.json
  request_timeout: 10s`,
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
	Long:  `Print the version, commit hash, and build date of this finboard binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("finboard %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	// Register subcommands with root
	rootCmd.AddCommand(versionCmd)
}
