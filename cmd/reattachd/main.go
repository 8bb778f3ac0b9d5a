package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Build info (set via ldflags).
	Version = "dev"
	Build   = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "reattachd",
		Short: "Remote control daemon for tmux sessions",
		Long: `reattachd lets a paired mobile device list, read, and drive your tmux
sessions and receive push notifications when coding agents finish a turn.

Running with no subcommand starts the daemon.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("reattachd v{{.Version}} (build: " + Build + ")\n")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(setupCmd())
	rootCmd.AddCommand(devicesCmd())
	rootCmd.AddCommand(notifyCmd())
	rootCmd.AddCommand(hooksCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(mcpCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
