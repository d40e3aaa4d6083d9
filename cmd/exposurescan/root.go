// Package main provides the entry point for the exposurescan CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for exposurescan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exposurescan",
		Short: "Estimate the digital exposure of an email, username, or image URL",
		Long: `exposurescan estimates how exposed an identity is on the public internet.

Given an email address, a username, or a public image URL, it checks known
data breach corpora, probes a panel of platforms for matching profiles, and
verifies image reachability. The findings are combined into a weighted
exposure score (0-100) with prioritized remediation guidance and a
transparency section listing exactly what was and was not checked.

All lookups use public sources only. Scans are stored locally so past
results can be listed and compared with 'exposurescan history'.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewPasswordCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
