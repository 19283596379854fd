package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the credauth CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credauth",
		Short: "credauth - an in-memory credential authority",
		Long: `credauth registers accounts under unique usernames and emails and
verifies login attempts against salted argon2id password hashes.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(newServeCmd())

	return cmd
}
