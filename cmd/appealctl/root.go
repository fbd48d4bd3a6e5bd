package main

import (
	"github.com/spf13/cobra"

	"github.com/noah-isme/appeal-routing-api/pkg/config"
)

func newRootCommand() *cobra.Command {
	return newRootCommandWith(newCommandContext(config.Load))
}

func newRootCommandWith(ctx *commandContext) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "appealctl",
		Short:         "Operator tooling for the appeal routing API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newTokenCommand(ctx))
	rootCmd.AddCommand(newHierarchyCommand())
	rootCmd.AddCommand(newSeedCommand(ctx))

	return rootCmd
}
