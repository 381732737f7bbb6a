package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"wirlang/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show wirc build fingerprints",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v := version.Version
		if v == "" {
			v = "dev"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wirc %s\n", color.New(color.Bold).Sprint(v))
		if version.GitCommit != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "commit: %s\n", version.GitCommit)
		}
		if version.BuildDate != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "built:  %s\n", version.BuildDate)
		}
		return nil
	},
}
