package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/code-payments/fragments/pkg/fragments/config"
)

var envCmd = &cobra.Command{
	Use:   "env <NAME>",
	Short: "Print an environment variable, including program keys",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadProgramKeys(); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), config.GetEnvVar(args[0]))
		return nil
	},
}
