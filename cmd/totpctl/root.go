package main

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/totpauth/pkg/config"
)

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "totpctl",
		Short:         "Operator tasks for the TOTP enrollment service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if envFile == "" {
				return nil
			}
			return config.LoadEnv(envFile)
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load before reading configuration")

	root.AddCommand(
		newKeygenCmd(),
		newTokenCmd(),
		newMigrateCmd(),
		newClientCmd(),
	)
	return root
}
