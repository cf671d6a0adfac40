package main

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/totpauth/pkg/logger"
)

func newMigrateCmd() *cobra.Command {
	var target storeTarget

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the clients table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logger.New(logger.WithOutput(cmd.ErrOrStderr()), logger.WithDevelopment("totpctl"))
			_, release, err := target.open(cmd.Context(), log)
			if err != nil {
				return err
			}
			release()
			log.Info("schema is up to date")
			return nil
		},
	}
	target.bind(cmd)
	return cmd
}
