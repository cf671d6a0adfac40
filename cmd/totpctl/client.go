package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/totpauth/pkg/logger"
)

func newClientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Manage known client ids",
	}
	cmd.AddCommand(newClientAddCmd())
	return cmd
}

func newClientAddCmd() *cobra.Command {
	var target storeTarget

	cmd := &cobra.Command{
		Use:   "add CLIENT_ID...",
		Short: "Register inactive clients, existing ids are left untouched",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New(logger.WithOutput(cmd.ErrOrStderr()), logger.WithDevelopment("totpctl"))
			registry, release, err := target.open(cmd.Context(), log)
			if err != nil {
				return err
			}
			defer release()

			for _, id := range args {
				id = strings.TrimSpace(id)
				if id == "" {
					continue
				}
				if err := registry.AddClient(cmd.Context(), id); err != nil {
					return fmt.Errorf("add client %q: %w", id, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
	target.bind(cmd)
	return cmd
}
