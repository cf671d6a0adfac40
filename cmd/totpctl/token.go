package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/totpauth/modules/totpauth"
	"github.com/dmitrymomot/totpauth/pkg/config"
	"github.com/dmitrymomot/totpauth/pkg/jwt"
)

var errMissingSubject = errors.New("--subject is required")

func newTokenCmd() *cobra.Command {
	var (
		subject string
		scope   string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for a calling service",
		Long: "Issue a bearer token signed with AUTH_TOKEN_SECRET. The token carries the\n" +
			"configured issuer and audience and is accepted by the HTTP module.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if subject == "" {
				return errMissingSubject
			}

			var cfg jwt.Config
			if err := config.Parse(&cfg); err != nil {
				return err
			}
			svc, err := jwt.New(cfg)
			if err != nil {
				return err
			}

			token, claims, err := svc.Issue(subject, scope, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", claims.ExpiresAt.Time.UTC().Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "calling service name written to the sub claim")
	cmd.Flags().StringVar(&scope, "scope", totpauth.Scope, "space separated scopes")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime, AUTH_TOKEN_TTL when zero")
	return cmd
}
