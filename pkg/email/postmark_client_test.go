package email_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/totpauth/pkg/email"
)

func validPostmarkConfig() email.Config {
	return email.Config{
		PostmarkServerToken:  "test-server-token",
		PostmarkAccountToken: "test-account-token",
		SenderEmail:          "sender@example.com",
		SupportEmail:         "support@example.com",
	}
}

func TestNewPostmarkClient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*email.Config)
		errMsg string
	}{
		{name: "valid config"},
		{name: "empty server token", mutate: func(c *email.Config) { c.PostmarkServerToken = "" }, errMsg: "PostmarkServerToken is required"},
		{name: "empty account token", mutate: func(c *email.Config) { c.PostmarkAccountToken = "" }, errMsg: "PostmarkAccountToken is required"},
		{name: "missing sender", mutate: func(c *email.Config) { c.SenderEmail = "" }, errMsg: "SenderEmail is required"},
		{name: "invalid sender", mutate: func(c *email.Config) { c.SenderEmail = "sender" }, errMsg: "SenderEmail must be a valid email address"},
		{name: "missing support", mutate: func(c *email.Config) { c.SupportEmail = "" }, errMsg: "SupportEmail is required"},
		{name: "invalid support", mutate: func(c *email.Config) { c.SupportEmail = "support@" }, errMsg: "SupportEmail must be a valid email address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validPostmarkConfig()
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}

			client, err := email.NewPostmarkClient(cfg)
			if tt.errMsg == "" {
				require.NoError(t, err)
				assert.NotNil(t, client)
				return
			}
			assert.Nil(t, client)
			assert.ErrorIs(t, err, email.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestPostmarkClient_SendEmail_ValidatesBeforeNetwork(t *testing.T) {
	t.Parallel()

	client, err := email.NewPostmarkClient(validPostmarkConfig())
	require.NoError(t, err)

	tests := []struct {
		name   string
		params email.SendEmailParams
	}{
		{name: "empty recipient", params: email.SendEmailParams{Subject: "s", BodyHTML: "<p>b</p>"}},
		{name: "bad recipient", params: email.SendEmailParams{SendTo: "nope", Subject: "s", BodyHTML: "<p>b</p>"}},
		{name: "bad from", params: email.SendEmailParams{From: "nope", SendTo: "user@example.com", Subject: "s", BodyHTML: "<p>b</p>"}},
		{name: "empty subject", params: email.SendEmailParams{SendTo: "user@example.com", BodyHTML: "<p>b</p>"}},
		{name: "empty body", params: email.SendEmailParams{SendTo: "user@example.com", Subject: "s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := client.SendEmail(context.Background(), tt.params)
			assert.ErrorIs(t, err, email.ErrInvalidParams)
		})
	}
}
