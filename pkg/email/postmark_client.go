package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrz1836/postmark"
)

type postmarkClient struct {
	client  *postmark.Client
	from    string
	replyTo string
}

// NewPostmarkClient returns a sender backed by the Postmark transactional API.
// Both tokens and valid sender and support addresses are required.
func NewPostmarkClient(cfg Config) (EmailSender, error) {
	required := []struct {
		name, value string
		address     bool
	}{
		{"PostmarkServerToken", cfg.PostmarkServerToken, false},
		{"PostmarkAccountToken", cfg.PostmarkAccountToken, false},
		{"SenderEmail", cfg.SenderEmail, true},
		{"SupportEmail", cfg.SupportEmail, true},
	}
	for _, f := range required {
		if f.value == "" {
			return nil, fmt.Errorf("%w: %s is required", ErrInvalidConfig, f.name)
		}
		if f.address && !emailRegex.MatchString(f.value) {
			return nil, fmt.Errorf("%w: %s must be a valid email address", ErrInvalidConfig, f.name)
		}
	}

	return &postmarkClient{
		client:  postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken),
		from:    cfg.SenderEmail,
		replyTo: cfg.SupportEmail,
	}, nil
}

// SendEmail delivers params. params.From replaces the configured sender and
// must be a sender signature verified in Postmark. Replies go to SupportEmail.
func (c *postmarkClient) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	from := c.from
	if params.From != "" {
		from = params.From
	}

	resp, err := c.client.SendEmail(ctx, postmark.Email{
		From:       from,
		ReplyTo:    c.replyTo,
		To:         params.SendTo,
		Subject:    params.Subject,
		Tag:        params.Tag,
		HTMLBody:   params.BodyHTML,
		TrackOpens: true,
		TrackLinks: "HtmlOnly",
	})
	if err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}
	if resp.ErrorCode != 0 {
		return fmt.Errorf("%w: postmark code %d: %s", ErrFailedToSendEmail, resp.ErrorCode, resp.Message)
	}
	return nil
}
