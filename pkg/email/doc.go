// Package email sends transactional notifications such as enrollment
// confirmations and "second factor disabled" warnings.
//
// # Architecture
//
// Everything goes through the EmailSender interface:
//   - the Postmark client for production delivery with tracking
//   - DevSender for local development (saves emails to disk)
//
// NewSender picks between them depending on whether Postmark tokens are set.
// All implementations validate SendEmailParams before sending.
//
// # Usage
//
//	sender, err := email.NewSender(cfg)
//	if err != nil {
//	    return err
//	}
//
//	body, err := templates.Render(ctx, templates.File(cfg.TemplatesDir, "totp-enabled", map[string]string{
//	    "name": "Alice",
//	}))
//	if err != nil {
//	    return err
//	}
//
//	err = sender.SendEmail(ctx, email.SendEmailParams{
//	    SendTo:   "alice@example.com",
//	    Subject:  "Two-factor authentication enabled",
//	    BodyHTML: body,
//	    Tag:      "totp-enabled",
//	})
//
// # Error Handling
//
//   - ErrInvalidConfig: configuration validation failed
//   - ErrInvalidParams: email parameters validation failed
//   - ErrFailedToSendEmail: delivery failed
//
// Check them with errors.Is.
package email
