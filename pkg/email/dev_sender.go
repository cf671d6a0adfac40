package email

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// DevSender writes every message to dir instead of delivering it: the HTML
// body to <stamp>_<name>.html and the envelope to <stamp>_<name>.json, where
// name is the tag or, without one, the subject.
type DevSender struct {
	dir string
	now func() time.Time
}

// DevSenderOption configures a DevSender.
type DevSenderOption func(*DevSender)

// WithDevClock overrides the clock used for file names and timestamps.
func WithDevClock(now func() time.Time) DevSenderOption {
	return func(d *DevSender) {
		if now != nil {
			d.now = now
		}
	}
}

// NewDevSender returns a sender writing into dir, created on first use.
func NewDevSender(dir string, opts ...DevSenderOption) EmailSender {
	d := &DevSender{dir: dir, now: time.Now}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type envelope struct {
	Timestamp string `json:"timestamp"`
	From      string `json:"from,omitempty"`
	SendTo    string `json:"send_to"`
	Subject   string `json:"subject"`
	Tag       string `json:"tag,omitempty"`
}

func (d *DevSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToSendEmail, err)
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrFailedToSendEmail, d.dir, err)
	}

	now := d.now()
	name := params.Tag
	if name == "" {
		name = params.Subject
	}
	base := filepath.Join(d.dir, now.Format("2006_01_02_150405")+"_"+sanitizeFilename(name))

	meta, err := json.MarshalIndent(envelope{
		Timestamp: now.UTC().Format(time.RFC3339),
		From:      params.From,
		SendTo:    params.SendTo,
		Subject:   params.Subject,
		Tag:       params.Tag,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode envelope: %v", ErrFailedToSendEmail, err)
	}

	for path, data := range map[string][]byte{
		base + ".html": []byte(params.BodyHTML),
		base + ".json": meta,
	} {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("%w: write %s: %v", ErrFailedToSendEmail, filepath.Base(path), err)
		}
	}
	return nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-z0-9\-_.]`)

// sanitizeFilename lower-cases s, turns spaces into underscores and drops
// everything outside [a-z0-9-_.]. The result is at most 100 bytes.
func sanitizeFilename(s string) string {
	s = strings.ToLower(strings.ReplaceAll(s, " ", "_"))
	s = unsafeFilenameChars.ReplaceAllString(s, "")
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		return "email"
	}
	return s
}
