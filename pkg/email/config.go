package email

// Config holds email service configuration.
// Postmark tokens are optional: without them NewSender falls back to the
// disk-backed DevSender, which is what local development uses.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL"`
	SupportEmail         string `env:"SUPPORT_EMAIL"`
	TemplatesDir         string `env:"EMAIL_TEMPLATES_DIR" envDefault:"emailTemplates"`
	DevDir               string `env:"EMAIL_DEV_DIR" envDefault:"tmp/emails"`
}

// Enabled reports whether Postmark credentials are configured.
func (c Config) Enabled() bool {
	return c.PostmarkServerToken != "" && c.PostmarkAccountToken != ""
}

// NewSender returns a Postmark sender when credentials are present and a
// DevSender writing to cfg.DevDir otherwise.
func NewSender(cfg Config) (EmailSender, error) {
	if !cfg.Enabled() {
		return NewDevSender(cfg.DevDir), nil
	}
	return NewPostmarkClient(cfg)
}
