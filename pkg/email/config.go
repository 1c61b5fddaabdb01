package email

// Config holds email service configuration.
// The Postmark tokens are optional so development environments can run with
// the file-based DevSender instead of a live provider. SenderEmail and
// SupportEmail establish the sender identity and reply-to behavior for all
// outbound mail.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL,required"`
	SupportEmail         string `env:"SUPPORT_EMAIL,required"`
	DevOutputDir         string `env:"EMAIL_DEV_DIR" envDefault:"./tmp/emails"`
}

// UseDevSender reports whether the config lacks provider credentials and the
// process should fall back to writing emails to disk.
func (c Config) UseDevSender() bool {
	return c.PostmarkServerToken == "" || c.PostmarkAccountToken == ""
}
