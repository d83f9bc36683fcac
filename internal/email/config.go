package email

// SMTPConfig holds the outgoing mail server settings.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// Enabled reports whether enough is configured to actually send mail.
func (c *SMTPConfig) Enabled() bool {
	return c != nil && c.Host != "" && c.FromEmail != ""
}
