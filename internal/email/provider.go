package email

import (
	"fmt"

	"jobboard_backend/internal/logger"

	"gopkg.in/gomail.v2"
)

// Provider sends email.
type Provider interface {
	Send(email *Email) error
	SendTemplate(to []string, subject string, templateName string, data TemplateData) error
}

// GomailProvider delivers through SMTP with gomail.
type GomailProvider struct {
	config   *SMTPConfig
	dialer   *gomail.Dialer
	renderer *TemplateManager
}

func NewGomailProvider(config *SMTPConfig, renderer *TemplateManager) *GomailProvider {
	return &GomailProvider{
		config:   config,
		dialer:   gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
		renderer: renderer,
	}
}

func (p *GomailProvider) Send(email *Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("email has no recipients")
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", p.config.FromEmail, p.config.FromName)
	m.SetHeader("To", email.To...)
	m.SetHeader("Subject", email.Subject)
	if email.HTMLBody != "" {
		m.SetBody("text/html", email.HTMLBody)
		if email.Body != "" {
			m.AddAlternative("text/plain", email.Body)
		}
	} else {
		m.SetBody("text/plain", email.Body)
	}

	if err := p.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (p *GomailProvider) SendTemplate(to []string, subject string, templateName string, data TemplateData) error {
	htmlBody, err := p.renderer.Render(templateName, data)
	if err != nil {
		return err
	}
	return p.Send(&Email{To: to, Subject: subject, HTMLBody: htmlBody})
}

// LogProvider only logs messages. Used when SMTP is not configured.
type LogProvider struct {
	renderer *TemplateManager
}

func NewLogProvider(renderer *TemplateManager) *LogProvider {
	return &LogProvider{renderer: renderer}
}

func (p *LogProvider) Send(email *Email) error {
	logger.Info("email suppressed (smtp not configured)", "to", email.To, "subject", email.Subject)
	return nil
}

func (p *LogProvider) SendTemplate(to []string, subject string, templateName string, data TemplateData) error {
	if _, err := p.renderer.Render(templateName, data); err != nil {
		return err
	}
	return p.Send(&Email{To: to, Subject: subject})
}

// NewProvider picks gomail when SMTP is configured and the log provider otherwise.
func NewProvider(config *SMTPConfig) Provider {
	renderer := NewTemplateManager()
	if config.Enabled() {
		return NewGomailProvider(config, renderer)
	}
	return NewLogProvider(renderer)
}
