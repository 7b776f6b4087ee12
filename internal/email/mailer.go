package email

import (
	"fmt"

	"hobbyhub/internal/config"
)

// Mailer is the outbound-mail collaborator used by the auth service.
type Mailer interface {
	Send(to, subject, body string) error
}

type SMTPMailer struct {
	cfg  SMTPConfig
	from string
}

func NewMailer(cfg *config.Config) Mailer {
	return &SMTPMailer{
		cfg: SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
		},
		from: fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromEmail),
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	return SendSMTP(m.cfg, &Email{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Body:    body,
	})
}
