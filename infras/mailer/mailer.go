package mailer

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"
	"github.com/rs/zerolog/log"

	"inn/config"
)

//go:generate go run go.uber.org/mock/mockgen -source=./mailer.go -destination=./mocks/mailer_mock.go -package=mocks

// Mailer sends transactional email.
type Mailer interface {
	Send(ctx context.Context, toEmail, toName, subject, text, html string) error
}

type mailerSend struct {
	client *mailersend.Mailersend
	from   mailersend.From
}

// New returns a MailerSend-backed Mailer, or a logging no-op when the
// API key is not configured.
func New(cfg *config.Config) Mailer {
	if cfg.Mailer.APIKey == "" || cfg.Mailer.FromEmail == "" {
		log.Warn().Msg("[Mailer] api key or sender not configured, emails will only be logged")
		return &disabledMailer{}
	}

	return &mailerSend{
		client: mailersend.NewMailersend(cfg.Mailer.APIKey),
		from: mailersend.From{
			Name:  cfg.Mailer.FromName,
			Email: cfg.Mailer.FromEmail,
		},
	}
}

func (m *mailerSend) Send(ctx context.Context, toEmail, toName, subject, text, html string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Name: toName, Email: toEmail}})
	msg.SetSubject(subject)
	if strings.TrimSpace(text) != "" {
		msg.SetText(text)
	}
	if strings.TrimSpace(html) != "" {
		msg.SetHTML(html)
	}

	res, err := m.client.Email.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("mailersend status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	return nil
}

// disabledMailer stands in when no credentials are configured, so the
// rest of the service does not need to care.
type disabledMailer struct{}

func (d *disabledMailer) Send(_ context.Context, toEmail, _, subject, _, _ string) error {
	log.Info().
		Str("to", toEmail).
		Str("subject", subject).
		Msg("[Mailer] disabled, skipping send")
	return nil
}
