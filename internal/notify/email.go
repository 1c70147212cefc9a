package notify

import (
	"context"
	"time"

	gomail "gopkg.in/mail.v2"

	"github.com/trogers1052/insider-feed/internal/models"
)

// EmailConfig holds SMTP configuration for the email sender.
type EmailConfig struct {
	SMTPServer string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	FromEmail  string
	Recipients []string
}

// EmailSender delivers trade notifications via SMTP.
type EmailSender struct {
	cfg EmailConfig
}

// NewEmailSender creates a sender with the given SMTP configuration.
func NewEmailSender(cfg EmailConfig) *EmailSender {
	return &EmailSender{cfg: cfg}
}

// Name identifies the channel in logs.
func (s *EmailSender) Name() string { return "email" }

// Send delivers one email per batch with HTML body and plain text fallback.
func (s *EmailSender) Send(_ context.Context, trades []models.NormalizedTrade) error {
	msg := renderTrades(trades)

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.FromEmail)
	m.SetHeader("To", s.cfg.Recipients...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	m.AddAlternative("text/html", msg.HTML)

	dialer := gomail.NewDialer(s.cfg.SMTPServer, s.cfg.SMTPPort, s.cfg.SMTPUser, s.cfg.SMTPPass)
	dialer.Timeout = 10 * time.Second

	return dialer.DialAndSend(m)
}
