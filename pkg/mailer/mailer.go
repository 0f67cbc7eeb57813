// Package mailer sends plain-text notification emails over SMTP.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Config holds SMTP connection details.
type Config struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

// Mailer sends a plain-text email. Services depend on this interface so
// tests can swap in a mock.
type Mailer interface {
	Send(to []string, subject, body string) error
}

// SMTPMailer is the net/smtp implementation of Mailer.
type SMTPMailer struct {
	cfg Config
}

// NewSMTPMailer creates an SMTP mailer.
func NewSMTPMailer(cfg Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send delivers a plain-text message to the recipients. Delivery is
// synchronous; callers decide whether a failure is fatal.
func (m *SMTPMailer) Send(to []string, subject, body string) error {
	if len(to) == 0 {
		return fmt.Errorf("no recipients")
	}

	msg := strings.Builder{}
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(body)

	addr := m.cfg.Host + ":" + m.cfg.Port
	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, to, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send mail via %s: %w", addr, err)
	}
	return nil
}
