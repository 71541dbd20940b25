package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/quotelane/quotelane-backend/pkg/config"
	"github.com/quotelane/quotelane-backend/pkg/logger"
)

// Message is a plain-text email ready for delivery.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers notification emails.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender delivers mail through a single SMTP relay.
type SMTPSender struct {
	cfg  config.SMTPConfig
	logg *logger.Logger
	send func(addr string, auth smtp.Auth, from string, to []string, body []byte) error
}

// NewSMTPSender builds a sender from configuration.
func NewSMTPSender(cfg config.SMTPConfig, logg *logger.Logger) (*SMTPSender, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if strings.TrimSpace(cfg.From) == "" {
		return nil, fmt.Errorf("smtp from address is required")
	}
	return &SMTPSender{
		cfg:  cfg,
		logg: logg,
		send: smtp.SendMail,
	}, nil
}

// Send delivers one message. Auth is skipped when no username is configured,
// which matches local relays like mailhog.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	to := strings.TrimSpace(msg.To)
	if to == "" {
		return fmt.Errorf("recipient is required")
	}

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	payload := buildPayload(s.cfg.From, to, msg.Subject, msg.Body)

	if err := s.send(addr, auth, s.cfg.From, []string{to}, payload); err != nil {
		return fmt.Errorf("sending mail via %s: %w", addr, err)
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "recipient", to), "notification email delivered")
	}
	return nil
}

func buildPayload(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
