package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"labelstartup-backend/internal/logger"

	"github.com/go-mail/mail/v2"
	"github.com/google/uuid"
)

type smtpMailer struct {
	dialer      *mail.Dialer
	fromAddress string
	fromName    string
}

func NewSMTPMailer(host string, port int, username, password, fromAddress, fromName string) Mailer {
	d := mail.NewDialer(host, port, username, password)
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.Timeout = 15 * time.Second
	return &smtpMailer{
		dialer:      d,
		fromAddress: fromAddress,
		fromName:    fromName,
	}
}

// messageID builds an RFC 5322 id on the sender's domain. SMTP relays do not return one.
func (m *smtpMailer) messageID() string {
	domain := "localhost"
	if _, host, ok := strings.Cut(m.fromAddress, "@"); ok && host != "" {
		domain = host
	}
	return fmt.Sprintf("<%s@%s>", uuid.NewString(), domain)
}

func (m *smtpMailer) Send(ctx context.Context, msg Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id := m.messageID()
	message := mail.NewMessage()
	message.SetAddressHeader("From", m.fromAddress, m.fromName)
	message.SetAddressHeader("To", msg.To.Email, msg.To.Name)
	if msg.ReplyTo != nil {
		message.SetAddressHeader("Reply-To", msg.ReplyTo.Email, msg.ReplyTo.Name)
	}
	message.SetHeader("Subject", msg.Subject)
	message.SetHeader("Message-ID", id)
	message.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		message.AddAlternative("text/html", msg.HTML)
	}

	logger.ExternalServiceCall("smtp", "send", "to", msg.To.Email, "subject", msg.Subject)
	if err := m.dialer.DialAndSend(message); err != nil {
		logger.ExternalServiceResult("smtp", "send", err)
		return "", fmt.Errorf("failed to send email via smtp: %w", err)
	}
	logger.ExternalServiceResult("smtp", "send", nil, "messageID", id)
	return id, nil
}
