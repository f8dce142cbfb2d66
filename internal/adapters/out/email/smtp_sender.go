// Package email implements the EmailSender port over plain SMTP.
package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"freight/internal/pkg/errs"
)

// SMTPSender delivers notification mails through an SMTP relay.
// Implements ports.EmailSender.
type SMTPSender struct {
	host string
	port int
	from string
	auth smtp.Auth
}

// NewSMTPSender creates a sender for the given relay. Username and password
// may be empty for relays that accept unauthenticated mail (local test
// setups); in that case no AUTH is attempted.
func NewSMTPSender(host string, port int, from string, username string, password string) (*SMTPSender, error) {
	if strings.TrimSpace(host) == "" {
		return nil, errs.NewValueIsRequiredError("host")
	}
	if port <= 0 {
		return nil, errs.NewValueIsInvalidError("port")
	}
	if strings.TrimSpace(from) == "" {
		return nil, errs.NewValueIsRequiredError("from")
	}

	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	return &SMTPSender{
		host: host,
		port: port,
		from: from,
		auth: auth,
	}, nil
}

// Send delivers one HTML mail. The context is checked before dialing;
// net/smtp itself does not support cancellation mid-send.
func (s *SMTPSender) Send(ctx context.Context, to string, subject string, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := strings.Join([]string{
		"From: " + s.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		htmlBody,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	if err := smtp.SendMail(addr, s.auth, s.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}

	return nil
}
