// Package notify is the outbound-mail port for the auth flows. Delivery
// mechanics stay behind the Notifier interface so the auth service never
// learns how reset links reach the user.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

type Notifier interface {
	SendPasswordReset(ctx context.Context, email, resetURL string) error
}

// SMTPNotifier delivers reset links over a plain SMTP relay.
type SMTPNotifier struct {
	addr string
	from string
}

func NewSMTPNotifier(addr, from string) *SMTPNotifier {
	return &SMTPNotifier{addr: addr, from: from}
}

func (n *SMTPNotifier) SendPasswordReset(_ context.Context, email, resetURL string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", n.from)
	fmt.Fprintf(&msg, "To: %s\r\n", email)
	msg.WriteString("Subject: Reset Your Password\r\n")
	msg.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString("<h1>Reset Your Password</h1>")
	msg.WriteString("<p>Click the link below to reset your password. This link will expire in 1 hour.</p>")
	fmt.Fprintf(&msg, `<a href="%s">Reset Password</a>`, resetURL)

	if err := smtp.SendMail(n.addr, nil, n.from, []string{email}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

// LogNotifier stands in for a mail relay in dev environments.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendPasswordReset(_ context.Context, email, resetURL string) error {
	n.logger.Info("password reset requested", "email", email, "reset_url", resetURL)
	return nil
}
