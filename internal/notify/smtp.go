package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/smartbooker/backend/internal/model"
)

// SMTPSender delivers reminders via unauthenticated SMTP (Mailpit-compatible).
// Substituting it for the default LogSender does not touch scheduling logic.
type SMTPSender struct {
	addr string
	from string
}

func NewSMTPSender(host string, port string, from string) *SMTPSender {
	host = strings.TrimSpace(host)
	port = strings.TrimSpace(port)
	from = strings.TrimSpace(from)
	if from == "" {
		from = "no-reply@smartbooker.local"
	}
	return &SMTPSender{
		addr: fmt.Sprintf("%s:%s", host, port),
		from: from,
	}
}

func (s *SMTPSender) ProviderID() string {
	return "smtp"
}

func (s *SMTPSender) Send(_ context.Context, appt model.Appointment) error {
	msg := buildMessage(s.from, appt.Contact, reminderSubject(), reminderBody(appt))
	return smtp.SendMail(s.addr, nil, s.from, []string{appt.Contact}, []byte(msg))
}

func buildMessage(from, to, subject, body string) string {
	// Minimal RFC 5322 message; enough for Mailpit and most SMTP relays.
	return fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		from,
		to,
		subject,
		body,
	)
}
