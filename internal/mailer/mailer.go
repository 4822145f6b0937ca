package mailer

import (
	"log/slog"
	"net/smtp"
)

// Sender delivers a message to one recipient. Delivery is a collaborator
// concern; the engine only emits the content.
type Sender interface {
	Send(to, subject, body string) error
}

// SMTP sends through a plain SMTP relay.
type SMTP struct {
	Addr string
	From string
}

func (s *SMTP) Send(to, subject, body string) error {
	msg := "From: " + s.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n" +
		body

	return smtp.SendMail(s.Addr, nil, s.From, []string{to}, []byte(msg))
}

// Log writes the message to the log instead of sending it; the default when
// SMTP is not configured.
type Log struct {
	L *slog.Logger
}

func (l *Log) Send(to, subject, body string) error {
	l.L.Info("email_out", "to", to, "subject", subject, "body", body)
	return nil
}
