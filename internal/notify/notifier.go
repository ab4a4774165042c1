// Package notify delivers outbound mail for the matching workflow. The
// request path only ever enqueues; delivery happens on a worker and its
// failures never reach the caller.
package notify

import (
	"fmt"
	"log"
	"net/smtp"
)

// Kind labels what triggered a notification.
type Kind string

const (
	KindOTP              Kind = "otp"
	KindInterestReceived Kind = "interest_received"
	KindInterestAccepted Kind = "interest_accepted"
)

// Notification is one outbound message.
type Notification struct {
	Kind    Kind
	To      string
	Subject string
	Body    string
}

// Notifier sends a single notification.
type Notifier interface {
	Send(n Notification) error
}

// SMTPNotifier sends notifications over plain SMTP with auth.
type SMTPNotifier struct {
	Host     string
	Port     int
	From     string
	Password string
}

func (s *SMTPNotifier) Send(n Notification) error {
	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	auth := smtp.PlainAuth("", s.From, s.Password, s.Host)
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"utf-8\"\r\n\r\n%s",
		s.From, n.To, n.Subject, n.Body,
	))
	return smtp.SendMail(addr, auth, s.From, []string{n.To}, msg)
}

// LogNotifier logs instead of sending. Used when SMTP is not configured.
type LogNotifier struct{}

func (l *LogNotifier) Send(n Notification) error {
	log.Printf("notify %s -> %s: %s", n.Kind, n.To, n.Subject)
	return nil
}
