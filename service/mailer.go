package service

import (
	"fmt"
	"log"

	mail "github.com/go-mail/mail/v2"
)

// MailSender delivers transactional mail. ConsoleMailSender is the default
// when SMTP is not configured, so local runs never try to dial out.
type MailSender interface {
	Send(to, subject, body string) error
}

type ConsoleMailSender struct{}

func (s *ConsoleMailSender) Send(to, subject, body string) error {
	log.Printf("=== MAIL (console) ===\nTo: %s\nSubject: %s\n%s\n======================", to, subject, body)
	return nil
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type SMTPMailSender struct {
	cfg SMTPConfig
}

func NewSMTPMailSender(cfg SMTPConfig) *SMTPMailSender {
	return &SMTPMailSender{cfg: cfg}
}

func (s *SMTPMailSender) Send(to, subject, body string) error {
	m := mail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := mail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.User, s.cfg.Password)
	d.StartTLSPolicy = mail.MandatoryStartTLS
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

// WelcomeBody is the plain-text welcome mail sent after registration.
func WelcomeBody(username string) string {
	return fmt.Sprintf("Hi %s,\n\nWelcome to Readly. Shelve a book, set a reading goal and keep your streak alive.\n", username)
}
