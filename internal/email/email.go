package email

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"
	"time"
)

type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// Sender sends plain-text mail through one SMTP relay.
type Sender struct {
	cfg  SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSender(cfg SMTPConfig) *Sender {
	return &Sender{cfg: cfg, send: smtp.SendMail}
}

func (s *Sender) SendText(to, subject, body string) error {
	if s.cfg.Host == "" {
		return errors.New("smtp: host not configured")
	}
	if s.cfg.From == "" {
		return errors.New("smtp: from address not configured")
	}

	var auth smtp.Auth
	if s.cfg.User != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	return s.send(addr, auth, s.cfg.From, []string{to}, buildMessage(s.cfg.From, to, subject, body))
}

func buildMessage(from, to, subject, body string) []byte {
	// header injection guard
	clean := func(v string) string {
		return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
	}
	var b strings.Builder
	b.WriteString("From: " + clean(from) + "\r\n")
	b.WriteString("To: " + clean(to) + "\r\n")
	b.WriteString("Subject: " + clean(subject) + "\r\n")
	b.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return []byte(b.String())
}
