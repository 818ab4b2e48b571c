package notifier

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/jhansen/wardbook/internal/logger"
)

type Config struct {
	// SMTP server address in host:port format
	Addr string

	// Credentials, optional for open relays in dev
	User     string
	Password string

	// From address and subject prefix for every message
	From       string
	SubjPrefix string
}

// Mailer sends login codes over plain SMTP
type Mailer struct {
	addr   string
	auth   smtp.Auth
	from   string
	prefix string
	logger logger.Logger
}

func NewMailer(cfg Config, log logger.Logger) *Mailer {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	var auth smtp.Auth
	if cfg.User != "" || cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.User, cfg.Password, smtpHost(cfg.Addr))
	}

	return &Mailer{
		addr:   cfg.Addr,
		auth:   auth,
		from:   cfg.From,
		prefix: cfg.SubjPrefix,
		logger: log,
	}
}

func (m *Mailer) SendLoginCode(ctx context.Context, email string, code string) error {
	subject := strings.TrimSpace(m.prefix + " Your sign-in code")
	body := fmt.Sprintf("Your sign-in code is %s.\r\nIt expires in 10 minutes. If you did not request it, ignore this message.", code)

	msg := []byte(
		"From: " + m.from + "\r\n" +
			"To: " + email + "\r\n" +
			"Subject: " + subject + "\r\n" +
			"Content-Type: text/plain; charset=utf-8\r\n" +
			"\r\n" + body + "\r\n")

	start := time.Now()
	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{email}, msg); err != nil {
		m.logger.Error("Failed to send login code", "smtp_addr", m.addr, "error", err.Error())
		return fmt.Errorf("smtp send failed: %w", err)
	}

	m.logger.Info("Login code sent", "smtp_addr", m.addr, "duration", time.Since(start))
	return nil
}

func smtpHost(addr string) string {
	if i := strings.IndexByte(addr, ':'); i >= 0 {
		return addr[:i]
	}
	return addr
}

// LogSender writes codes to the log instead of sending mail
// Useful for local development without an SMTP relay
type LogSender struct {
	Logger logger.Logger
}

func (s LogSender) SendLoginCode(ctx context.Context, email string, code string) error {
	s.Logger.Info("Login code issued", "email", email, "code", code)
	return nil
}
