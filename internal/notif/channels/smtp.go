package channels

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strings"
	"time"

	"GoLoyalty/internal/common"
	"GoLoyalty/internal/config"

	"github.com/pkg/errors"
)

const smtpDialTimeout = 10 * time.Second

// SMTPClient sends mail through a STARTTLS-capable relay, one connection per message.
type SMTPClient struct {
	host     string
	port     int
	username string
	password string
	from     string
	fromName string
}

func NewSMTPClient(cfg config.EmailConfig) *SMTPClient {
	from := cfg.FromEmail
	if from == "" {
		from = cfg.Username
	}
	return &SMTPClient{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.Username,
		password: cfg.Password,
		from:     from,
		fromName: cfg.FromName,
	}
}

func (c *SMTPClient) SendEmail(ctx context.Context, data common.EmailData) error {
	if c.host == "" {
		return errors.New("smtp host not configured")
	}
	if c.from == "" {
		return errors.New("smtp sender not configured")
	}
	if len(data.To) == 0 {
		return errors.New("email has no recipients")
	}

	addr := fmt.Sprintf("%s:%d", c.host, c.port)
	dialer := &net.Dialer{Timeout: smtpDialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "failed to dial smtp %s", addr)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, c.host)
	if err != nil {
		conn.Close()
		return errors.Wrap(err, "failed to open smtp session")
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: c.host}); err != nil {
			return errors.Wrap(err, "smtp starttls")
		}
	}
	if c.username != "" {
		if err := client.Auth(smtp.PlainAuth("", c.username, c.password, c.host)); err != nil {
			return errors.Wrap(err, "smtp auth")
		}
	}

	if err := client.Mail(c.from); err != nil {
		return errors.Wrap(err, "smtp MAIL FROM")
	}
	for _, rcpt := range data.To {
		if err := client.Rcpt(rcpt); err != nil {
			return errors.Wrapf(err, "smtp RCPT TO %s", rcpt)
		}
	}

	w, err := client.Data()
	if err != nil {
		return errors.Wrap(err, "smtp DATA")
	}
	if _, err := w.Write(c.compose(data)); err != nil {
		w.Close()
		return errors.Wrap(err, "failed to write email")
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(err, "failed to send email")
	}
	return client.Quit()
}

func (c *SMTPClient) compose(data common.EmailData) []byte {
	from := (&mail.Address{Name: headerValue(c.fromName), Address: headerValue(c.from)}).String()

	to := make([]string, 0, len(data.To))
	for _, rcpt := range data.To {
		to = append(to, headerValue(rcpt))
	}

	contentType := "text/plain; charset=UTF-8"
	if data.IsHTML {
		contentType = "text/html; charset=UTF-8"
	}

	headers := []string{
		"From: " + from,
		"To: " + strings.Join(to, ", "),
		"Subject: " + mime.QEncoding.Encode("utf-8", headerValue(data.Subject)),
		"MIME-Version: 1.0",
		"Content-Type: " + contentType,
	}
	return []byte(strings.Join(headers, "\r\n") + "\r\n\r\n" + data.Body)
}

// headerValue folds a value onto one line so it cannot start a new header.
func headerValue(v string) string {
	return strings.Join(strings.FieldsFunc(v, func(r rune) bool {
		return r == '\r' || r == '\n'
	}), " ")
}
