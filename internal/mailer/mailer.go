// Package mailer delivers admin notification emails over SMTP.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"strconv"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/promosite/service-api/internal/contact/entity"
)

type Config struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	AdminEmail string
}

// ConfigFromEnv reads SMTP settings from env vars. Notifications stay
// disabled unless both SMTP_HOST and ADMIN_EMAIL are set.
func ConfigFromEnv() Config {
	port := 587
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			port = n
		}
	}
	from := os.Getenv("EMAIL_FROM")
	if from == "" {
		from = os.Getenv("SMTP_USER")
	}
	return Config{
		Host:       os.Getenv("SMTP_HOST"),
		Port:       port,
		Username:   os.Getenv("SMTP_USER"),
		Password:   os.Getenv("SMTP_PASSWORD"),
		From:       from,
		AdminEmail: os.Getenv("ADMIN_EMAIL"),
	}
}

// Enabled reports whether enough configuration is present to deliver mail.
func (c Config) Enabled() bool {
	return c.Host != "" && c.AdminEmail != "" && c.From != ""
}

// Mailer implements contact.Notifier over SMTP.
type Mailer struct {
	client *mail.Client
	cfg    Config
}

func New(cfg Config) (*Mailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &Mailer{client: client, cfg: cfg}, nil
}

// SendLeadNotification renders the static lead template and delivers it to
// the configured administrator address.
func (m *Mailer) SendLeadNotification(ctx context.Context, c *entity.Contact) error {
	body, err := renderLead(c)
	if err != nil {
		return fmt.Errorf("render notification: %w", err)
	}

	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(m.cfg.AdminEmail); err != nil {
		return fmt.Errorf("set to: %w", err)
	}
	subject := "New contact message"
	if c.Type == entity.TypeAffiliate {
		subject = "New affiliate signup"
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, body)

	return m.client.DialAndSendWithContext(ctx, msg)
}

var leadTemplate = template.Must(template.New("lead").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: Arial, sans-serif; color: #333;">
    <div style="max-width: 600px; margin: 0 auto;">
      <h1 style="background-color: #4F46E5; color: #fff; padding: 16px; text-align: center;">New lead received</h1>
      <table style="width: 100%; border-collapse: collapse;">
        <tr><td style="font-weight: bold; padding: 8px;">Name</td><td>{{.Name}}</td></tr>
        <tr><td style="font-weight: bold; padding: 8px;">Email</td><td>{{.Email}}</td></tr>
        <tr><td style="font-weight: bold; padding: 8px;">Phone</td><td>{{.Phone}}</td></tr>
        <tr><td style="font-weight: bold; padding: 8px;">Type</td><td>{{.Type}}</td></tr>
        <tr><td style="font-weight: bold; padding: 8px;">Message</td><td>{{.Message}}</td></tr>
      </table>
      <p style="color: #6b7280; font-size: 12px; text-align: center;">Sent automatically at {{.SentAt}}</p>
    </div>
  </body>
</html>`))

func renderLead(c *entity.Contact) (string, error) {
	data := struct {
		*entity.Contact
		SentAt string
	}{Contact: c, SentAt: time.Now().Format(time.RFC1123)}

	var buf bytes.Buffer
	if err := leadTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
