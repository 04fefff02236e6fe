// Package notify delivers generated reports by email.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wneessen/go-mail"

	"github.com/hollis-m/pocketwatch/internal/report"
)

// SMTPConfig configures the outbound mail connection.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer implements report.Mailer over SMTP.
type SMTPMailer struct {
	client *mail.Client
	from   string
	logger *slog.Logger
}

// NewSMTPMailer creates a mailer for the given SMTP configuration.
func NewSMTPMailer(cfg SMTPConfig, logger *slog.Logger) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("sender address is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := []mail.Option{
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Port > 0 {
		opts = append(opts, mail.WithPort(cfg.Port))
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
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	return &SMTPMailer{
		client: client,
		from:   cfg.From,
		logger: logger,
	}, nil
}

// SendReport renders and delivers one report email. Delivery is best
// effort; the caller decides what a failure means.
func (m *SMTPMailer) SendReport(ctx context.Context, email report.Email) error {
	if email.To == "" {
		return fmt.Errorf("recipient address is required")
	}
	if email.Report == nil {
		return fmt.Errorf("report payload is required")
	}

	body, err := RenderBody(email)
	if err != nil {
		return fmt.Errorf("failed to render report email: %w", err)
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(email.To); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject(email))
	msg.SetBodyString(mail.TypeTextHTML, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send report email: %w", err)
	}

	m.logger.Info("report email sent",
		"to", email.To,
		"period", email.Report.Period,
		"frequency", email.Frequency)

	return nil
}

func subject(email report.Email) string {
	tag := strings.ToLower(email.Frequency)
	switch tag {
	case "daily":
		return fmt.Sprintf("Your daily financial report: %s", email.Report.Period)
	case "monthly":
		return fmt.Sprintf("Your monthly financial report: %s", email.Report.Period)
	default:
		return fmt.Sprintf("Your financial report: %s", email.Report.Period)
	}
}
