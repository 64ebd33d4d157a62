// Package smtp delivers the launch report as an e-mail attachment.
package smtp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/launch-site-etl/internal/domain"
	"github.com/wneessen/go-mail"
)

// ErrReportMissing is returned when the report file to attach does not exist.
var ErrReportMissing = errors.New("not found")

// Settings configure the SMTP transport and the mail identities.
type Settings struct {
	Host     string
	Port     int
	Timeout  time.Duration
	Sender   string
	Password string
	Receiver string
}

// Mailer sends the report file to one receiver over an authenticated,
// TLS-protected SMTP session. It implements pipeline.Notifier.
type Mailer struct {
	settings Settings
	logger   *slog.Logger
	send     func(ctx context.Context, msg *mail.Msg) error
}

// NewMailer creates a Mailer that logs in with the sender address and password.
func NewMailer(settings Settings, logger *slog.Logger) *Mailer {
	m := &Mailer{settings: settings, logger: logger}
	m.send = m.dialAndSend
	return m
}

// Channel names this notifier in metrics and logs.
func (m *Mailer) Channel() string { return "email" }

// Notify mails the decision's report file as an attachment.
func (m *Mailer) Notify(ctx context.Context, d domain.Decision) error {
	msg, err := m.buildMessage(d)
	if err != nil {
		return err
	}
	if err := m.send(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	m.logger.Info("report mailed", "run_id", d.RunID, "to", m.settings.Receiver)
	return nil
}

func (m *Mailer) buildMessage(d domain.Decision) (*mail.Msg, error) {
	if _, err := os.Stat(d.ReportPath); err != nil {
		return nil, fmt.Errorf("file %s is %w", filepath.Base(d.ReportPath), ErrReportMissing)
	}

	msg := mail.NewMsg()
	if err := msg.From(m.settings.Sender); err != nil {
		return nil, fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(m.settings.Receiver); err != nil {
		return nil, fmt.Errorf("set receiver: %w", err)
	}
	msg.Subject("Launch analysis report")
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf("Selected launch site and date: %s\n", d.Report))
	msg.AttachFile(d.ReportPath)
	return msg, nil
}

func (m *Mailer) dialAndSend(ctx context.Context, msg *mail.Msg) error {
	client, err := mail.NewClient(m.settings.Host,
		mail.WithPort(m.settings.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(m.settings.Sender),
		mail.WithPassword(m.settings.Password),
		mail.WithTimeout(m.settings.Timeout),
	)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}
