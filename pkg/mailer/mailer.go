package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// DefaultPort is the SMTP submission port used when none is configured.
const DefaultPort = 587

// ErrNotConfigured is returned by Send when the SMTP account is incomplete.
var ErrNotConfigured = errors.New("smtp not configured")

// Config describes the SMTP account.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// Configured reports whether host, credentials and sender address are all set.
func (c Config) Configured() bool {
	return c.Host != "" && c.Username != "" && c.Password != "" && c.From != ""
}

// Message is a plain-text email for a single recipient.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers messages.
type Sender interface {
	Configured() bool
	Send(ctx context.Context, msg Message) error
}

type dialer interface {
	DialAndSend(ctx context.Context, m ...*gomail.Message) error
}

// Mailer sends mail over SMTP. Port 465 uses implicit TLS, any other port must accept
// STARTTLS. The session is always authenticated before a message is handed over.
type Mailer struct {
	cfg    Config
	dialer dialer
	logger zerolog.Logger
}

// New constructs a Mailer. An incomplete config still yields a usable value whose
// Configured method returns false.
func New(cfg Config, logger zerolog.Logger) *Mailer {
	if cfg.Port <= 0 {
		cfg.Port = DefaultPort
	}
	return &Mailer{
		cfg:    cfg,
		dialer: newSecureDialer(cfg),
		logger: logger.With().Str("component", "mailer").Logger(),
	}
}

// Configured reports whether the mailer can send.
func (m *Mailer) Configured() bool {
	return m != nil && m.cfg.Configured()
}

// Send dials the SMTP server, authenticates and delivers msg.
func (m *Mailer) Send(ctx context.Context, msg Message) error {
	if !m.Configured() {
		return ErrNotConfigured
	}
	if msg.To == "" {
		return errors.New("recipient must not be empty")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	message := gomail.NewMessage()
	if m.cfg.FromName != "" {
		message.SetAddressHeader("From", m.cfg.From, m.cfg.FromName)
	} else {
		message.SetHeader("From", m.cfg.From)
	}
	message.SetHeader("To", msg.To)
	message.SetHeader("Subject", msg.Subject)
	message.SetBody("text/plain", msg.Body)

	if err := m.dialer.DialAndSend(ctx, message); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	m.logger.Debug().Str("host", m.cfg.Host).Int("port", m.cfg.Port).Msg("mail sent")
	return nil
}
