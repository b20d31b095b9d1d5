package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"time"

	"gopkg.in/gomail.v2"
)

const dialTimeout = 10 * time.Second

var (
	// ErrStartTLSUnsupported is returned when a plaintext server does not offer STARTTLS.
	ErrStartTLSUnsupported = errors.New("smtp server does not support STARTTLS")
	// ErrAuthUnsupported is returned when the server does not offer AUTH.
	ErrAuthUnsupported = errors.New("smtp server does not support AUTH")
)

// secureDialer delivers gomail messages over a session that is always encrypted and
// authenticated. gomail's own Dialer silently skips both when the server does not
// advertise them.
type secureDialer struct {
	host        string
	port        int
	username    string
	password    string
	implicitTLS bool
	tlsConfig   *tls.Config
}

func newSecureDialer(cfg Config) *secureDialer {
	return &secureDialer{
		host:        cfg.Host,
		port:        cfg.Port,
		username:    cfg.Username,
		password:    cfg.Password,
		implicitTLS: cfg.Port == 465,
		tlsConfig:   &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12},
	}
}

func (d *secureDialer) addr() string {
	return net.JoinHostPort(d.host, strconv.Itoa(d.port))
}

func (d *secureDialer) DialAndSend(ctx context.Context, msgs ...*gomail.Message) error {
	conn, err := d.dial(ctx)
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, d.host)
	if err != nil {
		conn.Close()
		return err
	}
	defer client.Close()

	if !d.implicitTLS {
		if ok, _ := client.Extension("STARTTLS"); !ok {
			return ErrStartTLSUnsupported
		}
		if err := client.StartTLS(d.tlsConfig); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}

	if ok, _ := client.Extension("AUTH"); !ok {
		return ErrAuthUnsupported
	}
	if err := client.Auth(smtp.PlainAuth("", d.username, d.password, d.host)); err != nil {
		return fmt.Errorf("auth: %w", err)
	}

	for _, msg := range msgs {
		if err := deliver(client, msg); err != nil {
			return err
		}
	}

	return client.Quit()
}

func (d *secureDialer) dial(ctx context.Context) (net.Conn, error) {
	netDialer := &net.Dialer{Timeout: dialTimeout}
	if d.implicitTLS {
		tlsDialer := &tls.Dialer{NetDialer: netDialer, Config: d.tlsConfig}
		return tlsDialer.DialContext(ctx, "tcp", d.addr())
	}
	return netDialer.DialContext(ctx, "tcp", d.addr())
}

func deliver(client *smtp.Client, msg *gomail.Message) error {
	from, err := envelopeAddresses(msg, "From")
	if err != nil {
		return err
	}
	if len(from) != 1 {
		return errors.New("message must have exactly one sender")
	}
	recipients, err := envelopeAddresses(msg, "To", "Cc", "Bcc")
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		return errors.New("message has no recipients")
	}

	if err := client.Mail(from[0]); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	for _, rcpt := range recipients {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("rcpt to: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := msg.WriteTo(w); err != nil {
		_ = w.Close()
		return fmt.Errorf("write message: %w", err)
	}
	return w.Close()
}

func envelopeAddresses(msg *gomail.Message, fields ...string) ([]string, error) {
	var addrs []string
	for _, field := range fields {
		for _, value := range msg.GetHeader(field) {
			parsed, err := mail.ParseAddress(value)
			if err != nil {
				return nil, fmt.Errorf("invalid %s address %q: %w", field, value, err)
			}
			addrs = append(addrs, parsed.Address)
		}
	}
	return addrs, nil
}
