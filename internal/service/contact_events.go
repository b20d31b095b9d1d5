package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/noah-isme/kma-contact-api/internal/dto"
)

// ContactEventPublisher fans stored submissions out to other systems.
type ContactEventPublisher interface {
	PublishSubmitted(ctx context.Context, event dto.ContactSubmittedEvent) error
}

type natsContactPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSContactPublisher publishes submission events on subject. A nil connection or an
// empty subject yields a publisher that does nothing.
func NewNATSContactPublisher(conn *nats.Conn, subject string) ContactEventPublisher {
	if conn == nil || subject == "" {
		return noopContactPublisher{}
	}
	return &natsContactPublisher{conn: conn, subject: subject}
}

func (p *natsContactPublisher) PublishSubmitted(ctx context.Context, event dto.ContactSubmittedEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode contact event: %w", err)
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("publish contact event: %w", err)
	}
	return nil
}

type noopContactPublisher struct{}

func (noopContactPublisher) PublishSubmitted(context.Context, dto.ContactSubmittedEvent) error {
	return nil
}
