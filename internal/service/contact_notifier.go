package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/kma-contact-api/internal/dto"
	"github.com/noah-isme/kma-contact-api/internal/models"
	"github.com/noah-isme/kma-contact-api/internal/observability"
	"github.com/noah-isme/kma-contact-api/pkg/mailer"
)

const (
	// ReasonNotConfigured is reported when SMTP credentials are incomplete.
	ReasonNotConfigured = "not configured"

	maxReasonLength = 120
)

// ContactNotifier sends the submitter a confirmation. It never fails; the outcome is
// reported in the result.
type ContactNotifier interface {
	Notify(ctx context.Context, submission models.ContactSubmission) dto.EmailResult
}

// ConfirmationTemplate brands the confirmation email.
type ConfirmationTemplate struct {
	Brand      string
	BookingURL string
}

type mailContactNotifier struct {
	sender   mailer.Sender
	template ConfirmationTemplate
	logger   zerolog.Logger
}

// NewMailContactNotifier builds a notifier on top of an SMTP sender. A nil sender behaves
// like an unconfigured one.
func NewMailContactNotifier(sender mailer.Sender, template ConfirmationTemplate, logger zerolog.Logger) ContactNotifier {
	if template.Brand == "" {
		template.Brand = "KMA Global"
	}
	return &mailContactNotifier{
		sender:   sender,
		template: template,
		logger:   logger.With().Str("component", "contact_notifier").Logger(),
	}
}

func (n *mailContactNotifier) Notify(ctx context.Context, submission models.ContactSubmission) dto.EmailResult {
	if n.sender == nil || !n.sender.Configured() {
		observability.ContactEmails().WithLabelValues("not_configured").Inc()
		return dto.EmailResult{Sent: false, Reason: ReasonNotConfigured}
	}

	msg := mailer.Message{
		To:      submission.Email,
		Subject: fmt.Sprintf("%s – We’ve received your enquiry", n.template.Brand),
		Body:    n.confirmationBody(submission),
	}

	if err := n.sender.Send(ctx, msg); err != nil {
		observability.ContactEmails().WithLabelValues("failed").Inc()
		n.logger.Warn().Err(err).Str("email", maskEmailAddress(submission.Email)).Msg("confirmation email failed")
		return dto.EmailResult{Sent: false, Reason: truncate(err.Error(), maxReasonLength)}
	}

	observability.ContactEmails().WithLabelValues("sent").Inc()
	return dto.EmailResult{Sent: true}
}

func (n *mailContactNotifier) confirmationBody(submission models.ContactSubmission) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", submission.Name)
	fmt.Fprintf(&b, "Thanks for reaching out to %s. We’ve received your message and a consultant will get back to you shortly.\n\n", n.template.Brand)
	b.WriteString("Summary of your submission:\n")
	fmt.Fprintf(&b, "– Email: %s\n", submission.Email)
	fmt.Fprintf(&b, "– Phone: %s\n", valueOrNA(submission.Phone))
	fmt.Fprintf(&b, "– Business: %s\n", valueOrNA(submission.Business))
	fmt.Fprintf(&b, "– Budget: %s\n\n", valueOrNA(submission.Budget))
	if n.template.BookingURL != "" {
		fmt.Fprintf(&b, "If you’d like to book a call now, you can use our scheduling link: %s\n\n", n.template.BookingURL)
	}
	fmt.Fprintf(&b, "Best regards,\n%s", n.template.Brand)
	return b.String()
}
