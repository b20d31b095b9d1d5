package service

import (
	"context"
	"html"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/kma-contact-api/internal/dto"
	"github.com/noah-isme/kma-contact-api/internal/middleware"
	"github.com/noah-isme/kma-contact-api/internal/models"
	"github.com/noah-isme/kma-contact-api/internal/observability"
	"github.com/noah-isme/kma-contact-api/internal/repository"
)

const (
	// ContactCollection is the document collection holding contact submissions.
	ContactCollection = "contactsubmission"

	// AcknowledgementMessage is returned for every accepted submission.
	AcknowledgementMessage = "Thanks. We've received your details and will be in touch shortly."
)

// ContactService exposes the contact submission workflow.
type ContactService interface {
	Submit(ctx context.Context, req dto.ContactRequest) (dto.ContactResponse, error)
}

type contactService struct {
	documents repository.DocumentRepository
	validator *validator.Validate
	notifier  ContactNotifier
	events    ContactEventPublisher
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewContactService constructs a contact submission service. Only validation failures
// are returned as errors; storage, event and email problems are absorbed into the
// response.
func NewContactService(documents repository.DocumentRepository, validate *validator.Validate, notifier ContactNotifier, events ContactEventPublisher, logger zerolog.Logger) ContactService {
	if validate == nil {
		validate = NewValidator()
	}
	if notifier == nil {
		notifier = NewMailContactNotifier(nil, ConfirmationTemplate{}, logger)
	}
	if events == nil {
		events = noopContactPublisher{}
	}
	return &contactService{
		documents: documents,
		validator: validate,
		notifier:  notifier,
		events:    events,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "contact_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/kma-contact-api/internal/service/contact"),
		now:       time.Now,
	}
}

func (s *contactService) Submit(ctx context.Context, req dto.ContactRequest) (dto.ContactResponse, error) {
	ctx, span := s.tracer.Start(ctx, "contact.submit")
	defer span.End()

	submission, err := validateContact(s.validator, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		observability.ContactSubmissions().WithLabelValues("invalid").Inc()
		return dto.ContactResponse{}, err
	}

	logger := s.logger.With().
		Str("correlation_id", middleware.CorrelationIDFromContext(ctx)).
		Str("email", maskEmailAddress(submission.Email)).
		Logger()

	var documentID *string
	id, err := s.store(ctx, submission)
	if err != nil {
		span.RecordError(err)
		observability.ContactSubmissions().WithLabelValues("storage_unavailable").Inc()
		logger.Warn().Err(err).Str("collection", ContactCollection).Msg("contact submission not persisted")
	} else {
		documentID = &id
		span.SetAttributes(attribute.String("contact.document_id", id))
		observability.ContactSubmissions().WithLabelValues("stored").Inc()
		s.publish(ctx, logger, id)
	}

	emailResult := s.notifier.Notify(ctx, submission)
	span.SetAttributes(attribute.Bool("contact.email_sent", emailResult.Sent))
	span.SetStatus(codes.Ok, "accepted")

	logger.Info().Bool("stored", documentID != nil).Bool("email_sent", emailResult.Sent).Msg("contact submission processed")

	return dto.ContactResponse{
		OK:      true,
		ID:      documentID,
		Email:   emailResult,
		Message: AcknowledgementMessage,
	}, nil
}

func (s *contactService) store(ctx context.Context, submission models.ContactSubmission) (string, error) {
	if s.documents == nil {
		return "", repository.ErrStorageUnavailable
	}
	return s.documents.Insert(ctx, ContactCollection, s.sanitize(submission))
}

// sanitize strips markup from the free-text fields of a copy of the submission.
func (s *contactService) sanitize(submission models.ContactSubmission) models.ContactSubmission {
	clean := func(value string) string {
		return strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(value)))
	}
	cleanOptional := func(value *string) *string {
		if value == nil {
			return nil
		}
		cleaned := clean(*value)
		return &cleaned
	}

	return models.ContactSubmission{
		Name:        clean(submission.Name),
		Email:       strings.TrimSpace(submission.Email),
		Phone:       cleanOptional(submission.Phone),
		Business:    cleanOptional(submission.Business),
		Budget:      cleanOptional(submission.Budget),
		Description: clean(submission.Description),
	}
}

func (s *contactService) publish(ctx context.Context, logger zerolog.Logger, id string) {
	event := dto.ContactSubmittedEvent{
		ID:          id,
		Collection:  ContactCollection,
		SubmittedAt: s.now().UTC().Format(time.RFC3339),
	}
	if err := s.events.PublishSubmitted(ctx, event); err != nil {
		logger.Warn().Err(err).Str("document_id", id).Msg("contact event not published")
	}
}
