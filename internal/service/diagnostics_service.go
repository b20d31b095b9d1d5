package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/kma-contact-api/internal/dto"
	"github.com/noah-isme/kma-contact-api/internal/repository"
)

const (
	maxDiagnosticCollections = 10
	maxProbeErrorLength      = 80
)

// DiagnosticsConfig carries the configuration facts reported by the diagnostic endpoint.
type DiagnosticsConfig struct {
	DatabaseURLSet bool
	DatabaseName   string
}

// DiagnosticsService reports infrastructure health without failing.
type DiagnosticsService interface {
	Probe(ctx context.Context) dto.DiagnosticsResponse
}

type diagnosticsService struct {
	documents repository.DocumentRepository
	cfg       DiagnosticsConfig
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewDiagnosticsService constructs the diagnostics probe runner.
func NewDiagnosticsService(documents repository.DocumentRepository, cfg DiagnosticsConfig, logger zerolog.Logger) DiagnosticsService {
	return &diagnosticsService{
		documents: documents,
		cfg:       cfg,
		logger:    logger.With().Str("component", "diagnostics_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/kma-contact-api/internal/service/diagnostics"),
	}
}

func (s *diagnosticsService) Probe(ctx context.Context) dto.DiagnosticsResponse {
	ctx, span := s.tracer.Start(ctx, "diagnostics.probe")
	defer span.End()

	resp := dto.DiagnosticsResponse{
		Backend:          "✅ Running",
		Database:         "❌ Not Available",
		DatabaseURL:      "❌ Not Set",
		DatabaseName:     "❌ Not Set",
		ConnectionStatus: "Not Connected",
		Collections:      []string{},
	}

	if s.cfg.DatabaseURLSet {
		resp.DatabaseURL = "✅ Set"
	}

	available, err := guardProbe(func() (bool, error) {
		return s.documents != nil && s.documents.Available(), nil
	})
	if err != nil {
		resp.Database = "❌ Error: " + truncate(err.Error(), maxProbeErrorLength)
		return resp
	}
	if !available {
		resp.Database = "❌ Not Available: not initialized"
		if s.cfg.DatabaseName != "" {
			resp.DatabaseName = s.cfg.DatabaseName
		}
		return resp
	}
	resp.Database = "✅ Available"

	name, err := guardProbe(func() (string, error) { return s.documents.DatabaseName(ctx) })
	if err != nil {
		span.RecordError(err)
		resp.DatabaseName = "❌ Error: " + truncate(err.Error(), maxProbeErrorLength)
	} else {
		resp.DatabaseName = name
	}

	collections, err := guardProbe(func() ([]string, error) {
		return s.documents.CollectionNames(ctx, maxDiagnosticCollections)
	})
	if err != nil {
		span.RecordError(err)
		s.logger.Warn().Err(err).Msg("collection listing probe failed")
		resp.Database = "⚠️ Connected but Error: " + truncate(err.Error(), maxProbeErrorLength)
		return resp
	}

	if len(collections) > maxDiagnosticCollections {
		collections = collections[:maxDiagnosticCollections]
	}
	if collections != nil {
		resp.Collections = collections
	}
	resp.Database = "✅ Connected & Working"
	resp.ConnectionStatus = "Connected"
	return resp
}

// guardProbe runs fn and converts a panic into an error so one probe cannot take down
// the whole report.
func guardProbe[T any](fn func() (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("probe panicked: %v", r)
		}
	}()
	return fn()
}
