package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kma-contact-api/internal/config"
	"github.com/noah-isme/kma-contact-api/internal/handler"
	"github.com/noah-isme/kma-contact-api/internal/middleware"
	"github.com/noah-isme/kma-contact-api/internal/repository"
	"github.com/noah-isme/kma-contact-api/internal/router"
	"github.com/noah-isme/kma-contact-api/internal/service"
)

func newApp(rateLimit int) *fiber.App {
	cfg := config.Config{AppName: "KMA Global API"}
	logger := zerolog.Nop()
	documents := repository.NewDocumentRepository(nil, "")

	contactService := service.NewContactService(documents, service.NewValidator(), nil, nil, logger)
	diagnosticsService := service.NewDiagnosticsService(documents, service.DiagnosticsConfig{}, logger)

	app := fiber.New()
	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		ContactHandler:     handler.NewContactHandler(contactService, logger),
		DiagnosticsHandler: handler.NewDiagnosticsHandler(diagnosticsService),
		ContactRateLimit:   middleware.RateLimit("contact", rateLimit, time.Minute, nil),
	})
	return app
}

func get(t *testing.T, app *fiber.App, path string) (int, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func postContact(t *testing.T, app *fiber.App, payload map[string]string) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestStatusRoutes(t *testing.T) {
	app := newApp(0)

	status, body := get(t, app, "/")
	require.Equal(t, fiber.StatusOK, status)
	require.JSONEq(t, `{"message":"KMA Global API running"}`, body)

	status, body = get(t, app, "/health")
	require.Equal(t, fiber.StatusOK, status)
	require.JSONEq(t, `{"status":"ok"}`, body)

	status, body = get(t, app, "/test")
	require.Equal(t, fiber.StatusOK, status)
	var diagnostics map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &diagnostics))
	require.Contains(t, diagnostics["database"], "not initialized")
	require.Equal(t, []interface{}{}, diagnostics["collections"])

	status, body = get(t, app, "/metrics")
	require.Equal(t, fiber.StatusOK, status)
	require.Contains(t, body, "http_requests_total")
}

func TestContactRouteEndToEnd(t *testing.T) {
	app := newApp(0)

	resp := postContact(t, app, map[string]string{"name": "Jo", "email": "jo@example.com", "description": "Interested in services"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get(middleware.CorrelationHeader))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.JSONEq(t, `{"ok":true,"id":null,"email":{"sent":false,"reason":"not configured"},"message":"Thanks. We've received your details and will be in touch shortly."}`, string(body))

	resp = postContact(t, app, map[string]string{"name": "A", "email": "a@example.com", "description": "short"})
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestContactRouteIsRateLimited(t *testing.T) {
	app := newApp(1)
	payload := map[string]string{"name": "Jo", "email": "jo@example.com", "description": "Interested in services"}

	require.Equal(t, fiber.StatusOK, postContact(t, app, payload).StatusCode)
	require.Equal(t, fiber.StatusTooManyRequests, postContact(t, app, payload).StatusCode)

	status, _ := get(t, app, "/health")
	require.Equal(t, fiber.StatusOK, status)
}

func TestContactRouteAcceptsEveryValidSubmissionByDefault(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONTACT_RATE_LIMIT", "")
	cfg, err := config.Load()
	require.NoError(t, err)

	app := newApp(cfg.Contact.RateLimit)
	payload := map[string]string{"name": "Jo", "email": "jo@example.com", "description": "Interested in services"}

	for i := 0; i < 25; i++ {
		require.Equal(t, fiber.StatusOK, postContact(t, app, payload).StatusCode, "submission %d", i+1)
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
