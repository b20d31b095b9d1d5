package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kma-contact-api/internal/dto"
	"github.com/noah-isme/kma-contact-api/internal/handler"
	"github.com/noah-isme/kma-contact-api/internal/repository"
	"github.com/noah-isme/kma-contact-api/internal/service"
)

type mockContactService struct {
	lastPayload dto.ContactRequest
	response    dto.ContactResponse
	err         error
	calls       int
}

func (m *mockContactService) Submit(_ context.Context, req dto.ContactRequest) (dto.ContactResponse, error) {
	m.calls++
	m.lastPayload = req
	if m.err != nil {
		return dto.ContactResponse{}, m.err
	}
	return m.response, nil
}

func newContactApp(svc service.ContactService) *fiber.App {
	app := fiber.New()
	handler.NewContactHandler(svc, zerolog.New(io.Discard)).Register(app.Group("/api/contact"))
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestContactHandler_SubmitSuccess(t *testing.T) {
	id := "doc-1"
	svc := &mockContactService{response: dto.ContactResponse{OK: true, ID: &id, Email: dto.EmailResult{Sent: true}, Message: service.AcknowledgementMessage}}
	app := newContactApp(svc)

	phone := "555-0100"
	resp := postJSON(t, app, "/api/contact", dto.ContactRequest{Name: "Alice", Email: "alice@example.com", Phone: &phone, Description: "Hello there, let's talk"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response dto.ContactResponse
	decodeResponse(t, resp, &response)

	require.True(t, response.OK)
	require.Equal(t, "doc-1", *response.ID)
	require.True(t, response.Email.Sent)
	require.Equal(t, "Alice", svc.lastPayload.Name)
	require.NotNil(t, svc.lastPayload.Phone)
	require.Equal(t, "555-0100", *svc.lastPayload.Phone)
	require.Nil(t, svc.lastPayload.Budget)
}

func TestContactHandler_ScenarioWithoutInfrastructure(t *testing.T) {
	svc := service.NewContactService(repository.NewDocumentRepository(nil, ""), service.NewValidator(), nil, nil, zerolog.Nop())
	app := newContactApp(svc)

	resp := postJSON(t, app, "/api/contact", map[string]string{"name": "Jo", "email": "jo@example.com", "description": "Interested in services"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	decodeResponse(t, resp, &body)

	require.Equal(t, true, body["ok"])
	require.Contains(t, body, "id")
	require.Nil(t, body["id"])
	require.Equal(t, map[string]interface{}{"sent": false, "reason": "not configured"}, body["email"])
	require.Equal(t, "Thanks. We've received your details and will be in touch shortly.", body["message"])
}

func TestContactHandler_ValidationErrorListsFields(t *testing.T) {
	svc := service.NewContactService(repository.NewDocumentRepository(nil, ""), service.NewValidator(), nil, nil, zerolog.Nop())
	app := newContactApp(svc)

	resp := postJSON(t, app, "/api/contact", map[string]string{"name": "A", "email": "a@example.com", "description": "short"})
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var body struct {
		Success bool                     `json:"success"`
		Message string                   `json:"message"`
		Details []service.FieldViolation `json:"details"`
	}
	decodeResponse(t, resp, &body)

	require.False(t, body.Success)
	fields := make([]string, 0, len(body.Details))
	for _, violation := range body.Details {
		fields = append(fields, violation.Field)
	}
	require.ElementsMatch(t, []string{"name", "description"}, fields)
}

func TestContactHandler_MalformedBody(t *testing.T) {
	svc := &mockContactService{}
	app := newContactApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Zero(t, svc.calls)
}

func TestContactHandler_UnexpectedServiceError(t *testing.T) {
	app := newContactApp(&mockContactService{err: errors.New("boom")})

	resp := postJSON(t, app, "/api/contact", dto.ContactRequest{Name: "Alice", Email: "alice@example.com", Description: "Hello there!"})
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}
