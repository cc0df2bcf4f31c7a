package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventbooking/internal/delivery/http/helpers"
	"eventbooking/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	createErr    error
	createResult *domain.Event
	lastCreate   domain.EventInput

	updateErr    error
	updateResult *domain.Event
	lastUpdateID string

	getBySlugErr    error
	getBySlugResult *domain.Event
	getByIDErr      error
	getByIDResult   *domain.Event

	listErr    error
	listResult []*domain.Event
}

func (f *fakeEventService) ValidateAndNormalize(prev *domain.Event, in domain.EventInput) (*domain.Event, error) {
	return nil, nil
}

func (f *fakeEventService) Create(ctx context.Context, in domain.EventInput) (*domain.Event, error) {
	f.lastCreate = in
	return f.createResult, f.createErr
}

func (f *fakeEventService) Update(ctx context.Context, id string, in domain.EventInput) (*domain.Event, error) {
	f.lastUpdateID = id
	return f.updateResult, f.updateErr
}

func (f *fakeEventService) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	return f.getByIDResult, f.getByIDErr
}

func (f *fakeEventService) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	return f.getBySlugResult, f.getBySlugErr
}

func (f *fakeEventService) List(ctx context.Context) ([]*domain.Event, error) {
	return f.listResult, f.listErr
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) helpers.APIResponse {
	t.Helper()
	var resp helpers.APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func eventBody() []byte {
	body, _ := json.Marshal(map[string]any{
		"title":       "GopherCon",
		"description": "The Go conference",
		"overview":    "Talks",
		"image":       "https://example.com/banner.png",
		"venue":       "Convention Center",
		"location":    "Berlin",
		"date":        "2026-03-14",
		"time":        "9:30 AM",
		"mode":        "offline",
		"audience":    "Gophers",
		"organizer":   "GoBridge",
		"agenda":      []string{"Keynote"},
		"tags":        []string{"go"},
	})
	return body
}

func TestEventController_CreateEvent(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := &fakeEventService{createResult: &domain.Event{ID: "ev-1", Slug: "gophercon"}}
		ctrl := NewEventController(testLogger, svc)

		req := httptest.NewRequest(http.MethodPost, "/api/events", bytes.NewReader(eventBody()))
		rec := httptest.NewRecorder()
		ctrl.CreateEvent(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		resp := decodeEnvelope(t, rec)
		require.Nil(t, resp.Error)
		assert.Equal(t, "GopherCon", svc.lastCreate.Title)
	})

	t.Run("validation failure", func(t *testing.T) {
		svc := &fakeEventService{createErr: domain.NewValidationError("title", domain.RuleRequired)}
		ctrl := NewEventController(testLogger, svc)

		req := httptest.NewRequest(http.MethodPost, "/api/events", bytes.NewReader(eventBody()))
		rec := httptest.NewRecorder()
		ctrl.CreateEvent(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeEnvelope(t, rec)
		require.NotNil(t, resp.Error)
		assert.Equal(t, helpers.ErrCodeValidationFailed, resp.Error.Code)
	})

	t.Run("duplicate slug", func(t *testing.T) {
		svc := &fakeEventService{createErr: domain.ErrDuplicateSlug}
		ctrl := NewEventController(testLogger, svc)

		req := httptest.NewRequest(http.MethodPost, "/api/events", bytes.NewReader(eventBody()))
		rec := httptest.NewRecorder()
		ctrl.CreateEvent(rec, req)

		require.Equal(t, http.StatusConflict, rec.Code)
		resp := decodeEnvelope(t, rec)
		require.NotNil(t, resp.Error)
		assert.Equal(t, helpers.ErrCodeConflict, resp.Error.Code)
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		svc := &fakeEventService{}
		ctrl := NewEventController(testLogger, svc)

		req := httptest.NewRequest(http.MethodPost, "/api/events", bytes.NewReader([]byte(`{"titel":"typo"}`)))
		rec := httptest.NewRecorder()
		ctrl.CreateEvent(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestEventController_UpdateEvent(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		svc := &fakeEventService{updateErr: domain.ErrNotFound}
		ctrl := NewEventController(testLogger, svc)

		req := httptest.NewRequest(http.MethodPut, "/api/events/ev-missing", bytes.NewReader(eventBody()))
		req.SetPathValue("eventID", "ev-missing")
		rec := httptest.NewRecorder()
		ctrl.UpdateEvent(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "ev-missing", svc.lastUpdateID)
	})

	t.Run("updated", func(t *testing.T) {
		svc := &fakeEventService{updateResult: &domain.Event{ID: "ev-1", Slug: "gophercon-eu"}}
		ctrl := NewEventController(testLogger, svc)

		req := httptest.NewRequest(http.MethodPut, "/api/events/ev-1", bytes.NewReader(eventBody()))
		req.SetPathValue("eventID", "ev-1")
		rec := httptest.NewRecorder()
		ctrl.UpdateEvent(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestEventController_GetEventBySlug(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := &fakeEventService{getBySlugResult: &domain.Event{ID: "ev-1", Slug: "gophercon"}}
		ctrl := NewEventController(testLogger, svc)

		req := httptest.NewRequest(http.MethodGet, "/api/events/gophercon", nil)
		req.SetPathValue("slug", "gophercon")
		rec := httptest.NewRecorder()
		ctrl.GetEventBySlug(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		svc := &fakeEventService{getBySlugErr: domain.ErrNotFound}
		ctrl := NewEventController(testLogger, svc)

		req := httptest.NewRequest(http.MethodGet, "/api/events/missing", nil)
		req.SetPathValue("slug", "missing")
		rec := httptest.NewRecorder()
		ctrl.GetEventBySlug(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
		resp := decodeEnvelope(t, rec)
		require.NotNil(t, resp.Error)
		assert.Equal(t, helpers.ErrCodeNotFound, resp.Error.Code)
	})
}

func TestEventController_ListEvents(t *testing.T) {
	svc := &fakeEventService{listResult: []*domain.Event{{ID: "ev-1"}, {ID: "ev-2"}}}
	ctrl := NewEventController(testLogger, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	rec := httptest.NewRecorder()
	ctrl.ListEvents(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.Nil(t, resp.Error)
	events, ok := resp.Data.([]any)
	require.True(t, ok)
	assert.Len(t, events, 2)
}
