package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/civic-connect/backend/internal/models"
	"github.com/civic-connect/backend/internal/repositories"
	"github.com/civic-connect/backend/validators"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// stubEventRepo serves one event and records the update set it receives
type stubEventRepo struct {
	event *models.Event
	set   bson.M
}

func (s *stubEventRepo) CreateEvent(_ context.Context, _ *models.Event) error { return nil }

func (s *stubEventRepo) GetEventByID(_ context.Context, id string) (*models.Event, error) {
	if s.event == nil || s.event.ID.Hex() != id {
		return nil, repositories.ErrNotFound
	}
	return s.event, nil
}

func (s *stubEventRepo) ListEvents(_ context.Context, _, _ string, _ bool, _, _ int64) ([]models.Event, int64, error) {
	return nil, 0, nil
}

func (s *stubEventRepo) ListByAttendee(_ context.Context, _ uint, _, _ int64) ([]models.Event, int64, error) {
	return nil, 0, nil
}

func (s *stubEventRepo) UpdateEvent(_ context.Context, _ string, set bson.M) error {
	s.set = set
	return nil
}

func (s *stubEventRepo) DeleteEvent(_ context.Context, _ string) error { return nil }

func (s *stubEventRepo) Register(_ context.Context, _ string, _ uint) error { return nil }

func (s *stubEventRepo) CancelRegistration(_ context.Context, _ string, _ uint) error { return nil }

func (s *stubEventRepo) CountPublished(_ context.Context) (int64, error) { return 0, nil }

func updateEventContext(t *testing.T, repo *stubEventRepo, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = validators.NewValidator()

	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(repo.event.ID.Hex())
	c.Set("user", &models.JwtCustomClaims{UserID: repo.event.OrganizerID, Role: models.RoleCitizen})
	return c, rec
}

func TestUpdateEventRejectsEndBeforeStoredStart(t *testing.T) {
	start := time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC)
	repo := &stubEventRepo{event: &models.Event{
		ID:          primitive.NewObjectID(),
		OrganizerID: 7,
		StartDate:   start,
		EndDate:     start.Add(2 * time.Hour),
		Status:      models.EventStatusPublished,
	}}
	h := NewEventHandler(repo)

	c, _ := updateEventContext(t, repo, `{"end_date":"2026-09-01T09:00:00Z"}`)
	err := h.UpdateEvent(c)

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("UpdateEvent with end before start: err = %v, want 400", err)
	}
	if repo.set != nil {
		t.Errorf("rejected update still reached the store: %v", repo.set)
	}
}

func TestUpdateEventRejectsStartAfterStoredEnd(t *testing.T) {
	start := time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC)
	repo := &stubEventRepo{event: &models.Event{
		ID:          primitive.NewObjectID(),
		OrganizerID: 7,
		StartDate:   start,
		EndDate:     start.Add(2 * time.Hour),
		Status:      models.EventStatusPublished,
	}}
	h := NewEventHandler(repo)

	c, _ := updateEventContext(t, repo, `{"start_date":"2026-11-01T10:00:00Z"}`)
	err := h.UpdateEvent(c)

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("UpdateEvent with start after end: err = %v, want 400", err)
	}
	if repo.set != nil {
		t.Errorf("rejected update still reached the store: %v", repo.set)
	}
}

func TestUpdateEventMovingBothDatesKeepsOrder(t *testing.T) {
	start := time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC)
	repo := &stubEventRepo{event: &models.Event{
		ID:          primitive.NewObjectID(),
		OrganizerID: 7,
		StartDate:   start,
		EndDate:     start.Add(2 * time.Hour),
		Status:      models.EventStatusPublished,
	}}
	h := NewEventHandler(repo)

	c, rec := updateEventContext(t, repo, `{"start_date":"2026-12-01T10:00:00Z","end_date":"2026-12-01T12:00:00Z"}`)
	if err := h.UpdateEvent(c); err != nil {
		t.Fatalf("UpdateEvent moving both dates: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if repo.set == nil {
		t.Fatal("valid update never reached the store")
	}
	if _, ok := repo.set["start_date"]; !ok {
		t.Errorf("start_date missing from update set: %v", repo.set)
	}
}
