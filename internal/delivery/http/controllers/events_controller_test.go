package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
)

type mockDirectoryService struct {
	events    []*domain.Event
	total     int
	detail    *domain.EventDetail
	err       error
	gotFilter domain.EventFilter
	gotIdent  domain.Identity
}

func (m *mockDirectoryService) ListEvents(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	m.gotFilter = filter
	return m.events, m.total, m.err
}

func (m *mockDirectoryService) EventDetail(ctx context.Context, ident domain.Identity, eventID string) (*domain.EventDetail, error) {
	m.gotIdent = ident
	if m.err != nil {
		return nil, m.err
	}
	return m.detail, nil
}

func TestEventsController_List(t *testing.T) {
	t.Run("filters parsed from the query", func(t *testing.T) {
		svc := &mockDirectoryService{events: []*domain.Event{{ID: "e1"}}, total: 1}
		ctrl := NewEventsController(testLogger(), svc)

		r := httptest.NewRequest(http.MethodGet, "/events?search=go&from=2026-09-01T00:00:00Z&available_only=true&min_lat=52.3&max_lat=52.5&min_lng=13.2&max_lng=13.6", nil)
		w := httptest.NewRecorder()
		ctrl.List(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		if svc.gotFilter.Search != "go" || !svc.gotFilter.AvailableOnly {
			t.Fatalf("filter = %+v", svc.gotFilter)
		}
		if svc.gotFilter.From == nil || svc.gotFilter.MinLat == nil || *svc.gotFilter.MinLat != 52.3 {
			t.Fatalf("filter = %+v", svc.gotFilter)
		}
	})

	t.Run("bad date is rejected", func(t *testing.T) {
		ctrl := NewEventsController(testLogger(), &mockDirectoryService{})
		r := httptest.NewRequest(http.MethodGet, "/events?from=next-tuesday", nil)
		w := httptest.NewRecorder()
		ctrl.List(w, r)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", w.Code)
		}
	})

	t.Run("bad coordinate is rejected", func(t *testing.T) {
		ctrl := NewEventsController(testLogger(), &mockDirectoryService{})
		r := httptest.NewRequest(http.MethodGet, "/events?min_lat=north", nil)
		w := httptest.NewRecorder()
		ctrl.List(w, r)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", w.Code)
		}
	})
}

func TestEventsController_Get(t *testing.T) {
	t.Run("passes the resolved identity through", func(t *testing.T) {
		svc := &mockDirectoryService{detail: &domain.EventDetail{Event: &domain.Event{ID: testEventID}, CanJoin: true}}
		ctrl := NewEventsController(testLogger(), svc)

		r := httptest.NewRequest(http.MethodGet, "/events/"+testEventID, nil)
		r.SetPathValue("eventID", testEventID)
		r = r.WithContext(middleware.SetIdentity(r.Context(), authedIdentity()))
		w := httptest.NewRecorder()
		ctrl.Get(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		if !svc.gotIdent.Authenticated() {
			t.Fatal("identity must reach the service for the action annotations")
		}
	})

	t.Run("not found", func(t *testing.T) {
		svc := &mockDirectoryService{err: domain.ErrNotFound}
		ctrl := NewEventsController(testLogger(), svc)

		r := httptest.NewRequest(http.MethodGet, "/events/"+testEventID, nil)
		r.SetPathValue("eventID", testEventID)
		w := httptest.NewRecorder()
		ctrl.Get(w, r)

		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d", w.Code)
		}
	})
}
