package eventsapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhub/internal/domain"
)

func TestClient_FetchEvent(t *testing.T) {
	var gotPath, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": {
			"id": "e1",
			"title": "Go Meetup",
			"status": "OPEN",
			"joining_fee": 25.50,
			"host_id": "host-1",
			"max_participants": 30,
			"_count": {"participants": 7}
		}}`))
	}))
	defer server.Close()

	client := New(server.URL, server.Client())
	ctx := domain.WithCallerToken(context.Background(), "tok-123")

	event, err := client.FetchEvent(ctx, "e1")
	require.NoError(t, err)

	assert.Equal(t, "/events/e1", gotPath)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "e1", event.ID)
	assert.Equal(t, domain.EventStatusOpen, event.Status)
	assert.Equal(t, int64(2550), event.JoiningFeeCents, "decimal fee must normalize to cents")
	assert.Equal(t, 7, event.ParticipantCount, "_count must map to the participant count")
}

func TestClient_FetchEvent_NoTokenNoHeader(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"data": {"id": "e1"}}`))
	}))
	defer server.Close()

	client := New(server.URL, server.Client())
	_, err := client.FetchEvent(context.Background(), "e1")
	require.NoError(t, err)
	assert.Empty(t, gotAuth, "no caller token means no Authorization header")
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
		message  string
	}{
		{
			name:     "event_full",
			status:   http.StatusConflict,
			body:     `{"error": {"code": "event_full", "message": "Event just filled up."}}`,
			sentinel: domain.ErrEventFull,
			message:  "Event just filled up.",
		},
		{
			name:     "already_joined",
			status:   http.StatusConflict,
			body:     `{"error": {"code": "already_joined", "message": "You already joined."}}`,
			sentinel: domain.ErrAlreadyJoined,
			message:  "You already joined.",
		},
		{
			name:     "not_found",
			status:   http.StatusNotFound,
			body:     `{"error": {"code": "not_found", "message": "No such event."}}`,
			sentinel: domain.ErrNotFound,
			message:  "No such event.",
		},
		{
			name:     "unauthorized",
			status:   http.StatusUnauthorized,
			body:     `{"error": {"code": "unauthorized", "message": "Session expired."}}`,
			sentinel: domain.ErrUnauthenticated,
			message:  "Session expired.",
		},
		{
			name:     "status fallback without body code",
			status:   http.StatusForbidden,
			body:     `{"error": {"code": "weird_new_code", "message": "Nope."}}`,
			sentinel: domain.ErrForbidden,
			message:  "Nope.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := New(server.URL, server.Client())
			_, err := client.FetchEvent(context.Background(), "e1")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.Equal(t, tt.message, err.Error(), "server message must surface verbatim")

			var remote *domain.RemoteError
			require.ErrorAs(t, err, &remote)
			assert.Equal(t, "api", remote.Source)
		})
	}
}

func TestClient_ErrorMapping_UnknownCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte(`{"error": {"code": "brew_failure", "message": "I'm a teapot."}}`))
	}))
	defer server.Close()

	client := New(server.URL, server.Client())
	_, err := client.FetchEvent(context.Background(), "e1")
	require.Error(t, err)

	var remote *domain.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "brew_failure", remote.Code)
	assert.Equal(t, "I'm a teapot.", err.Error())
	assert.False(t, errors.Is(err, domain.ErrNotFound))
}

func TestClient_JoinEvent_ForwardsPaymentProof(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody domain.JoinOptions
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"data": null}`))
	}))
	defer server.Close()

	client := New(server.URL, server.Client())
	opts := domain.JoinOptions{PaymentID: "pi_1", PaymentStatus: domain.ParticipantPaymentCompleted}
	require.NoError(t, client.JoinEvent(context.Background(), "e1", opts))

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/events/e1/participants", gotPath)
	assert.Equal(t, opts, gotBody)
}

func TestClient_LeaveEvent(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.Write([]byte(`{"data": null}`))
	}))
	defer server.Close()

	client := New(server.URL, server.Client())
	require.NoError(t, client.LeaveEvent(context.Background(), "e1"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/events/e1/participants/me", gotPath)
}

func TestClient_ListEvents_Query(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"data": {"items": [{"id": "e1", "joining_fee": 10}], "total": 42}}`))
	}))
	defer server.Close()

	client := New(server.URL, server.Client())
	filter := domain.EventFilter{Search: "go", AvailableOnly: true}
	events, total, err := client.ListEvents(context.Background(), filter, domain.PaginationParams{Page: 2, PageSize: 20})
	require.NoError(t, err)

	assert.Equal(t, 42, total)
	require.Len(t, events, 1)
	assert.Equal(t, int64(1000), events[0].JoiningFeeCents)
	assert.Equal(t, []string{"go"}, gotQuery["search"])
	assert.Equal(t, []string{"true"}, gotQuery["available_only"])
	assert.Equal(t, []string{"2"}, gotQuery["page"])
	assert.Equal(t, []string{"20"}, gotQuery["page_size"])
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := New(server.URL, http.DefaultClient)
	_, err := client.FetchEvent(context.Background(), "e1")
	require.Error(t, err)

	var remote *domain.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "api", remote.Source)
	assert.Equal(t, domain.GenericRemoteMessage, err.Error(), "transport failures never leak internals")
}

func TestClient_Me(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/me", r.URL.Path)
		w.Write([]byte(`{"data": {"id": "u1", "name": "Ada", "role": "USER"}}`))
	}))
	defer server.Close()

	client := New(server.URL, server.Client())
	user, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, domain.RoleUser, user.Role)
}
