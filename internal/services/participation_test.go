package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"eventhub/internal/domain"
)

type mockDirectory struct {
	snapshots []*domain.Event
	errs      []error
	fetches   int
	calls     *[]string
}

func (m *mockDirectory) FetchEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	if m.calls != nil {
		*m.calls = append(*m.calls, "fetch")
	}
	i := m.fetches
	m.fetches++
	if i < len(m.errs) && m.errs[i] != nil {
		return nil, m.errs[i]
	}
	if i < len(m.snapshots) {
		return m.snapshots[i], nil
	}
	if len(m.snapshots) > 0 {
		return m.snapshots[len(m.snapshots)-1], nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockDirectory) ListEvents(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	return nil, 0, nil
}

func (m *mockDirectory) FetchEventReviews(ctx context.Context, eventID string) ([]*domain.Review, error) {
	return nil, nil
}

func (m *mockDirectory) FetchUserSummary(ctx context.Context, userID string) (*domain.UserSummary, error) {
	return nil, domain.ErrNotFound
}

type mockParticipationAPI struct {
	joinErr     error
	leaveErr    error
	joinOpts    []domain.JoinOptions
	leaves      int
	calls       *[]string
	joinStarted chan struct{}
	joinBlock   chan struct{}
}

func (m *mockParticipationAPI) JoinEvent(ctx context.Context, eventID string, opts domain.JoinOptions) error {
	if m.calls != nil {
		*m.calls = append(*m.calls, "join")
	}
	m.joinOpts = append(m.joinOpts, opts)
	if m.joinStarted != nil {
		m.joinStarted <- struct{}{}
	}
	if m.joinBlock != nil {
		<-m.joinBlock
	}
	return m.joinErr
}

func (m *mockParticipationAPI) LeaveEvent(ctx context.Context, eventID string) error {
	if m.calls != nil {
		*m.calls = append(*m.calls, "leave")
	}
	m.leaves++
	return m.leaveErr
}

type mockPaymentSession struct {
	secret     string
	intentErr  error
	confirm    domain.ConfirmResult
	confirmErr error
	intents    int
	confirms   int
	calls      *[]string
}

func (m *mockPaymentSession) CreateIntent(ctx context.Context, eventID string) (string, error) {
	if m.calls != nil {
		*m.calls = append(*m.calls, "create_intent")
	}
	m.intents++
	if m.intentErr != nil {
		return "", m.intentErr
	}
	return m.secret, nil
}

func (m *mockPaymentSession) ConfirmCard(ctx context.Context, clientSecret string, card domain.CardDetails) (domain.ConfirmResult, error) {
	if m.calls != nil {
		*m.calls = append(*m.calls, "confirm")
	}
	m.confirms++
	if m.confirmErr != nil {
		return domain.ConfirmResult{}, m.confirmErr
	}
	return m.confirm, nil
}

func authedUser(id string) domain.Identity {
	return domain.Identity{
		Status: domain.IdentityAuthenticated,
		User:   &domain.UserSummary{ID: id, Role: domain.RoleUser},
	}
}

func openEvent(fee int64) *domain.Event {
	return &domain.Event{
		ID:               "e1",
		Status:           domain.EventStatusOpen,
		JoiningFeeCents:  fee,
		MinParticipants:  2,
		MaxParticipants:  10,
		HostID:           "host-1",
		ParticipantCount: 9,
		Participants: []*domain.Participant{
			{EventID: "e1", UserID: "other", PaymentStatus: domain.ParticipantPaymentCompleted, JoinedAt: time.Now()},
		},
	}
}

var testCard = &domain.CardDetails{Number: "4242424242424242", ExpMonth: 12, ExpYear: 2030, CVC: "123"}

func TestParticipationService_Join_PaidFlow(t *testing.T) {
	before := openEvent(2500)
	after := openEvent(2500)
	after.Status = domain.EventStatusFull
	after.ParticipantCount = 10

	var calls []string
	directory := &mockDirectory{snapshots: []*domain.Event{before, after}, calls: &calls}
	api := &mockParticipationAPI{calls: &calls}
	pay := &mockPaymentSession{
		secret:  "cs_1",
		confirm: domain.ConfirmResult{Status: domain.ConfirmStatusSucceeded, PaymentID: "pi_1"},
		calls:   &calls,
	}
	svc := NewParticipationService(directory, api, pay)

	result, err := svc.Join(context.Background(), authedUser("u1"), "e1", testCard, domain.JoinOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantOrder := []string{"fetch", "create_intent", "confirm", "join", "fetch"}
	if !reflect.DeepEqual(calls, wantOrder) {
		t.Fatalf("call order = %v, want %v", calls, wantOrder)
	}
	if len(api.joinOpts) != 1 {
		t.Fatalf("expected exactly one join, got %d", len(api.joinOpts))
	}
	if api.joinOpts[0].PaymentID != "pi_1" || api.joinOpts[0].PaymentStatus != domain.ParticipantPaymentCompleted {
		t.Fatalf("join opts = %+v, want payment proof from confirmation", api.joinOpts[0])
	}
	if !result.Refreshed || result.Event != after {
		t.Fatalf("snapshot must be the re-fetched event, got refreshed=%v event=%+v", result.Refreshed, result.Event)
	}
	if result.Event.ParticipantCount != 10 || result.Event.Status != domain.EventStatusFull {
		t.Fatalf("stale snapshot survived the re-fetch: %+v", result.Event)
	}
	if result.PaymentID != "pi_1" {
		t.Fatalf("expected payment id pi_1, got %q", result.PaymentID)
	}
}

func TestParticipationService_Join_FreeBypass(t *testing.T) {
	var calls []string
	directory := &mockDirectory{snapshots: []*domain.Event{openEvent(0), openEvent(0)}, calls: &calls}
	api := &mockParticipationAPI{calls: &calls}
	pay := &mockPaymentSession{calls: &calls}
	svc := NewParticipationService(directory, api, pay)

	// The optional payment_status override passes through untouched.
	opts := domain.JoinOptions{PaymentStatus: domain.ParticipantPaymentCompleted}
	_, err := svc.Join(context.Background(), authedUser("u1"), "e1", nil, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pay.intents != 0 || pay.confirms != 0 {
		t.Fatalf("free join must not touch the payment session (intents=%d confirms=%d)", pay.intents, pay.confirms)
	}
	wantOrder := []string{"fetch", "join", "fetch"}
	if !reflect.DeepEqual(calls, wantOrder) {
		t.Fatalf("call order = %v, want %v", calls, wantOrder)
	}
	if !reflect.DeepEqual(api.joinOpts[0], opts) {
		t.Fatalf("join opts = %+v, want verbatim pass-through %+v", api.joinOpts[0], opts)
	}
}

func TestParticipationService_Join_PaymentDeclined(t *testing.T) {
	directory := &mockDirectory{snapshots: []*domain.Event{openEvent(2500)}}
	api := &mockParticipationAPI{}
	pay := &mockPaymentSession{
		secret:  "cs_1",
		confirm: domain.ConfirmResult{Status: "failed", ErrorMessage: "Your card was declined."},
	}
	svc := NewParticipationService(directory, api, pay)

	_, err := svc.Join(context.Background(), authedUser("u1"), "e1", testCard, domain.JoinOptions{})
	if err == nil {
		t.Fatal("expected error")
	}
	var remote *domain.RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("expected RemoteError, got %T: %v", err, err)
	}
	if remote.Error() != "Your card was declined." {
		t.Fatalf("processor message must surface verbatim, got %q", remote.Error())
	}
	if len(api.joinOpts) != 0 {
		t.Fatal("join must never be called after a failed payment")
	}
	if directory.fetches != 1 {
		t.Fatalf("no re-fetch after a failed attempt, got %d fetches", directory.fetches)
	}
}

func TestParticipationService_Join_Guards(t *testing.T) {
	host := domain.Identity{Status: domain.IdentityAuthenticated, User: &domain.UserSummary{ID: "host-1", Role: domain.RoleHost}}

	joined := openEvent(0)
	joined.Participants = append(joined.Participants, &domain.Participant{EventID: "e1", UserID: "u1"})

	full := openEvent(0)
	full.Status = domain.EventStatusFull

	cancelled := openEvent(0)
	cancelled.Status = domain.EventStatusCancelled

	tests := []struct {
		name    string
		ident   domain.Identity
		event   *domain.Event
		wantErr error
		noFetch bool
	}{
		{name: "anonymous requires auth", ident: domain.Identity{Status: domain.IdentityAnonymous}, event: openEvent(0), wantErr: domain.ErrUnauthenticated, noFetch: true},
		{name: "unresolved identity requires auth", ident: domain.Identity{}, event: openEvent(0), wantErr: domain.ErrUnauthenticated, noFetch: true},
		{name: "host cannot join own event", ident: host, event: openEvent(0), wantErr: domain.ErrForbidden},
		{name: "already joined", ident: authedUser("u1"), event: joined, wantErr: domain.ErrAlreadyJoined},
		{name: "full event is a hard stop", ident: authedUser("u1"), event: full, wantErr: domain.ErrEventFull},
		{name: "cancelled event is not joinable", ident: authedUser("u1"), event: cancelled, wantErr: domain.ErrEventNotJoinable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			directory := &mockDirectory{snapshots: []*domain.Event{tt.event}}
			api := &mockParticipationAPI{}
			pay := &mockPaymentSession{secret: "cs_1"}
			svc := NewParticipationService(directory, api, pay)

			_, err := svc.Join(context.Background(), tt.ident, "e1", testCard, domain.JoinOptions{})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if len(api.joinOpts) != 0 {
				t.Fatal("guarded attempt must not call join")
			}
			if pay.intents != 0 {
				t.Fatal("guarded attempt must not create a payment intent")
			}
			if tt.noFetch && directory.fetches != 0 {
				t.Fatal("auth guard must reject before any remote call")
			}
		})
	}
}

func TestParticipationService_Join_ServerRejectsFullRace(t *testing.T) {
	// Event looks open client-side, but fills before the join call lands.
	var calls []string
	directory := &mockDirectory{snapshots: []*domain.Event{openEvent(0)}, calls: &calls}
	api := &mockParticipationAPI{
		calls:   &calls,
		joinErr: &domain.RemoteError{Source: "api", Code: "event_full", Message: "Event just filled up.", Err: domain.ErrEventFull},
	}
	svc := NewParticipationService(directory, api, &mockPaymentSession{})

	_, err := svc.Join(context.Background(), authedUser("u1"), "e1", nil, domain.JoinOptions{})
	if !errors.Is(err, domain.ErrEventFull) {
		t.Fatalf("server rejection must be authoritative, got %v", err)
	}
	if err.Error() != "Event just filled up." {
		t.Fatalf("server message must surface verbatim, got %q", err.Error())
	}
	wantOrder := []string{"fetch", "join"}
	if !reflect.DeepEqual(calls, wantOrder) {
		t.Fatalf("no re-fetch after a rejected join, calls = %v", calls)
	}
}

func TestParticipationService_Join_MissingCard(t *testing.T) {
	directory := &mockDirectory{snapshots: []*domain.Event{openEvent(2500)}}
	pay := &mockPaymentSession{secret: "cs_1"}
	svc := NewParticipationService(directory, &mockParticipationAPI{}, pay)

	_, err := svc.Join(context.Background(), authedUser("u1"), "e1", nil, domain.JoinOptions{})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if pay.intents != 0 {
		t.Fatal("validation failure must block the intent call")
	}
}

func TestParticipationService_Join_RefreshFailure(t *testing.T) {
	directory := &mockDirectory{
		snapshots: []*domain.Event{openEvent(0), nil},
		errs:      []error{nil, fmt.Errorf("connection reset")},
	}
	api := &mockParticipationAPI{}
	svc := NewParticipationService(directory, api, &mockPaymentSession{})

	result, err := svc.Join(context.Background(), authedUser("u1"), "e1", nil, domain.JoinOptions{})
	if err != nil {
		t.Fatalf("join succeeded upstream; refresh failure must not fail the action: %v", err)
	}
	if result.Refreshed || result.Event != nil {
		t.Fatalf("failed refresh must leave no snapshot, got refreshed=%v event=%+v", result.Refreshed, result.Event)
	}
}

func TestParticipationService_Join_SingleFlight(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{})
	directory := &mockDirectory{snapshots: []*domain.Event{openEvent(0), openEvent(0)}}
	api := &mockParticipationAPI{joinStarted: started, joinBlock: block}
	svc := NewParticipationService(directory, api, &mockPaymentSession{})

	done := make(chan error, 1)
	go func() {
		_, err := svc.Join(context.Background(), authedUser("u1"), "e1", nil, domain.JoinOptions{})
		done <- err
	}()

	// Wait until the first attempt is inside the join call.
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("first join never started")
	}

	_, err := svc.Join(context.Background(), authedUser("u1"), "e1", nil, domain.JoinOptions{})
	if !errors.Is(err, domain.ErrActionInFlight) {
		t.Fatalf("second invocation while pending: err = %v, want ErrActionInFlight", err)
	}

	close(block)
	if err := <-done; err != nil {
		t.Fatalf("first join failed: %v", err)
	}
	if len(api.joinOpts) != 1 {
		t.Fatalf("exactly one join sequence must execute, got %d", len(api.joinOpts))
	}

	// Slot freed: a later attempt may proceed.
	api.joinStarted = nil
	api.joinBlock = nil
	if _, err := svc.Join(context.Background(), authedUser("u2"), "e1", nil, domain.JoinOptions{}); err != nil {
		t.Fatalf("slot was not released: %v", err)
	}
}

func TestParticipationService_Leave(t *testing.T) {
	t.Run("success re-fetches", func(t *testing.T) {
		var calls []string
		after := openEvent(0)
		after.ParticipantCount = 8
		directory := &mockDirectory{snapshots: []*domain.Event{after}, calls: &calls}
		api := &mockParticipationAPI{calls: &calls}
		svc := NewParticipationService(directory, api, &mockPaymentSession{})

		result, err := svc.Leave(context.Background(), authedUser("u1"), "e1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		wantOrder := []string{"leave", "fetch"}
		if !reflect.DeepEqual(calls, wantOrder) {
			t.Fatalf("call order = %v, want %v", calls, wantOrder)
		}
		if !result.Refreshed || result.Event != after {
			t.Fatal("snapshot must be the re-fetched event")
		}
	})

	t.Run("server rejection surfaces", func(t *testing.T) {
		api := &mockParticipationAPI{leaveErr: &domain.RemoteError{Source: "api", Code: "not_participant", Message: "You are not attending this event.", Err: domain.ErrNotParticipant}}
		directory := &mockDirectory{snapshots: []*domain.Event{openEvent(0)}}
		svc := NewParticipationService(directory, api, &mockPaymentSession{})

		_, err := svc.Leave(context.Background(), authedUser("u1"), "e1")
		if !errors.Is(err, domain.ErrNotParticipant) {
			t.Fatalf("err = %v, want ErrNotParticipant", err)
		}
		if directory.fetches != 0 {
			t.Fatal("no re-fetch after a rejected leave")
		}
	})

	t.Run("requires auth", func(t *testing.T) {
		api := &mockParticipationAPI{}
		svc := NewParticipationService(&mockDirectory{}, api, &mockPaymentSession{})
		_, err := svc.Leave(context.Background(), domain.Identity{Status: domain.IdentityAnonymous}, "e1")
		if !errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("err = %v, want ErrUnauthenticated", err)
		}
		if api.leaves != 0 {
			t.Fatal("anonymous leave must not call the API")
		}
	})
}
