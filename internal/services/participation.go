package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"eventhub/internal/domain"
)

type participationService struct {
	directory domain.EventDirectory
	api       domain.ParticipationAPI
	payments  domain.PaymentSession

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewParticipationService creates a ParticipationService over the given
// collaborators.
func NewParticipationService(
	directory domain.EventDirectory,
	api domain.ParticipationAPI,
	payments domain.PaymentSession,
) domain.ParticipationService {
	return &participationService{
		directory: directory,
		api:       api,
		payments:  payments,
		inFlight:  make(map[string]struct{}),
	}
}

// begin claims the per-user-per-event action slot. It reports false when an
// action is already pending, in which case the caller must bail out without
// touching any collaborator.
func (s *participationService) begin(userID, eventID string) bool {
	key := userID + ":" + eventID
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, pending := s.inFlight[key]; pending {
		return false
	}
	s.inFlight[key] = struct{}{}
	return true
}

func (s *participationService) end(userID, eventID string) {
	key := userID + ":" + eventID
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, key)
}

func (s *participationService) Join(ctx context.Context, ident domain.Identity, eventID string, card *domain.CardDetails, opts domain.JoinOptions) (*domain.ActionResult, error) {
	result := &domain.ActionResult{Trace: []domain.AttemptState{domain.AttemptIdle, domain.AttemptEvaluating}}

	// RequiresAuth is terminal for the attempt: no remote endpoint is called.
	if !domain.Can(ident, domain.CapJoinEvents) {
		result.Trace = append(result.Trace, domain.AttemptRequiresAuth)
		return result, domain.ErrUnauthenticated
	}

	if !s.begin(ident.UserID(), eventID) {
		return result, domain.ErrActionInFlight
	}
	defer s.end(ident.UserID(), eventID)

	event, err := s.directory.FetchEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return result, domain.ErrNotFound
		}
		return result, fmt.Errorf("fetch event: %w", err)
	}

	// Client-side guards. FULL is a hard stop here, but the server's
	// rejection below stays authoritative for the race where the event
	// fills between this check and the join call.
	if err := event.JoinEligibility(ident.UserID()); err != nil {
		return result, err
	}

	if !event.IsFree() {
		result.Trace = append(result.Trace, domain.AttemptAwaitingPayment)
		if card == nil {
			return result, domain.ErrInvalidInput
		}
		secret, err := s.payments.CreateIntent(ctx, eventID)
		if err != nil {
			return result, err
		}
		confirm, err := s.payments.ConfirmCard(ctx, secret, *card)
		if err != nil {
			return result, err
		}
		if !confirm.Succeeded() {
			// A failed or cancelled payment short-circuits before the join
			// call: no unpaid join record may exist for a fee-bearing event.
			return result, &domain.RemoteError{Source: "processor", Message: confirm.ErrorMessage}
		}
		result.PaymentID = confirm.PaymentID
		opts = domain.JoinOptions{
			PaymentID:     confirm.PaymentID,
			PaymentStatus: domain.ParticipantPaymentCompleted,
		}
	}
	// For free events opts passes through untouched: the optional
	// payment_status override is forwarded without attaching semantics.

	result.Trace = append(result.Trace, domain.AttemptJoining)
	if err := s.api.JoinEvent(ctx, eventID, opts); err != nil {
		return result, err
	}

	s.refresh(ctx, eventID, result)
	result.Trace = append(result.Trace, domain.AttemptIdle)
	return result, nil
}

func (s *participationService) Leave(ctx context.Context, ident domain.Identity, eventID string) (*domain.ActionResult, error) {
	result := &domain.ActionResult{Trace: []domain.AttemptState{domain.AttemptIdle, domain.AttemptEvaluating}}

	if !ident.Authenticated() {
		result.Trace = append(result.Trace, domain.AttemptRequiresAuth)
		return result, domain.ErrUnauthenticated
	}

	if !s.begin(ident.UserID(), eventID) {
		return result, domain.ErrActionInFlight
	}
	defer s.end(ident.UserID(), eventID)

	// Single-step action: the server decides whether the caller was a
	// participant at all.
	result.Trace = append(result.Trace, domain.AttemptLeaving)
	if err := s.api.LeaveEvent(ctx, eventID); err != nil {
		return result, err
	}

	s.refresh(ctx, eventID, result)
	result.Trace = append(result.Trace, domain.AttemptIdle)
	return result, nil
}

// refresh replaces the snapshot with a fresh fetch after a successful
// mutation. The mutation has already committed upstream, so a failed
// re-fetch leaves Refreshed false and the client's copy stale until its
// next fetch; it never undoes or patches anything.
func (s *participationService) refresh(ctx context.Context, eventID string, result *domain.ActionResult) {
	fresh, err := s.directory.FetchEvent(ctx, eventID)
	if err != nil {
		result.Event = nil
		result.Refreshed = false
		return
	}
	result.Event = fresh
	result.Refreshed = true
}
