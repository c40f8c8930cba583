package domain

import (
	"context"
	"time"
)

// EventStatus is the lifecycle status of an event, owned by the server.
type EventStatus string

const (
	EventStatusOpen      EventStatus = "OPEN"
	EventStatusFull      EventStatus = "FULL"
	EventStatusCancelled EventStatus = "CANCELLED"
	EventStatusCompleted EventStatus = "COMPLETED"
)

// Event is the gateway's transient copy of a server-held event record.
// It is created on fetch and replaced wholesale by a re-fetch after a
// mutating call succeeds; nothing here is patched in place.
// swagger:model Event
type Event struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	Status           EventStatus    `json:"status"`
	LocationName     string         `json:"location_name"`
	LocationLat      float64        `json:"location_lat"`
	LocationLng      float64        `json:"location_lng"`
	StartsAt         time.Time      `json:"starts_at"`
	EndsAt           time.Time      `json:"ends_at"`
	JoiningFeeCents  int64          `json:"joining_fee_cents"`
	MinParticipants  int            `json:"min_participants"`
	MaxParticipants  int            `json:"max_participants"`
	HostID           string         `json:"host_id"`
	Host             *UserSummary   `json:"host,omitempty"`
	Participants     []*Participant `json:"participants,omitempty"`
	ParticipantCount int            `json:"participant_count"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// IsFree reports whether joining the event requires no payment.
func (e *Event) IsFree() bool { return e.JoiningFeeCents == 0 }

// HostedBy reports whether userID is the event's host.
func (e *Event) HostedBy(userID string) bool { return userID != "" && e.HostID == userID }

// HasParticipant reports whether userID appears in the loaded participant
// list. The server decides who counts toward capacity (pending payments do
// not); this only answers membership for client-side gating.
func (e *Event) HasParticipant(userID string) bool {
	for _, p := range e.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// JoinEligibility returns nil when userID may attempt to join, or the
// sentinel describing why not. The server remains authoritative: a race
// where the event fills between this check and the join call surfaces the
// server's rejection instead.
func (e *Event) JoinEligibility(userID string) error {
	if e.HostedBy(userID) {
		return ErrForbidden
	}
	if e.HasParticipant(userID) {
		return ErrAlreadyJoined
	}
	switch e.Status {
	case EventStatusOpen:
		return nil
	case EventStatusFull:
		return ErrEventFull
	default:
		return ErrEventNotJoinable
	}
}

// ReviewEligibility returns nil when userID may submit a review: a
// participant of a completed event who is not the host. This gates the
// control client-side only; the server enforces it again.
func (e *Event) ReviewEligibility(userID string) error {
	if e.HostedBy(userID) {
		return ErrNotEligible
	}
	if !e.HasParticipant(userID) {
		return ErrNotEligible
	}
	if e.Status != EventStatusCompleted {
		return ErrNotEligible
	}
	return nil
}

// EventFilter narrows event listings for the browse, calendar, and map views.
// All fields are optional and passed through to the upstream API.
type EventFilter struct {
	Search        string
	From          *time.Time
	To            *time.Time
	MinLat        *float64
	MaxLat        *float64
	MinLng        *float64
	MaxLng        *float64
	AvailableOnly bool
}

// JoinOptions is the payload of a join call. Both fields are optional:
// the paid path fills them from the confirmed payment, and the free path
// passes through whatever the caller supplied without attaching semantics.
type JoinOptions struct {
	PaymentID     string                   `json:"payment_id,omitempty"`
	PaymentStatus ParticipantPaymentStatus `json:"payment_status,omitempty"`
}

// EventDirectory reads event state from the upstream EventHub API.
type EventDirectory interface {
	FetchEvent(ctx context.Context, eventID string) (*Event, error)
	ListEvents(ctx context.Context, filter EventFilter, params PaginationParams) ([]*Event, int, error)
	FetchEventReviews(ctx context.Context, eventID string) ([]*Review, error)
	FetchUserSummary(ctx context.Context, userID string) (*UserSummary, error)
}

// ParticipationAPI mutates participation state on the upstream EventHub API.
type ParticipationAPI interface {
	JoinEvent(ctx context.Context, eventID string, opts JoinOptions) error
	LeaveEvent(ctx context.Context, eventID string) error
}

// EventDetail bundles everything the event detail view renders.
// swagger:model EventDetail
type EventDetail struct {
	Event     *Event       `json:"event"`
	Host      *UserSummary `json:"host"`
	Reviews   []*Review    `json:"reviews"`
	CanJoin   bool         `json:"can_join"`
	CanReview bool         `json:"can_review"`
}

// DirectoryService serves the read-mostly browse and detail views.
type DirectoryService interface {
	ListEvents(ctx context.Context, filter EventFilter, params PaginationParams) ([]*Event, int, error)
	EventDetail(ctx context.Context, ident Identity, eventID string) (*EventDetail, error)
}
