package domain

import "errors"

// Sentinel errors shared across services, adapters, and the delivery layer.
var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrEventFull          = errors.New("event is full")
	ErrEventNotJoinable   = errors.New("event is not open for joining")
	ErrAlreadyJoined      = errors.New("already joined this event")
	ErrNotParticipant     = errors.New("not a participant of this event")
	ErrNotEligible        = errors.New("not eligible to review this event")
	ErrActionInFlight     = errors.New("another action for this event is still in progress")
	ErrEventMisconfigured = errors.New("event is not configured for payments")
)

// GenericRemoteMessage is shown to the user when a collaborator fails
// without supplying a message of its own.
const GenericRemoteMessage = "something went wrong, please try again"

// RemoteError is an error reported by an upstream collaborator (the EventHub
// API or the payment processor). Message is surfaced to the user verbatim;
// Err, when set, is the sentinel the upstream error code mapped to, so
// errors.Is keeps working through the wrap.
type RemoteError struct {
	Source  string // "api" or "processor"
	Code    string // upstream error code, if any
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return GenericRemoteMessage
}

func (e *RemoteError) Unwrap() error { return e.Err }

// NewTransportError wraps a transport-level failure (connection refused,
// timeout, malformed body) so the user sees the generic fallback while the
// original error stays available for logging.
func NewTransportError(source string, err error) *RemoteError {
	return &RemoteError{Source: source, Message: GenericRemoteMessage, Err: err}
}
