package domain

import "context"

// AttemptState is one state of a join/leave attempt. The trace of states an
// attempt passed through is returned to the front-end, which uses it to
// drive the pending flag.
type AttemptState string

const (
	AttemptIdle            AttemptState = "idle"
	AttemptEvaluating      AttemptState = "evaluating"
	AttemptRequiresAuth    AttemptState = "requires_auth"
	AttemptAwaitingPayment AttemptState = "awaiting_payment"
	AttemptJoining         AttemptState = "joining"
	AttemptLeaving         AttemptState = "leaving"
)

// ActionResult is the outcome of a successful join or leave. Event is the
// post-action snapshot re-fetched from the server, never a patched copy of
// the pre-action one. When the re-fetch itself failed, Refreshed is false,
// Event is nil, and the client keeps its stale copy until the next fetch.
// swagger:model ActionResult
type ActionResult struct {
	Event     *Event         `json:"event,omitempty"`
	Refreshed bool           `json:"refreshed"`
	PaymentID string         `json:"payment_id,omitempty"`
	Trace     []AttemptState `json:"trace"`
}

// ParticipationService orchestrates join and leave for the current identity,
// including the fee branch and payment confirmation. At most one action per
// user and event may be in flight; concurrent invocations fail fast with
// ErrActionInFlight and perform no remote call.
type ParticipationService interface {
	Join(ctx context.Context, ident Identity, eventID string, card *CardDetails, opts JoinOptions) (*ActionResult, error)
	Leave(ctx context.Context, ident Identity, eventID string) (*ActionResult, error)
}
