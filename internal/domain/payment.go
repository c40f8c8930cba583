package domain

import (
	"context"
	"time"
)

// PaymentStatus is the state of a funds-movement attempt, owned by the
// payment processor and surfaced read-only.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

// Payment is a record of one funds-movement attempt.
// swagger:model Payment
type Payment struct {
	ID          string        `json:"id"`
	EventID     string        `json:"event_id"`
	UserID      string        `json:"user_id"`
	AmountCents int64         `json:"amount_cents"`
	Status      PaymentStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

// CardDetails is passed through to the processor opaquely; the gateway
// never stores or logs it.
type CardDetails struct {
	Number   string `json:"number"`
	ExpMonth int    `json:"exp_month"`
	ExpYear  int    `json:"exp_year"`
	CVC      string `json:"cvc"`
	Holder   string `json:"holder"`
}

// ConfirmStatusSucceeded is the only ConfirmResult status that permits a
// subsequent join; anything else is a failure.
const ConfirmStatusSucceeded = "succeeded"

// ConfirmResult is the processor's answer to a card confirmation.
type ConfirmResult struct {
	Status       string
	PaymentID    string
	ErrorMessage string
}

// Succeeded reports whether the confirmation authorized the charge.
func (r ConfirmResult) Succeeded() bool { return r.Status == ConfirmStatusSucceeded }

// PaymentSession creates a payment intent server-side and confirms it with
// the card processor. The gateway treats it as an opaque capability.
type PaymentSession interface {
	// CreateIntent asks the platform backend for a processor client secret
	// for the event's joining fee.
	CreateIntent(ctx context.Context, eventID string) (clientSecret string, err error)
	// ConfirmCard confirms the intent with the processor. A transport
	// failure is returned as an error; a declined or failed confirmation is
	// reported through the result with Succeeded() == false.
	ConfirmCard(ctx context.Context, clientSecret string, card CardDetails) (ConfirmResult, error)
}
