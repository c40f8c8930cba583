package domain

import "time"

// ParticipantPaymentStatus is the payment state carried on a join record.
// A participant of a fee-bearing event counts toward capacity only once the
// server has seen COMPLETED; the client must not assume otherwise.
type ParticipantPaymentStatus string

const (
	ParticipantPaymentPending   ParticipantPaymentStatus = "PENDING"
	ParticipantPaymentCompleted ParticipantPaymentStatus = "COMPLETED"
	ParticipantPaymentFailed    ParticipantPaymentStatus = "FAILED"
)

// Participant links one user to one event.
// swagger:model Participant
type Participant struct {
	EventID       string                   `json:"event_id"`
	UserID        string                   `json:"user_id"`
	PaymentStatus ParticipantPaymentStatus `json:"payment_status"`
	JoinedAt      time.Time                `json:"joined_at"`
}
