package domain

import (
	"context"
	"time"
)

// Review is a participant's rating of a completed event.
// swagger:model Review
type Review struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	AuthorID  string    `json:"author_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewInput is a review submission. Rating must be 1..5.
type ReviewInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

// Validate checks the input locally before any remote call is made.
func (in ReviewInput) Validate() error {
	if in.Rating < 1 || in.Rating > 5 {
		return ErrInvalidInput
	}
	return nil
}

// ReviewAPI submits reviews to the upstream EventHub API.
type ReviewAPI interface {
	SubmitReview(ctx context.Context, eventID string, input ReviewInput) error
}

// ReviewService gates and submits reviews for the current identity.
type ReviewService interface {
	Submit(ctx context.Context, ident Identity, eventID string, input ReviewInput) error
}
