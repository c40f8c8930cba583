package services

import (
	"context"
	"errors"
	"fmt"

	"eventhub/internal/domain"
)

type reviewService struct {
	directory domain.EventDirectory
	api       domain.ReviewAPI
}

// NewReviewService creates a ReviewService over the given collaborators.
func NewReviewService(directory domain.EventDirectory, api domain.ReviewAPI) domain.ReviewService {
	return &reviewService{directory: directory, api: api}
}

func (s *reviewService) Submit(ctx context.Context, ident domain.Identity, eventID string, input domain.ReviewInput) error {
	// Local validation blocks the action before any remote call.
	if err := input.Validate(); err != nil {
		return err
	}
	if !domain.Can(ident, domain.CapSubmitReviews) {
		return domain.ErrUnauthenticated
	}

	event, err := s.directory.FetchEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("fetch event: %w", err)
	}

	// Client-side gate only; the server enforces eligibility again.
	if err := event.ReviewEligibility(ident.UserID()); err != nil {
		return err
	}

	if err := s.api.SubmitReview(ctx, eventID, input); err != nil {
		return err
	}
	return nil
}
