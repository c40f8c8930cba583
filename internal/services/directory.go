package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"eventhub/internal/domain"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type directoryService struct {
	directory domain.EventDirectory
}

// NewDirectoryService creates a DirectoryService over the upstream directory.
func NewDirectoryService(directory domain.EventDirectory) domain.DirectoryService {
	return &directoryService{directory: directory}
}

func (s *directoryService) ListEvents(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = defaultPageSize
	}
	if params.PageSize > maxPageSize {
		params.PageSize = maxPageSize
	}
	events, total, err := s.directory.ListEvents(ctx, filter, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, total, nil
}

func (s *directoryService) EventDetail(ctx context.Context, ident domain.Identity, eventID string) (*domain.EventDetail, error) {
	event, err := s.directory.FetchEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("fetch event: %w", err)
	}

	detail := &domain.EventDetail{Event: event}

	// Host profile and reviews are independent reads; fetch them together.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if event.Host != nil {
			detail.Host = event.Host
			return nil
		}
		host, err := s.directory.FetchUserSummary(gctx, event.HostID)
		if err != nil {
			return fmt.Errorf("fetch host: %w", err)
		}
		detail.Host = host
		return nil
	})
	g.Go(func() error {
		reviews, err := s.directory.FetchEventReviews(gctx, eventID)
		if err != nil {
			return fmt.Errorf("fetch reviews: %w", err)
		}
		detail.Reviews = reviews
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if detail.Reviews == nil {
		detail.Reviews = []*domain.Review{}
	}

	// Annotations for the UI controls. They only decide whether the
	// controls render; the join and review flows re-check on a fresh
	// snapshot and the server stays authoritative.
	if domain.Can(ident, domain.CapJoinEvents) {
		detail.CanJoin = event.JoinEligibility(ident.UserID()) == nil
	}
	if domain.Can(ident, domain.CapSubmitReviews) {
		detail.CanReview = event.ReviewEligibility(ident.UserID()) == nil
	}
	return detail, nil
}
