package services

import (
	"context"
	"fmt"

	"eventhub/internal/domain"
)

type socialService struct {
	api   domain.SocialAPI
	notes domain.NotificationAPI
}

// NewSocialService creates a SocialService over the given collaborators.
func NewSocialService(api domain.SocialAPI, notes domain.NotificationAPI) domain.SocialService {
	return &socialService{api: api, notes: notes}
}

func (s *socialService) Follow(ctx context.Context, ident domain.Identity, userID string) error {
	if !domain.Can(ident, domain.CapFollowUsers) {
		return domain.ErrUnauthenticated
	}
	if userID == ident.UserID() {
		return domain.ErrInvalidInput
	}
	return s.api.Follow(ctx, userID)
}

func (s *socialService) Unfollow(ctx context.Context, ident domain.Identity, userID string) error {
	if !domain.Can(ident, domain.CapFollowUsers) {
		return domain.ErrUnauthenticated
	}
	if userID == ident.UserID() {
		return domain.ErrInvalidInput
	}
	return s.api.Unfollow(ctx, userID)
}

func (s *socialService) ListFollowers(ctx context.Context, userID string, params domain.PaginationParams) ([]*domain.UserSummary, int, error) {
	users, total, err := s.api.ListFollowers(ctx, userID, clampParams(params))
	if err != nil {
		return nil, 0, fmt.Errorf("list followers: %w", err)
	}
	return users, total, nil
}

func (s *socialService) ListFollowing(ctx context.Context, userID string, params domain.PaginationParams) ([]*domain.UserSummary, int, error) {
	users, total, err := s.api.ListFollowing(ctx, userID, clampParams(params))
	if err != nil {
		return nil, 0, fmt.Errorf("list following: %w", err)
	}
	return users, total, nil
}

func (s *socialService) ListNotifications(ctx context.Context, ident domain.Identity, params domain.PaginationParams) ([]*domain.Notification, int, error) {
	if !ident.Authenticated() {
		return nil, 0, domain.ErrUnauthenticated
	}
	notes, total, err := s.notes.ListNotifications(ctx, clampParams(params))
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	return notes, total, nil
}

func (s *socialService) MarkNotificationRead(ctx context.Context, ident domain.Identity, notificationID string) error {
	if !ident.Authenticated() {
		return domain.ErrUnauthenticated
	}
	return s.notes.MarkNotificationRead(ctx, notificationID)
}

func clampParams(params domain.PaginationParams) domain.PaginationParams {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = defaultPageSize
	}
	if params.PageSize > maxPageSize {
		params.PageSize = maxPageSize
	}
	return params
}
