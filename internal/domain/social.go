package domain

import (
	"context"
	"time"
)

// FollowEdge is one edge of the follow graph.
// swagger:model FollowEdge
type FollowEdge struct {
	FollowerID string    `json:"follower_id"`
	FolloweeID string    `json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Notification is a platform notification for the current user.
// swagger:model Notification
type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// SocialAPI mutates and reads the follow graph on the upstream API.
// Follow and Unfollow act as the caller identified by the context token.
type SocialAPI interface {
	Follow(ctx context.Context, userID string) error
	Unfollow(ctx context.Context, userID string) error
	ListFollowers(ctx context.Context, userID string, params PaginationParams) ([]*UserSummary, int, error)
	ListFollowing(ctx context.Context, userID string, params PaginationParams) ([]*UserSummary, int, error)
}

// NotificationAPI reads and acknowledges the caller's notifications.
type NotificationAPI interface {
	ListNotifications(ctx context.Context, params PaginationParams) ([]*Notification, int, error)
	MarkNotificationRead(ctx context.Context, notificationID string) error
}

// SocialService gates the follow graph and notification operations.
type SocialService interface {
	Follow(ctx context.Context, ident Identity, userID string) error
	Unfollow(ctx context.Context, ident Identity, userID string) error
	ListFollowers(ctx context.Context, userID string, params PaginationParams) ([]*UserSummary, int, error)
	ListFollowing(ctx context.Context, userID string, params PaginationParams) ([]*UserSummary, int, error)
	ListNotifications(ctx context.Context, ident Identity, params PaginationParams) ([]*Notification, int, error)
	MarkNotificationRead(ctx context.Context, ident Identity, notificationID string) error
}
