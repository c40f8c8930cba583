package controllers

import (
	"context"
	"log/slog"
	"net/http"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
)

type SocialController struct {
	Logger  *slog.Logger
	Service domain.SocialService
}

func NewSocialController(logger *slog.Logger, svc domain.SocialService) *SocialController {
	return &SocialController{
		Logger:  logger,
		Service: svc,
	}
}

// Follow godoc
// @Summary Follow a user
// @Tags social
// @Produce json
// @Security BearerAuth
// @Param userID path string true "User ID (UUID)"
// @Success 204
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (self-follow)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /users/{userID}/follow [post]
func (c *SocialController) Follow(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}
	ident := middleware.IdentityFromContext(r.Context())
	if err := c.Service.Follow(r.Context(), ident, userID); err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Unfollow godoc
// @Summary Unfollow a user
// @Tags social
// @Produce json
// @Security BearerAuth
// @Param userID path string true "User ID (UUID)"
// @Success 204
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /users/{userID}/follow [delete]
func (c *SocialController) Unfollow(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}
	ident := middleware.IdentityFromContext(r.Context())
	if err := c.Service.Unfollow(r.Context(), ident, userID); err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListUsersData is the data payload for follower/following listings.
type ListUsersData struct {
	Items []*domain.UserSummary  `json:"items"`
	Meta  helpers.PaginationMeta `json:"meta"`
}

// ListUsersSuccessResponse is the success envelope for follower/following listings (200).
type ListUsersSuccessResponse struct {
	Data  *ListUsersData    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// Followers godoc
// @Summary List a user's followers
// @Tags social
// @Produce json
// @Param userID path string true "User ID (UUID)"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListUsersSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /users/{userID}/followers [get]
func (c *SocialController) Followers(w http.ResponseWriter, r *http.Request) {
	c.listUsers(w, r, c.Service.ListFollowers)
}

// Following godoc
// @Summary List who a user follows
// @Tags social
// @Produce json
// @Param userID path string true "User ID (UUID)"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListUsersSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /users/{userID}/following [get]
func (c *SocialController) Following(w http.ResponseWriter, r *http.Request) {
	c.listUsers(w, r, c.Service.ListFollowing)
}

func (c *SocialController) listUsers(w http.ResponseWriter, r *http.Request, list func(ctx context.Context, userID string, params domain.PaginationParams) ([]*domain.UserSummary, int, error)) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}
	params := helpers.ParsePagination(r)
	users, total, err := list(r.Context(), userID, params)
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	if users == nil {
		users = []*domain.UserSummary{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, &ListUsersData{
		Items: users,
		Meta:  helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}
