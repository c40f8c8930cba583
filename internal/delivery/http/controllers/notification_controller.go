package controllers

import (
	"log/slog"
	"net/http"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
)

type NotificationController struct {
	Logger  *slog.Logger
	Service domain.SocialService
}

func NewNotificationController(logger *slog.Logger, svc domain.SocialService) *NotificationController {
	return &NotificationController{
		Logger:  logger,
		Service: svc,
	}
}

// ListNotificationsData is the data payload for GET /notifications.
type ListNotificationsData struct {
	Items []*domain.Notification `json:"items"`
	Meta  helpers.PaginationMeta `json:"meta"`
}

// ListNotificationsSuccessResponse is the success envelope for GET /notifications (200).
type ListNotificationsSuccessResponse struct {
	Data  *ListNotificationsData `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// List godoc
// @Summary List the current user's notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListNotificationsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /notifications [get]
func (c *NotificationController) List(w http.ResponseWriter, r *http.Request) {
	ident := middleware.IdentityFromContext(r.Context())
	params := helpers.ParsePagination(r)

	notes, total, err := c.Service.ListNotifications(r.Context(), ident, params)
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, &ListNotificationsData{
		Items: notes,
		Meta:  helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// MarkRead godoc
// @Summary Mark a notification as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param notificationID path string true "Notification ID (UUID)"
// @Success 204
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /notifications/{notificationID}/read [post]
func (c *NotificationController) MarkRead(w http.ResponseWriter, r *http.Request) {
	notificationID, ok := pathUUID(w, r, "notificationID")
	if !ok {
		return
	}
	ident := middleware.IdentityFromContext(r.Context())
	if err := c.Service.MarkNotificationRead(r.Context(), ident, notificationID); err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
