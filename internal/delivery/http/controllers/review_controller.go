package controllers

import (
	"log/slog"
	"net/http"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
)

type ReviewController struct {
	Logger  *slog.Logger
	Service domain.ReviewService
}

func NewReviewController(logger *slog.Logger, svc domain.ReviewService) *ReviewController {
	return &ReviewController{
		Logger:  logger,
		Service: svc,
	}
}

// SubmitReviewRequest is the request body for POST /events/{eventID}/reviews.
type SubmitReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

// Validate implements helpers.Validator.
func (r *SubmitReviewRequest) Validate() []string {
	if r.Rating < 1 || r.Rating > 5 {
		return []string{"rating must be between 1 and 5"}
	}
	return nil
}

// Submit godoc
// @Summary Review a completed event
// @Description Submits a review. Only participants of a completed event who are not the host may review; the server enforces the same rule.
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body controllers.SubmitReviewRequest true "Rating 1..5 and optional comment"
// @Success 201 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not eligible)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 502 {object} helpers.APIResponse "error.code: upstream_error"
// @Router /events/{eventID}/reviews [post]
func (c *ReviewController) Submit(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}

	var req SubmitReviewRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	ident := middleware.IdentityFromContext(r.Context())
	err := c.Service.Submit(r.Context(), ident, eventID, domain.ReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, nil)
}
