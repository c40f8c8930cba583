package controllers

import (
	"log/slog"
	"net/http"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
)

type ParticipationController struct {
	Logger  *slog.Logger
	Service domain.ParticipationService
}

func NewParticipationController(logger *slog.Logger, svc domain.ParticipationService) *ParticipationController {
	return &ParticipationController{
		Logger:  logger,
		Service: svc,
	}
}

// JoinEventRequest is the request body for POST /events/{eventID}/join.
// Card is required for fee-bearing events and ignored for free ones.
// payment_id and payment_status are optional pass-throughs for free events.
type JoinEventRequest struct {
	Card          *domain.CardDetails `json:"card,omitempty"`
	PaymentID     string              `json:"payment_id,omitempty"`
	PaymentStatus string              `json:"payment_status,omitempty"`
}

// Validate implements helpers.Validator.
func (r *JoinEventRequest) Validate() []string {
	var errs []string
	if r.Card != nil {
		if r.Card.Number == "" {
			errs = append(errs, "card.number is required")
		}
		if r.Card.ExpMonth < 1 || r.Card.ExpMonth > 12 {
			errs = append(errs, "card.exp_month must be 1..12")
		}
		if r.Card.ExpYear < 2000 {
			errs = append(errs, "card.exp_year is invalid")
		}
		if r.Card.CVC == "" {
			errs = append(errs, "card.cvc is required")
		}
	}
	switch r.PaymentStatus {
	case "", string(domain.ParticipantPaymentPending),
		string(domain.ParticipantPaymentCompleted),
		string(domain.ParticipantPaymentFailed):
	default:
		errs = append(errs, "payment_status is invalid")
	}
	return errs
}

// JoinEventSuccessResponse is the success envelope for POST /events/{eventID}/join (200).
type JoinEventSuccessResponse struct {
	Data  *domain.ActionResult `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// Join godoc
// @Summary Join an event as the current user
// @Description Joins the authenticated user to the event. For fee-bearing events the card is charged first; the join is only recorded after a confirmed payment. The returned event is a fresh post-join snapshot.
// @Tags participation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body controllers.JoinEventRequest false "Card details and optional payment pass-through"
// @Success 200 {object} controllers.JoinEventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (caller hosts the event)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (full, not open, already joined, action pending)"
// @Failure 502 {object} helpers.APIResponse "error.code: upstream_error (API or processor failure, message verbatim)"
// @Router /events/{eventID}/join [post]
func (c *ParticipationController) Join(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}

	var req JoinEventRequest
	if r.ContentLength > 0 {
		if !helpers.DecodeAndValidate(w, r, &req) {
			return
		}
	}

	ident := middleware.IdentityFromContext(r.Context())
	result, err := c.Service.Join(r.Context(), ident, eventID, req.Card, domain.JoinOptions{
		PaymentID:     req.PaymentID,
		PaymentStatus: domain.ParticipantPaymentStatus(req.PaymentStatus),
	})
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}

// LeaveEventSuccessResponse is the success envelope for POST /events/{eventID}/leave (200).
type LeaveEventSuccessResponse struct {
	Data  *domain.ActionResult `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// Leave godoc
// @Summary Leave an event
// @Description Removes the authenticated user's participation. The returned event is a fresh post-leave snapshot.
// @Tags participation
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.LeaveEventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (not a participant, action pending)"
// @Failure 502 {object} helpers.APIResponse "error.code: upstream_error"
// @Router /events/{eventID}/leave [post]
func (c *ParticipationController) Leave(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}

	ident := middleware.IdentityFromContext(r.Context())
	result, err := c.Service.Leave(r.Context(), ident, eventID)
	if err != nil {
		respondError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}
