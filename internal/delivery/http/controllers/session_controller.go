package controllers

import (
	"log/slog"
	"net/http"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
)

// SessionController exposes the resolved identity and its capability set to
// the front-end shell, which renders navigation from them.
type SessionController struct {
	Logger *slog.Logger
}

func NewSessionController(logger *slog.Logger) *SessionController {
	return &SessionController{Logger: logger}
}

// MeSuccessResponse is the success envelope for GET /me (200).
type MeSuccessResponse struct {
	Data  *domain.Identity  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// Me godoc
// @Summary Current identity
// @Description Returns the tri-state session identity: unknown (resolution failed), anonymous, or authenticated with the user profile. The shell must not treat unknown as anonymous.
// @Tags session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.MeSuccessResponse
// @Router /me [get]
func (c *SessionController) Me(w http.ResponseWriter, r *http.Request) {
	ident := middleware.IdentityFromContext(r.Context())
	helpers.WriteJSONSuccess(w, http.StatusOK, &ident)
}

// CapabilitiesData is the data payload for GET /me/capabilities.
type CapabilitiesData struct {
	Status       domain.IdentityStatus `json:"status"`
	Capabilities []domain.Capability   `json:"capabilities"`
}

// CapabilitiesSuccessResponse is the success envelope for GET /me/capabilities (200).
type CapabilitiesSuccessResponse struct {
	Data  *CapabilitiesData `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// Capabilities godoc
// @Summary Visible actions for the current identity
// @Description Returns the capability tags driving navigation and action visibility. The same function gates the participation flow, so the menu and the controller cannot disagree.
// @Tags session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.CapabilitiesSuccessResponse
// @Router /me/capabilities [get]
func (c *SessionController) Capabilities(w http.ResponseWriter, r *http.Request) {
	ident := middleware.IdentityFromContext(r.Context())
	caps := domain.VisibleActions(ident)
	if caps == nil {
		caps = []domain.Capability{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, &CapabilitiesData{
		Status:       ident.Status,
		Capabilities: caps,
	})
}
