package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/domain"
)

// uuidRegex matches a canonical UUID string (8-4-4-4-12 hex).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// pathUUID reads and validates a UUID path value. On failure it writes a
// 400 and returns false.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := r.PathValue(name)
	if v == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing "+name)
		return "", false
	}
	if !uuidRegex.MatchString(v) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid "+name)
		return "", false
	}
	return v, true
}

// respondError logs unexpected failures and writes the mapped envelope.
// Expected domain outcomes (guards, conflicts, upstream rejections) are not
// logged as errors; they are the flow working as designed.
func respondError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var remote *domain.RemoteError
	expected := errors.As(err, &remote) ||
		errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrUnauthenticated) ||
		errors.Is(err, domain.ErrForbidden) ||
		errors.Is(err, domain.ErrNotEligible) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrEventFull) ||
		errors.Is(err, domain.ErrEventNotJoinable) ||
		errors.Is(err, domain.ErrAlreadyJoined) ||
		errors.Is(err, domain.ErrNotParticipant) ||
		errors.Is(err, domain.ErrEventMisconfigured) ||
		errors.Is(err, domain.ErrActionInFlight)
	if !expected {
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	}
	helpers.WriteDomainError(w, err)
}
