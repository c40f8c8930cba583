package helpers

import (
	"encoding/json"
	"errors"
	"net/http"

	"eventhub/internal/domain"
)

// Error codes for API error responses. Use these with WriteJSONError.
const (
	ErrCodeBadRequest    = "bad_request"
	ErrCodeUnauthorized  = "unauthorized"
	ErrCodeForbidden     = "forbidden"
	ErrCodeNotFound      = "not_found"
	ErrCodeConflict      = "conflict"
	ErrCodeUpstream      = "upstream_error"
	ErrCodeInternalError = "internal_error"
)

// APIError is the error object in the standardized API response envelope.
// swagger:model APIError
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIResponse is the standardized envelope for all API responses.
// On success: Data is set, Error is nil. On error: Data is nil, Error is set.
// swagger:model APIResponse
type APIResponse struct {
	Data  any       `json:"data"`
	Error *APIError `json:"error"`
}

// WriteJSONSuccess sets Content-Type to application/json, writes statusCode,
// and encodes an APIResponse with the given data and error set to nil.
func WriteJSONSuccess(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{Data: data, Error: nil})
}

// WriteJSONError sets Content-Type to application/json, writes statusCode,
// and encodes an APIResponse with data nil and the given error code and message.
func WriteJSONError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{
		Data:  nil,
		Error: &APIError{Code: code, Message: message},
	})
}

// WriteDomainError maps a domain error to the envelope. Sentinel errors get
// stable codes; RemoteError messages pass through verbatim (the server's or
// processor's wording, per the error-surfacing contract); anything else is
// an internal error with a generic message.
func WriteDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, messageOf(err, "invalid input"))
	case errors.Is(err, domain.ErrUnauthenticated):
		WriteJSONError(w, http.StatusUnauthorized, ErrCodeUnauthorized, messageOf(err, "authentication required"))
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrNotEligible):
		WriteJSONError(w, http.StatusForbidden, ErrCodeForbidden, messageOf(err, "forbidden"))
	case errors.Is(err, domain.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, ErrCodeNotFound, messageOf(err, "not found"))
	case errors.Is(err, domain.ErrEventFull),
		errors.Is(err, domain.ErrEventNotJoinable),
		errors.Is(err, domain.ErrAlreadyJoined),
		errors.Is(err, domain.ErrNotParticipant),
		errors.Is(err, domain.ErrEventMisconfigured),
		errors.Is(err, domain.ErrActionInFlight):
		WriteJSONError(w, http.StatusConflict, ErrCodeConflict, messageOf(err, "conflict"))
	default:
		var remote *domain.RemoteError
		if errors.As(err, &remote) {
			WriteJSONError(w, http.StatusBadGateway, ErrCodeUpstream, remote.Error())
			return
		}
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, domain.GenericRemoteMessage)
	}
}

// messageOf prefers the verbatim upstream message when the error chain
// carries one, falling back otherwise.
func messageOf(err error, fallback string) string {
	var remote *domain.RemoteError
	if errors.As(err, &remote) && remote.Message != "" {
		return remote.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
