// Package handler exposes the HTTP API of the auth subsystem.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/melodia-app/backend/internal/auth"
	"github.com/melodia-app/backend/pkg/validator"
)

type errorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to HTTP statuses in one place so every
// handler reports failures with the same shape.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusOf(err), errorResponse{Message: err.Error()})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, errBadRequestBody):
		return http.StatusBadRequest
	case validator.IsValidationError(err):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrEmailTaken),
		errors.Is(err, auth.ErrUsernameTaken),
		errors.Is(err, auth.ErrWrongAuthMethod),
		errors.Is(err, auth.ErrAuthMethodConflict),
		errors.Is(err, auth.ErrAlreadyVerified),
		errors.Is(err, auth.ErrInvalidOrExpiredToken),
		errors.Is(err, auth.ErrInvalidOAuthToken),
		errors.Is(err, auth.ErrNoPrimaryEmail),
		errors.Is(err, auth.ErrUnknownProvider):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrUnauthorized),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrTokenExpired),
		errors.Is(err, auth.ErrTokenInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrUserNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errBadRequestBody
	}
	return nil
}

var errBadRequestBody = errors.New("invalid request body")
