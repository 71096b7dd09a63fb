package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mrhteriyaki/kirov-server-emulator/internal/server/service"
	"github.com/mrhteriyaki/kirov-server-emulator/internal/server/store"
	"github.com/mrhteriyaki/kirov-server-emulator/pkg/httpx"
)

// ErrorResponse is the JSON error body for the operator surface.
type ErrorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

type apiError struct {
	Status      int
	Code        string
	Description string
}

func (e apiError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.Status, ErrorResponse{Error: e.Code, Description: e.Description})
}

var (
	errInvalidRequest = apiError{http.StatusBadRequest, "invalid_request", "The request body is missing or malformed."}
	errInvalidJSON    = apiError{http.StatusBadRequest, "invalid_request", "The request body is not valid JSON."}
	errUnauthorized   = apiError{http.StatusUnauthorized, "invalid_token", "The session token is missing, invalid, or expired."}
	errBadCredentials = apiError{http.StatusUnauthorized, "invalid_credentials", "The username or password is incorrect."}
	errSuspended      = apiError{http.StatusForbidden, "account_suspended", "The account is suspended."}
	errNotFound       = apiError{http.StatusNotFound, "not_found", "No such resource."}
	errDuplicate      = apiError{http.StatusConflict, "duplicate_username", "The username is already taken."}
	errWeakPassword   = apiError{http.StatusUnprocessableEntity, "weak_password", "The password does not meet the minimum length."}
	errServer         = apiError{http.StatusInternalServerError, "server_error", "An internal error occurred."}
)

// writeServiceError maps the service error taxonomy onto HTTP statuses. The
// default branch is deliberately a 500: anything unclassified is treated as a
// storage or internal failure, not leaked to the client.
func writeServiceError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		errBadCredentials.WriteError(w)
	case errors.Is(err, service.ErrAccountSuspended):
		errSuspended.WriteError(w)
	case errors.Is(err, service.ErrDuplicateUsername):
		errDuplicate.WriteError(w)
	case errors.Is(err, service.ErrWeakSecret):
		errWeakPassword.WriteError(w)
	case errors.Is(err, service.ErrSessionExpired),
		errors.Is(err, service.ErrSessionRevoked),
		errors.Is(err, service.ErrSessionNotFound):
		errUnauthorized.WriteError(w)
	case errors.Is(err, service.ErrInvalidInput):
		errInvalidRequest.WriteError(w)
	case errors.Is(err, store.ErrNotFound):
		errNotFound.WriteError(w)
	default:
		log.Error("request failed", "err", err)
		errServer.WriteError(w)
	}
}
