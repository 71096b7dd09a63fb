package http

import (
	"net/http"

	"github.com/mrhteriyaki/kirov-server-emulator/internal/server/service"
	"github.com/mrhteriyaki/kirov-server-emulator/pkg/slogx"
)

// PasswordHandler serves POST /v1/password: rotate the caller's password
// after re-verifying the current one. Requires a valid session.
type PasswordHandler struct {
	Auth *service.AuthService
}

type passwordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (h *PasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token := bearerToken(r)
	if token == "" {
		errUnauthorized.WriteError(w)
		return
	}

	var body passwordRequest
	if err := decodeJSON(w, r, &body); err != nil {
		errInvalidJSON.WriteError(w)
		return
	}
	if body.OldPassword == "" || body.NewPassword == "" {
		errInvalidRequest.WriteError(w)
		return
	}

	actx, err := h.Auth.Authenticate(ctx, token)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	if err := h.Auth.ChangePassword(ctx, actx.Account.ID, body.OldPassword, body.NewPassword); err != nil {
		writeServiceError(w, log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
