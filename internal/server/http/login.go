package http

import (
	"net/http"
	"time"

	"github.com/mrhteriyaki/kirov-server-emulator/internal/server/domain"
	"github.com/mrhteriyaki/kirov-server-emulator/internal/server/service"
	"github.com/mrhteriyaki/kirov-server-emulator/pkg/httpx"
	"github.com/mrhteriyaki/kirov-server-emulator/pkg/slogx"
)

// LoginHandler serves POST /v1/login.
type LoginHandler struct {
	Auth *service.AuthService
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccountID string    `json:"account_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var body loginRequest
	if err := decodeJSON(w, r, &body); err != nil {
		errInvalidJSON.WriteError(w)
		return
	}
	if body.Username == "" || body.Password == "" {
		errInvalidRequest.WriteError(w)
		return
	}

	resp, err := h.Auth.Handle(ctx, domain.CanonicalRequest{
		Op:            domain.OpLogin,
		CorrelationID: slogx.RequestIDFromContext(ctx),
		Origin:        domain.OriginREST,
		Username:      body.Username,
		Secret:        body.Password,
	})
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, loginResponse{
		AccountID: resp.AccountID,
		Token:     resp.Token,
		ExpiresAt: resp.ExpiresAt.UTC(),
	})
}
