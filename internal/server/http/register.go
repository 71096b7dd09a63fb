package http

import (
	"net/http"

	"github.com/mrhteriyaki/kirov-server-emulator/internal/server/domain"
	"github.com/mrhteriyaki/kirov-server-emulator/internal/server/service"
	"github.com/mrhteriyaki/kirov-server-emulator/pkg/httpx"
	"github.com/mrhteriyaki/kirov-server-emulator/pkg/slogx"
)

// RegisterHandler serves POST /v1/register.
type RegisterHandler struct {
	Auth *service.AuthService
}

type registerRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name,omitempty"`
}

type registerResponse struct {
	AccountID string `json:"account_id"`
	Username  string `json:"username"`
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var body registerRequest
	if err := decodeJSON(w, r, &body); err != nil {
		errInvalidJSON.WriteError(w)
		return
	}
	if body.Username == "" || body.Password == "" {
		errInvalidRequest.WriteError(w)
		return
	}

	resp, err := h.Auth.Handle(ctx, domain.CanonicalRequest{
		Op:            domain.OpRegister,
		CorrelationID: slogx.RequestIDFromContext(ctx),
		Origin:        domain.OriginREST,
		Username:      body.Username,
		Secret:        body.Password,
		DisplayName:   body.DisplayName,
	})
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, registerResponse{
		AccountID: resp.AccountID,
		Username:  resp.Username,
	})
}
