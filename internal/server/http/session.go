package http

import (
	"net/http"
	"time"

	"github.com/mrhteriyaki/kirov-server-emulator/internal/server/domain"
	"github.com/mrhteriyaki/kirov-server-emulator/internal/server/service"
	"github.com/mrhteriyaki/kirov-server-emulator/pkg/httpx"
	"github.com/mrhteriyaki/kirov-server-emulator/pkg/slogx"
)

// SessionHandler serves GET /v1/session: validate the bearer token and
// return the account it belongs to. Validation refreshes the session's
// last-seen time, so polling this endpoint keeps a sliding session alive.
type SessionHandler struct {
	Auth *service.AuthService
}

type sessionResponse struct {
	AccountID   string    `json:"account_id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Status      string    `json:"status"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token := bearerToken(r)
	if token == "" {
		errUnauthorized.WriteError(w)
		return
	}

	resp, err := h.Auth.Handle(ctx, domain.CanonicalRequest{
		Op:            domain.OpProfile,
		CorrelationID: slogx.RequestIDFromContext(ctx),
		Origin:        domain.OriginREST,
		Token:         token,
	})
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, sessionResponse{
		AccountID:   resp.AccountID,
		Username:    resp.Username,
		DisplayName: resp.DisplayName,
		Status:      string(resp.Status),
		ExpiresAt:   resp.ExpiresAt.UTC(),
	})
}
