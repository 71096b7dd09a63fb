package http

import (
	"net/http"

	"github.com/mrhteriyaki/kirov-server-emulator/internal/server/domain"
	"github.com/mrhteriyaki/kirov-server-emulator/internal/server/service"
	"github.com/mrhteriyaki/kirov-server-emulator/pkg/slogx"
)

// LogoutHandler serves POST /v1/logout. Revocation is idempotent, so an
// already-dead token still gets a 204.
type LogoutHandler struct {
	Auth *service.AuthService
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token := bearerToken(r)
	if token == "" {
		errUnauthorized.WriteError(w)
		return
	}

	_, err := h.Auth.Handle(ctx, domain.CanonicalRequest{
		Op:            domain.OpLogout,
		CorrelationID: slogx.RequestIDFromContext(ctx),
		Origin:        domain.OriginREST,
		Token:         token,
	})
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
