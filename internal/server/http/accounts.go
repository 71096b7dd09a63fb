package http

import (
	"net/http"

	"github.com/mrhteriyaki/kirov-server-emulator/internal/server/domain"
	"github.com/mrhteriyaki/kirov-server-emulator/internal/server/service"
	"github.com/mrhteriyaki/kirov-server-emulator/pkg/slogx"
)

// AccountStatusHandler serves POST /v1/accounts/{id}/status, the operator
// suspend/reinstate control. Suspension revokes the account's live sessions
// in the same transaction.
type AccountStatusHandler struct {
	Auth *service.AuthService
}

type accountStatusRequest struct {
	Status string `json:"status"`
}

func (h *AccountStatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token := bearerToken(r)
	if token == "" {
		errUnauthorized.WriteError(w)
		return
	}
	if _, err := h.Auth.Authenticate(ctx, token); err != nil {
		writeServiceError(w, log, err)
		return
	}

	accountID := r.PathValue("id")
	if accountID == "" {
		errInvalidRequest.WriteError(w)
		return
	}

	var body accountStatusRequest
	if err := decodeJSON(w, r, &body); err != nil {
		errInvalidJSON.WriteError(w)
		return
	}

	status := domain.AccountStatus(body.Status)
	if !status.Valid() {
		errInvalidRequest.WriteError(w)
		return
	}

	if err := h.Auth.SetAccountStatus(ctx, accountID, status); err != nil {
		writeServiceError(w, log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
