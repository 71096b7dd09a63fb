package http

import (
	"net/http"
	"time"

	"github.com/mrhteriyaki/kirov-server-emulator/internal/server/store"
	"github.com/mrhteriyaki/kirov-server-emulator/pkg/httpx"
)

// ReadyzHandler serves GET /readyz: 200 when the store answers a ping, 503
// otherwise.
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &HealthChecks{Database: "ok"}
		status := "ok"
		code := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
