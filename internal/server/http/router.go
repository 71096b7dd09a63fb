// Package http is the operator-facing JSON surface plus the dispatcher that
// mounts the legacy XML endpoint beside it. Handlers translate between HTTP
// and canonical requests; the service layer owns all policy.
package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mrhteriyaki/kirov-server-emulator/internal/server/service"
	"github.com/mrhteriyaki/kirov-server-emulator/internal/server/soap"
	"github.com/mrhteriyaki/kirov-server-emulator/internal/server/store"
	"github.com/mrhteriyaki/kirov-server-emulator/pkg/httpx"
	"github.com/mrhteriyaki/kirov-server-emulator/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store       store.Store
	AuthService *service.AuthService
	SOAPHandler *soap.AuthHandler
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerLegacy()
	r.registerAccounts()
	r.registerSessions()
	r.registerSystem()

	// Anything unroutable gets a JSON 404 rather than the mux default.
	r.Mux.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		errNotFound.WriteError(w)
	})
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerLegacy() {
	// The game client hammers this endpoint during lobby join, so the limit
	// stays lenient; credential abuse is still bounded per IP.
	r.Mux.Handle("POST "+soap.Endpoint,
		httpx.Chain(requireTextXML(r.SOAPHandler),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerAccounts() {
	// POST /v1/register - strict rate limit by IP (public signup endpoint)
	r.Mux.Handle("POST /v1/register",
		httpx.Chain(&RegisterHandler{Auth: r.AuthService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /v1/password - authenticated, moderate limit
	r.Mux.Handle("POST /v1/password",
		httpx.Chain(&PasswordHandler{Auth: r.AuthService},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /v1/accounts/{id}/status - operator suspend/reinstate control
	r.Mux.Handle("POST /v1/accounts/{id}/status",
		httpx.Chain(&AccountStatusHandler{Auth: r.AuthService},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSessions() {
	// POST /v1/login - strict rate limit by IP (authentication attempts)
	r.Mux.Handle("POST /v1/login",
		httpx.Chain(&LoginHandler{Auth: r.AuthService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /v1/logout - moderate rate limit
	r.Mux.Handle("POST /v1/logout",
		httpx.Chain(&LogoutHandler{Auth: r.AuthService},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// GET /v1/session - lenient: clients validate on every authenticated call
	r.Mux.Handle("GET /v1/session",
		httpx.Chain(&SessionHandler{Auth: r.AuthService},
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient limits, monitoring may poll frequently
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

// requireTextXML rejects legacy-endpoint posts that are not XML. The client
// always sends text/xml; anything else is a stray browser or scanner.
func requireTextXML(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if ct != "" && !strings.HasPrefix(ct, "text/xml") && !strings.HasPrefix(ct, "application/xml") {
			http.Error(w, "unsupported media type", http.StatusUnsupportedMediaType)
			return
		}
		next.ServeHTTP(w, r)
	})
}
