package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/veldtlabs/accounts/internal/accounts/service"
	"github.com/veldtlabs/accounts/internal/accounts/store"
	"github.com/veldtlabs/accounts/pkg/httpx"
	"github.com/veldtlabs/accounts/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	AccountService       *service.AccountService
	PasswordResetService *service.PasswordResetService
	TokenService         *service.TokenService
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAccounts()
	r.registerActivation()
	r.registerPassword()
	r.registerAuthentication()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAccounts() {
	h := &AccountsHandler{AccountService: r.AccountService}

	r.Mux.Handle("POST /v1/accounts", http.HandlerFunc(h.HandleRegister))
	r.Mux.Handle("GET /v1/accounts", http.HandlerFunc(h.HandleList))
	r.Mux.Handle("GET /v1/accounts/{id}", http.HandlerFunc(h.HandleGet))
	r.Mux.Handle("PUT /v1/accounts/{id}", http.HandlerFunc(h.HandleUpdate))
	r.Mux.Handle("DELETE /v1/accounts/{id}", http.HandlerFunc(h.HandleDelete))
}

func (r *Router) registerActivation() {
	h := &ActivateHandler{AccountService: r.AccountService}

	r.Mux.Handle("GET /v1/activate/{token}", h)
}

func (r *Router) registerPassword() {
	h := &PasswordHandler{ResetService: r.PasswordResetService}

	r.Mux.Handle("POST /v1/password/forgot", http.HandlerFunc(h.HandleForgot))
	r.Mux.Handle("POST /v1/password/reset/{token}", http.HandlerFunc(h.HandleReset))
}

func (r *Router) registerAuthentication() {
	h := &AuthenticateHandler{TokenService: r.TokenService}

	r.Mux.Handle("POST /v1/authenticate", h)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
