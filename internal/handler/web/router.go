package web

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/usermanager/internal/handler/web/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v3"
	"github.com/gorilla/csrf"
)

// CSRFOptions configures form protection. An empty Key disables it.
type CSRFOptions struct {
	Key    []byte
	Secure bool
}

// NewRouter wires the admin panel.
func NewRouter(logger *slog.Logger, sessions middleware.IdentityReader, csrfOpts CSRFOptions, authHandler AuthHandler, dashboardHandler DashboardHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))

	if len(csrfOpts.Key) > 0 {
		if !csrfOpts.Secure {
			r.Use(plaintextHTTP)
		}
		r.Use(csrf.Protect(csrfOpts.Key,
			csrf.Secure(csrfOpts.Secure),
			csrf.Path("/"),
			csrf.SameSite(csrf.SameSiteLaxMode),
			csrf.ErrorHandler(http.HandlerFunc(csrfFailure)),
		))
	}

	r.Get("/", authHandler.LoginPage)
	r.Post("/login", authHandler.Login)
	r.Post("/logout", authHandler.Logout)

	r.Route("/Dashboard", func(r chi.Router) {
		r.Use(middleware.SessionRequired(sessions))

		r.Get("/", dashboardHandler.Show)
		r.Get("/search", dashboardHandler.Search)
		r.Post("/refresh", dashboardHandler.Refresh)

		r.Route("/employees", func(r chi.Router) {
			r.Post("/new", dashboardHandler.New)
			r.Post("/{id}/edit", dashboardHandler.Edit)
			r.Post("/{id}/delete", dashboardHandler.Delete)
		})

		r.Route("/form", func(r chi.Router) {
			r.Post("/field", dashboardHandler.Field)
			r.Post("/submit", dashboardHandler.Submit)
			r.Post("/cancel", dashboardHandler.Cancel)
		})
	})

	return r
}

// plaintextHTTP tells the csrf middleware the panel is served without TLS,
// so it skips the strict HTTPS referer check.
func plaintextHTTP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}

func csrfFailure(w http.ResponseWriter, r *http.Request) {
	slog.Warn("CSRF check failed", "path", r.URL.Path, "reason", csrf.FailureReason(r))
	http.Error(w, "Forbidden - invalid CSRF token", http.StatusForbidden)
}
