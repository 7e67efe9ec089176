package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/usermanager/internal/domain/auth"
	"github.com/cmlabs-hris/usermanager/internal/domain/remote"
	"github.com/cmlabs-hris/usermanager/internal/handler/web/view"
	"github.com/cmlabs-hris/usermanager/internal/service/dashboard"
	sessionService "github.com/cmlabs-hris/usermanager/internal/service/session"
)

type AuthHandler interface {
	LoginPage(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
}

type authHandlerImpl struct {
	authenticator auth.Authenticator
	sessions      *sessionService.Manager
	workspaces    *dashboard.Store
}

func NewAuthHandler(authenticator auth.Authenticator, sessions *sessionService.Manager, workspaces *dashboard.Store) AuthHandler {
	return &authHandlerImpl{
		authenticator: authenticator,
		sessions:      sessions,
		workspaces:    workspaces,
	}
}

// LoginPage implements AuthHandler.
func (h *authHandlerImpl) LoginPage(w http.ResponseWriter, r *http.Request) {
	if h.sessions.IsAuthenticated(r) {
		redirect(w, r, "/Dashboard")
		return
	}
	render(w, r, view.LoginPage(view.LoginData{Page: page(w, r)}))
}

// Login implements AuthHandler.
func (h *authHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	req := auth.LoginRequest{
		Text:     r.PostFormValue("text"),
		Password: r.PostFormValue("password"),
	}

	if err := req.Validate(); err != nil {
		render(w, r, view.LoginPage(view.LoginData{Page: page(w, r, failure(errorMessage(err))), Username: req.Text}))
		return
	}

	message, err := h.authenticator.Login(r.Context(), req)
	if err != nil {
		slog.Error("Login error", "error", err)
		render(w, r, view.LoginPage(view.LoginData{Page: page(w, r, failure(loginFailureMessage(err))), Username: req.Text}))
		return
	}

	if _, err := h.sessions.Login(w, req.Text); err != nil {
		slog.Error("Session start error", "error", err)
		render(w, r, view.LoginPage(view.LoginData{Page: page(w, r, failure("An error occurred while logging in")), Username: req.Text}))
		return
	}

	if message == "" {
		message = "Login Successful"
	}
	flash(w, r, success(message))
	redirect(w, r, "/Dashboard")
}

// Logout implements AuthHandler.
func (h *authHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	if id, ok := h.sessions.Logout(w, r); ok {
		h.workspaces.Drop(id.ID)
		slog.Info("Admin logged out", "session_id", id.ID)
	}
	flash(w, r, success("Logged Out"))
	redirect(w, r, "/")
}

// loginFailureMessage picks the toast for a failed login: the backend's
// message when it sent one.
func loginFailureMessage(err error) string {
	var (
		credErr   *auth.CredentialsError
		serverErr *remote.ServerError
	)
	switch {
	case errors.As(err, &credErr):
		if credErr.Message != "" {
			return credErr.Message
		}
		return "Login failed"
	case errors.Is(err, remote.ErrNetwork):
		return "No response from the server"
	case errors.As(err, &serverErr):
		if serverErr.Message != "" && serverErr.Message != http.StatusText(serverErr.Status) {
			return serverErr.Message
		}
		return "Login failed"
	}
	return "An error occurred while logging in"
}
