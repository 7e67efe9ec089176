package session

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/usermanager/internal/domain/session"
	"github.com/cmlabs-hris/usermanager/internal/pkg/jwt"
	"github.com/google/uuid"
)

// Manager keeps the signed-in admin's identity in a signed browser-session cookie.
type Manager struct {
	jwtService jwt.Service
}

func NewManager(jwtService jwt.Service) *Manager {
	return &Manager{jwtService: jwtService}
}

// Login records name as the current identity and starts a new session.
func (m *Manager) Login(w http.ResponseWriter, name string) (session.Identity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return session.Identity{}, session.ErrEmptyName
	}

	id := uuid.NewString()
	token, expiresAt, err := m.jwtService.GenerateSessionToken(id, name)
	if err != nil {
		return session.Identity{}, fmt.Errorf("issue session token: %w", err)
	}

	http.SetCookie(w, m.jwtService.SessionCookie(token))
	return session.Identity{ID: id, Name: name, ExpiresAt: expiresAt}, nil
}

// Identity returns the identity carried by r, if any.
func (m *Manager) Identity(r *http.Request) (session.Identity, bool) {
	if id, ok := session.FromContext(r.Context()); ok {
		return id, true
	}

	token := m.jwtService.TokenFromCookie(r)
	if token == "" {
		return session.Identity{}, false
	}

	claims, err := m.jwtService.ParseSessionToken(token)
	if err != nil {
		slog.Debug("Session token rejected", "error", err)
		return session.Identity{}, false
	}

	return session.Identity{
		ID:        claims.SessionID,
		Name:      claims.Name,
		IssuedAt:  claims.IssuedAt,
		ExpiresAt: claims.ExpiresAt,
	}, true
}

func (m *Manager) IsAuthenticated(r *http.Request) bool {
	_, ok := m.Identity(r)
	return ok
}

// Logout revokes the current session and clears the cookie. The cookie is
// cleared even when no valid session was found.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) (session.Identity, bool) {
	id, ok := m.Identity(r)
	if ok {
		m.jwtService.RevokeSession(id.ID, id.ExpiresAt)
	}
	http.SetCookie(w, m.jwtService.ExpiredSessionCookie())
	return id, ok
}
