package jwt

import (
	"net/http"
	"sync"
	"time"

	"github.com/cmlabs-hris/usermanager/internal/domain/session"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	DefaultCookieName = "um_session"
	tokenTypeSession  = "session"
)

// SessionClaims is the decoded content of a panel session token.
type SessionClaims struct {
	SessionID string
	Name      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type Service interface {
	GenerateSessionToken(sessionID string, name string) (token string, expiresAt time.Time, err error)
	ParseSessionToken(tokenString string) (SessionClaims, error)
	SessionCookie(token string) *http.Cookie
	ExpiredSessionCookie() *http.Cookie
	TokenFromCookie(r *http.Request) string
	RevokeSession(sessionID string, until time.Time)
	IsSessionRevoked(sessionID string) bool
	PruneRevoked(now time.Time) int
}

type JWTService struct {
	tokenAuth    *jwtauth.JWTAuth
	ttl          time.Duration
	cookieName   string
	secureCookie bool
	revoked      map[string]time.Time
	mu           sync.RWMutex
}

func NewJWTService(secretKey string, ttl time.Duration, secureCookie bool) Service {
	return &JWTService{
		tokenAuth:    jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		ttl:          ttl,
		cookieName:   DefaultCookieName,
		secureCookie: secureCookie,
		revoked:      make(map[string]time.Time),
	}
}

func (j *JWTService) GenerateSessionToken(sessionID string, name string) (token string, expiresAt time.Time, err error) {
	now := time.Now()
	expiresAt = now.Add(j.ttl)

	claims := map[string]interface{}{
		"jti":  sessionID,
		"sub":  name,
		"type": tokenTypeSession,
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, time.Unix(expiresAt.Unix(), 0), err
}

// ParseSessionToken verifies signature and expiry and rejects revoked sessions.
func (j *JWTService) ParseSessionToken(tokenString string) (SessionClaims, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return SessionClaims{}, err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != tokenTypeSession {
		return SessionClaims{}, jwt.ErrInvalidJWT()
	}
	if token.JwtID() == "" || token.Subject() == "" {
		return SessionClaims{}, jwt.ErrInvalidJWT()
	}
	if j.IsSessionRevoked(token.JwtID()) {
		return SessionClaims{}, session.ErrSessionRevoked
	}

	return SessionClaims{
		SessionID: token.JwtID(),
		Name:      token.Subject(),
		IssuedAt:  token.IssuedAt(),
		ExpiresAt: token.Expiration(),
	}, nil
}

// SessionCookie has no Expires so the browser drops it when it closes.
func (j *JWTService) SessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     j.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   j.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

func (j *JWTService) ExpiredSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     j.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   j.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

// TokenFromCookie is a jwtauth token finder for the session cookie.
func (j *JWTService) TokenFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(j.cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (j *JWTService) RevokeSession(sessionID string, until time.Time) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.revoked[sessionID] = until
}

func (j *JWTService) IsSessionRevoked(sessionID string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revoked[sessionID]
	return revoked
}

// PruneRevoked forgets revocations whose token would have expired anyway.
func (j *JWTService) PruneRevoked(now time.Time) int {
	j.mu.Lock()
	defer j.mu.Unlock()

	pruned := 0
	for id, until := range j.revoked {
		if now.After(until) {
			delete(j.revoked, id)
			pruned++
		}
	}
	return pruned
}
