package auth

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/usermanager/internal/domain/auth"
	"golang.org/x/crypto/bcrypt"
)

// LoginSuccessMessage is returned to a client after a valid login.
const LoginSuccessMessage = "Login Successful"

type AuthServiceImpl struct {
	username     string
	passwordHash []byte
}

// NewAuthService checks logins against a single admin account. passwordHash
// is a bcrypt hash.
func NewAuthService(username, passwordHash string) (auth.AuthService, error) {
	if strings.TrimSpace(username) == "" || passwordHash == "" {
		return nil, auth.ErrAdminNotConfigured
	}
	if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
		return nil, err
	}
	return &AuthServiceImpl{
		username:     username,
		passwordHash: []byte(passwordHash),
	}, nil
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	userMatch := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(req.Text)), []byte(a.username)) == 1
	// Always compare the password so an unknown username costs the same.
	passErr := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(req.Password))
	if !userMatch || passErr != nil {
		slog.Warn("Rejected admin login", "username", req.Text)
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	return auth.LoginResponse{Message: LoginSuccessMessage}, nil
}
