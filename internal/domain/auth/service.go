package auth

import (
	"context"
)

// AuthService checks admin credentials on the reference backend.
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
}

// Authenticator is the panel's handle on the backend login endpoint.
type Authenticator interface {
	Login(ctx context.Context, req LoginRequest) (message string, err error)
}
