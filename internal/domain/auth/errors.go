package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAdminNotConfigured = errors.New("admin credentials are not configured")
)

// CredentialsError carries the backend's message for a rejected login.
type CredentialsError struct {
	Message string
}

func (e *CredentialsError) Error() string {
	if e.Message == "" {
		return ErrInvalidCredentials.Error()
	}
	return e.Message
}

func (e *CredentialsError) Unwrap() error {
	return ErrInvalidCredentials
}
