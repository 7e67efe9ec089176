package session

import "errors"

var (
	ErrSessionRevoked = errors.New("session has been signed out")
	ErrEmptyName      = errors.New("display name is required")
)
