// Package remote holds the failure taxonomy for calls to the employee backend.
package remote

import (
	"errors"
	"fmt"
)

var (
	ErrNetwork    = errors.New("no response from the server")
	ErrServer     = errors.New("server error")
	ErrValidation = errors.New("rejected by the server")
	ErrNotFound   = errors.New("record not found")
)

// NetworkError means no response was received: dial failure, reset, timeout.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrNetwork, e.Err)
}

func (e *NetworkError) Unwrap() []error {
	return []error{ErrNetwork, e.Err}
}

// ServerError is a non-2xx answer that has no more specific meaning.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
}

func (e *ServerError) Unwrap() error {
	return ErrServer
}

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NotFoundError is returned when the backend does not know the target id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("employee %s not found", e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// Message returns the text shown to the admin for err.
func Message(err error) string {
	var (
		serverErr     *ServerError
		validationErr *ValidationError
	)
	switch {
	case errors.Is(err, ErrNetwork):
		return "No response from the server"
	case errors.As(err, &validationErr):
		return validationErr.Message
	case errors.As(err, &serverErr):
		if serverErr.Message != "" {
			return serverErr.Message
		}
		return fmt.Sprintf("Server responded with status %d", serverErr.Status)
	case errors.Is(err, ErrNotFound):
		return "Employee no longer exists"
	}
	return "Something went wrong"
}
