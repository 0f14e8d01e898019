package services

import (
	"errors"
	"fmt"
)

var (
	ErrValidation       = errors.New("services: validation failed")
	ErrNotConfigured    = errors.New("WhatsApp not configured")
	ErrNoTemplate       = errors.New("WhatsApp template not configured")
	ErrNoAdminRecipient = errors.New("admin WhatsApp number not configured")
	ErrNotifierDisabled = errors.New("telegram notifier not configured")

	ErrInvalidCredentials = errors.New("services: invalid credentials")
	ErrUsernameTaken      = errors.New("services: username already exists")
	ErrLastAdmin          = errors.New("services: cannot remove the last admin user")
	ErrAdminExists        = errors.New("services: admin user already exists")
)

// ValidationError carries a user-facing message and matches ErrValidation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(format string, args ...interface{}) error {
	if len(args) == 0 {
		return &ValidationError{Message: format}
	}
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
