package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrProjectNotFound = errors.New("project not found")
	ErrTaskNotFound    = errors.New("task not found")

	ErrForbidden        = errors.New("access forbidden")
	ErrNotAMember       = errors.New("not a member of this project")
	ErrAlreadyMember    = errors.New("user is already a member")
	ErrOwnerCannotLeave = errors.New("owner cannot leave the project")

	// ErrValidation is the base for business-rule validation failures.
	// Wrap it with a field-specific message via NewValidationError.
	ErrValidation = errors.New("validation failed")
)

// NewValidationError returns an error that satisfies errors.Is(err, ErrValidation)
// while carrying a human-readable message.
func NewValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
