package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// ValidateID checks that id is a well-formed UUID. Malformed identifiers
// fail fast at the service boundary instead of propagating into storage
// calls.
func ValidateID(kind, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s id %q is not a valid UUID", ErrInvalidInput, kind, id)
	}
	return nil
}

// NewID returns a fresh UUID string.
func NewID() string {
	return uuid.New().String()
}
