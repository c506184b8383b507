package regime

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is wrapped by every *InputError so callers can test for
	// it with errors.Is.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoEligibleRegime is returned by ranking when none of the evaluated
	// regimes is eligible for the profile.
	ErrNoEligibleRegime = errors.New("no eligible regime")
)

// InputError describes a profile or request field the engine refuses to
// compute with.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}
