package models

import (
	"errors"
	"fmt"
)

// ============================================================
// Errors
// ============================================================

var (
	ErrNotFound         = errors.New("not found")
	ErrLastElement      = errors.New("at least one entry must remain")
	ErrUnknownMechanism = errors.New("unknown mechanism")
)

// ValidationError reports input that could not be accepted as given.
type ValidationError struct {
	Field  string
	Raw    string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid %s: %q", e.Field, e.Raw)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Raw, e.Reason)
}
