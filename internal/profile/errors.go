package profile

import (
	"errors"
	"fmt"
)

// Kind is the coarse category of a profile service failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindNetwork
	KindAuth
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error is a categorized failure returned by the profile service.
type Error struct {
	Kind  Kind
	Field string // Offending field for validation errors
	Err   error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Field, e.Err)
	}
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrNotFound is returned when a profile id does not exist for an owner.
var ErrNotFound = errors.New("profile not found")

func validationError(field, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Field: field, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the category of err, or KindUnknown if err is not an *Error.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}
