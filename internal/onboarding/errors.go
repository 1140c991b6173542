package onboarding

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/mirastory/mira/internal/profile"
)

// ErrorKind is the category shown to the parent when a call fails.
type ErrorKind int

const (
	ErrorUnknown ErrorKind = iota
	ErrorNetwork
	ErrorAuth
	ErrorValidation
	ErrorFormat // Appearance photos only
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorNetwork:
		return "network"
	case ErrorAuth:
		return "auth"
	case ErrorValidation:
		return "validation"
	case ErrorFormat:
		return "format"
	default:
		return "unknown"
	}
}

// SubmitError wraps a failed profile creation. Every submit failure is retryable.
type SubmitError struct {
	Kind ErrorKind
	Err  error
}

// NewSubmitError classifies err into a SubmitError.
func NewSubmitError(err error) *SubmitError {
	return &SubmitError{Kind: ClassifySubmitError(err), Err: err}
}

func (e *SubmitError) Error() string {
	return "create profile: " + e.Err.Error()
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

// ClassifySubmitError maps a profile-creation failure onto the display
// categories. Typed errors win; opaque errors fall back to matching their text.
func ClassifySubmitError(err error) ErrorKind {
	if err == nil {
		return ErrorUnknown
	}
	switch profile.KindOf(err) {
	case profile.KindNetwork:
		return ErrorNetwork
	case profile.KindAuth:
		return ErrorAuth
	case profile.KindValidation:
		return ErrorValidation
	}
	if isNetworkError(err) {
		return ErrorNetwork
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, "network", "connection", "timeout", "unreachable", "socket", "no route"):
		return ErrorNetwork
	case containsAny(msg, "unauthorized", "unauthenticated", "forbidden", "auth", "token", "session expired"):
		return ErrorAuth
	case containsAny(msg, "validation", "invalid", "required"):
		return ErrorValidation
	}
	return ErrorUnknown
}

// ClassifyAppearanceError maps an extraction failure onto network, format or unknown.
func ClassifyAppearanceError(err error) ErrorKind {
	if err == nil {
		return ErrorUnknown
	}
	if errors.Is(err, profile.ErrUnsupportedPhoto) {
		return ErrorFormat
	}
	if profile.KindOf(err) == profile.KindNetwork || isNetworkError(err) {
		return ErrorNetwork
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, "network", "connection", "timeout", "unreachable"):
		return ErrorNetwork
	case containsAny(msg, "format", "decode", "unsupported"):
		return ErrorFormat
	}
	return ErrorUnknown
}

func isNetworkError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
