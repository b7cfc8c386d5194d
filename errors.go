package blogfront

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by FetchErrors of KindNotFound.
var ErrNotFound = errors.New("entity not found")

// FetchErrorKind classifies gateway failures.
type FetchErrorKind int

const (
	// KindUnavailable covers transport errors, timeouts, non-2xx
	// responses and envelopes with success=false.
	KindUnavailable FetchErrorKind = iota
	// KindNotFound is a 404 from the content API.
	KindNotFound
	// KindMalformed is a body that does not decode or lacks data.
	KindMalformed
)

func (k FetchErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindMalformed:
		return "malformed"
	default:
		return "unavailable"
	}
}

// FetchError describes a failed gateway request.
type FetchError struct {
	Kind   FetchErrorKind
	Path   string
	Status int // HTTP status, 0 when no response was received
	Err    error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("gateway %s %s", e.Kind, e.Path)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) Is(target error) bool {
	return target == ErrNotFound && e.Kind == KindNotFound
}

// IsNotFound reports whether err is a not-found gateway failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
