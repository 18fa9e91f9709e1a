package providers

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindNetwork
	KindRateLimited
	KindService
	KindMalformed
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindNetwork:
		return "network"
	case KindRateLimited:
		return "rate_limited"
	case KindService:
		return "service"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Error is the terminal outcome of a failed provider call. Message is safe
// to show to end users; Err carries the underlying cause for logs.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Err        error
}

var (
	ErrPlaceNotFound     = &Error{Kind: KindNotFound}
	ErrNetwork           = &Error{Kind: KindNetwork}
	ErrRateLimited       = &Error{Kind: KindRateLimited}
	ErrService           = &Error{Kind: KindService}
	ErrMalformedResponse = &Error{Kind: KindMalformed}
)

func (e *Error) Message() string {
	switch e.Kind {
	case KindNotFound:
		return "place not found"
	case KindNetwork:
		return "network error, check your connection and try again later"
	case KindRateLimited:
		return "too many requests to the weather service, try again later"
	case KindService:
		return fmt.Sprintf("weather service error (%d)", e.StatusCode)
	case KindMalformed:
		return "malformed response from the weather service"
	default:
		return "could not retrieve weather data"
	}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message() + ": " + e.Err.Error()
	}
	return e.Message()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so callers can test against the
// exported sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf extracts the error kind, 0 when err is not a provider error.
func KindOf(err error) ErrorKind {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return 0
}

// UserMessage returns the presentable text for err, or fallback when err
// is not a provider error.
func UserMessage(err error, fallback string) string {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Message()
	}
	return fallback
}
