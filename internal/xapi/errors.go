package xapi

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an API failure so call sites can tell an auth problem
// from a rate limit without parsing response bodies.
type Kind string

const (
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindRateLimited  Kind = "rate_limited"
	KindTransport    Kind = "transport"
)

// Error is a failed call to the X API.
type Error struct {
	Kind       Kind
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("x api: %s (HTTP %d): %s", e.Kind, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("x api: %s: %s", e.Kind, e.Detail)
}

// KindOf returns the failure kind of err, or KindTransport when err is not
// an API error. Returns "" for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindTransport
}

func statusKind(code int) Kind {
	switch code {
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusTooManyRequests:
		return KindRateLimited
	default:
		return KindTransport
	}
}
