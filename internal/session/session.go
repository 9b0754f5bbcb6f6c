// Package session holds the short-lived authenticated handle the vault and
// ERP clients share, plus the error taxonomy for obtaining and using one.
package session

import (
	"errors"
	"fmt"
	"time"
)

// Session is a bearer token scoped to one external service. A session lives
// for a single invocation and is never persisted.
type Session struct {
	Token      string
	ObtainedAt time.Time
	TTL        time.Duration
}

// Valid reports whether the session can still be used at the given instant.
func (s Session) Valid(now time.Time) bool {
	return now.Before(s.ObtainedAt.Add(s.TTL))
}

// ExpiresAt returns the instant the session stops being usable.
func (s Session) ExpiresAt() time.Time {
	return s.ObtainedAt.Add(s.TTL)
}

var (
	// ErrInvalidCredentials means the service rejected the supplied
	// credentials (a 4xx answer, not a transport problem).
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnreachable means the service could not be reached at all.
	ErrUnreachable = errors.New("service unreachable")

	// ErrExpired means the session TTL elapsed. Clients check this locally
	// and never send a request with an expired session.
	ErrExpired = errors.New("session expired")
)

// UnexpectedStatusError reports a response that is neither a success nor a
// credential rejection.
type UnexpectedStatusError struct {
	Status int
	Body   string
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Status, e.Body)
}
