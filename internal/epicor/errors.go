package epicor

import (
	"errors"
	"fmt"
)

var (
	// ErrNoOpenTask means the case has no task to complete; the completion
	// write is never attempted.
	ErrNoOpenTask = errors.New("case has no open task")

	// ErrCaseNotFound means the case number did not resolve to a case.
	ErrCaseNotFound = errors.New("case not found")
)

// PartialCompletionError means the case's open task was read but the
// completion write failed, so the remote case may be ambiguously modified.
// It is distinct from a clean failure: the caller knows the case was reached.
type PartialCompletionError struct {
	CaseNumber string
	Err        error
}

func (e *PartialCompletionError) Error() string {
	return fmt.Sprintf("case %s: open task was read but the completion was not applied: %v", e.CaseNumber, e.Err)
}

func (e *PartialCompletionError) Unwrap() error { return e.Err }

// RemoteError is a business-level failure reported by the Epicor function
// library inside a successful HTTP response.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return "epicor reported an error"
	}
	return e.Message
}
