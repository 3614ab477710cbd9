package rewriting

import "fmt"

// UnavailableError reports that the rewriting collaborator could not produce
// usable text. Callers keep the original bullet.
type UnavailableError struct {
	Intent  Intent
	Message string
	Cause   error
}

func (e *UnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("rewriter unavailable (%s): %s: %v", e.Intent, e.Message, e.Cause)
	}
	return fmt.Sprintf("rewriter unavailable (%s): %s", e.Intent, e.Message)
}

func (e *UnavailableError) Unwrap() error {
	return e.Cause
}

// RejectedError reports rewritten text that failed output checks
type RejectedError struct {
	Intent Intent
	Reason string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("rewrite rejected (%s): %s", e.Intent, e.Reason)
}
