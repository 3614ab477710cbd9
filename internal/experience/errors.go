// Package experience loads portfolio files, validates experience entries at the
// load boundary and orders experiences by recency.
package experience

import "fmt"

// LoadError represents an error during file I/O or document parsing
type LoadError struct {
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("load error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("load error: %s", e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// MalformedEntryError describes an experience entry rejected at the load boundary.
// It is collected per entry and never aborts the load.
type MalformedEntryError struct {
	Index   int
	Company string
	Role    string
	Message string
	Cause   error
}

func (e *MalformedEntryError) Error() string {
	label := fmt.Sprintf("entry %d", e.Index)
	if e.Company != "" {
		label = fmt.Sprintf("entry %d (%s)", e.Index, e.Company)
	}
	if e.Cause != nil {
		return fmt.Sprintf("malformed experience %s: %s: %v", label, e.Message, e.Cause)
	}
	return fmt.Sprintf("malformed experience %s: %s", label, e.Message)
}

func (e *MalformedEntryError) Unwrap() error {
	return e.Cause
}
