package scoring

import "fmt"

// GradeTableError reports an invalid grade cutoff table
type GradeTableError struct {
	Message string
}

func (e *GradeTableError) Error() string {
	return fmt.Sprintf("grade table error: %s", e.Message)
}

// ParseError represents a failure to read a rendered document
type ParseError struct {
	Format  string
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error (%s): %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error (%s): %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
