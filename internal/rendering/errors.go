package rendering

import "fmt"

// TemplateError is returned when a resume template cannot be read, parsed or
// executed. Template is the embedded name or file path.
type TemplateError struct {
	Template string
	Message  string
	Cause    error
}

func (e *TemplateError) Error() string {
	msg := fmt.Sprintf("template %s: %s", e.Template, e.Message)
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError is returned when the render input itself is unusable
type RenderError struct {
	Message string
}

func (e *RenderError) Error() string {
	return "render error: " + e.Message
}
