package config

import "fmt"

// ConfigurationError reports an invalid setting. It is fatal: nothing is
// processed with an invalid configuration.
type ConfigurationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error: %s: %s: %v", e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}
