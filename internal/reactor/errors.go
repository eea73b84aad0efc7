package reactor

import "fmt"

// ConfigurationError reports an invalid or inconsistent scan configuration.
// Every violated contract during resolution surfaces as this single kind,
// carrying a human-readable message the caller shows as a fatal startup
// error.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

func configErrorf(format string, args ...any) error {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}
