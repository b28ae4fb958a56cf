package prewash

import "fmt"

// ConfigurationError reports a cleaner wired to a field its model does not
// have. It surfaces at save time, when the instance is first inspected.
type ConfigurationError struct {
	Model   string
	Field   string
	Cleaner string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("cleaner %q configured to clean %q, but %q has no such field",
		e.Cleaner, e.Field, e.Model)
}

// CleanError wraps an error returned by a cleaner with the field it was
// cleaning. The cleaner's error is reachable through errors.Unwrap.
type CleanError struct {
	Ref     string
	Cleaner string
	Err     error
}

func (e *CleanError) Error() string {
	return fmt.Sprintf("cleaning %s with %s: %v", e.Ref, e.Cleaner, e.Err)
}

func (e *CleanError) Unwrap() error {
	return e.Err
}
