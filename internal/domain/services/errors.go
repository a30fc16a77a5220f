package services

import (
	"errors"
	"fmt"
)

// ConfigParseError reports a credentials file that exists but cannot be used.
// It aborts configuration; there is no fallback to default signing.
type ConfigParseError struct {
	Path string
	Err  error
}

func (e *ConfigParseError) Error() string {
	return fmt.Sprintf("failed to parse signing properties %s: %v", e.Path, e.Err)
}

func (e *ConfigParseError) Unwrap() error {
	return e.Err
}

// IsConfigParseError reports whether err wraps a ConfigParseError
func IsConfigParseError(err error) bool {
	var parseErr *ConfigParseError
	return errors.As(err, &parseErr)
}
