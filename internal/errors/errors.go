package errors

import (
	"errors"
	"fmt"
)

// Common error types for the signup client
var (
	// Session errors
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNoCredentials    = errors.New("no credentials")
	ErrSuperseded       = errors.New("session replaced during verification")

	// API errors
	ErrTransport       = errors.New("transport failure")
	ErrInvalidResponse = errors.New("invalid response")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
