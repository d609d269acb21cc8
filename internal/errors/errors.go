package errors

import (
	"errors"
	"fmt"
)

// Common error types for the Twitch API client
var (
	// Credential errors
	ErrMissingClientID     = errors.New("missing client id")
	ErrMissingClientSecret = errors.New("missing client secret")

	// CLI errors
	ErrNoCommand      = errors.New("no command given")
	ErrUnknownCommand = errors.New("unknown command")
	ErrMissingIDs     = errors.New("at least one id is required")
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
