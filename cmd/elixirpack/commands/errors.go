package commands

import "errors"

// quietError is reported through the exit code only.
type quietError struct {
	err error
}

func (e quietError) Error() string { return e.err.Error() }

func (e quietError) Unwrap() error { return e.err }

// IsQuiet reports whether err must not be logged before exiting.
func IsQuiet(err error) bool {
	var q quietError
	return errors.As(err, &q)
}
