package cmd

import (
	"github.com/pkg/errors"
)

// usageError marks configuration mistakes (bad flags, malformed pixel
// format) so main can exit with a status distinct from device and
// runtime failures.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...interface{}) error {
	return &usageError{err: errors.Errorf(format, args...)}
}

// ExitCode maps an error returned by Execute to the process exit
// status: 2 for configuration mistakes, 1 for everything else. A nil
// error (including every clean-stop path) is 0.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ue *usageError
	if errors.As(err, &ue) {
		return 2
	}
	return 1
}
