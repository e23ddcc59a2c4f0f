package cli

import (
	"errors"
	"fmt"

	"github.com/rshade/spritebatch/internal/sprite"
)

// Process exit codes.
const (
	ExitCodeOK          = 0
	ExitCodeFailure     = 1
	ExitCodeConfigError = 2
)

// ExitError carries an explicit process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// configError marks err as a configuration problem (exit code 2).
func configError(err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: ExitCodeConfigError, Err: err}
}

// ExitCodeFor maps an error to a process exit code. Configuration errors
// exit with 2 and everything else with 1.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitCodeOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	var cfgErr *sprite.ConfigError
	if errors.As(err, &cfgErr) {
		return ExitCodeConfigError
	}
	return ExitCodeFailure
}
