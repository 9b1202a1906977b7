package bootstrap

import (
	"errors"
	"fmt"
)

// Process exit codes.
const (
	ExitOK = 0
	// ExitConfigWritten means no configuration existed and a default one was
	// written; the operator has to edit it before starting again.
	ExitConfigWritten = 1
	// ExitUsage means the command line could not be parsed.
	ExitUsage = 2
	// ExitFailure means the logger could not be built or the server failed.
	ExitFailure = 3
)

// ErrConfigWritten is returned by Run after it wrote a default configuration.
var ErrConfigWritten = errors.New("default configuration written")

// ExitError carries the exit code a failure maps to.
type ExitError struct {
	Code int
	Err  error
	// Logged is set when the failure was already reported through the logger.
	Logged bool
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit %d: %v", e.Code, e.Err)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error returned from command execution to a process exit
// code. Errors that do not carry a code come from argument parsing.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitUsage
}

// IsConfigWritten reports whether err means a default configuration was written.
func IsConfigWritten(err error) bool {
	return errors.Is(err, ErrConfigWritten)
}

// IsLogged reports whether err was already reported through the logger.
func IsLogged(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr) && exitErr.Logged
}

// Fail wraps err so that it maps to code.
func Fail(code int, err error) error {
	return &ExitError{Code: code, Err: err}
}
