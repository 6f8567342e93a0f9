package cli

import (
	"errors"
	"fmt"

	"github.com/sakif/shader-playground/internal/apperror"
)

const (
	ExitCodeSuccess    = 0
	ExitCodeGeneric    = 1
	ExitCodeUsage      = 2
	ExitCodeNotFound   = 3
	ExitCodeValidation = 4
	ExitCodeIO         = 5
)

// ExitError carries the process exit code for main.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *ExitError) ExitCode() int {
	if e == nil {
		return ExitCodeGeneric
	}
	return e.Code
}

func asExitError(code int, err error) error {
	if err == nil {
		return nil
	}
	var withExit interface{ ExitCode() int }
	if errors.As(err, &withExit) {
		return err
	}
	return &ExitError{Code: code, Err: err}
}

func usageErrorf(format string, args ...any) error {
	return &ExitError{Code: ExitCodeUsage, Err: fmt.Errorf(format, args...)}
}

// mapCommandError picks an exit code from the apperror kind.
func mapCommandError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, apperror.ErrNotFound):
		return asExitError(ExitCodeNotFound, err)
	case errors.Is(err, apperror.ErrValidation):
		return asExitError(ExitCodeValidation, err)
	case errors.Is(err, apperror.ErrStorage):
		return asExitError(ExitCodeIO, err)
	default:
		return asExitError(ExitCodeGeneric, err)
	}
}
