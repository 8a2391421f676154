// Package errors provides coded error types for rtdb-admin.
//
// Every failure that crosses a command boundary is an *AppError carrying a
// machine-readable code and the process exit code it maps to.
//
// Import Path: github.com/sungjintrb/rtdb-admin/internal/pkg/errors
package errors

import (
	"errors"
	"fmt"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1 // setup, scan, or delete failure
	ExitUsage   = 2 // invalid input or missing confirmation
)

// Sentinel errors for common failure scenarios.
var (
	ErrUsernameExhausted    = errors.New("no free username within attempt limit")
	ErrConfirmationRequired = errors.New("confirmation required")
)

// AppError is a structured application error with a code and exit status.
type AppError struct {
	// Code is a machine-readable error code (e.g., "SETUP_FAILED").
	Code string `json:"code" yaml:"code"`

	// Message is a human-readable error message.
	Message string `json:"message" yaml:"message"`

	// ExitCode is the process exit status this error maps to.
	ExitCode int `json:"-" yaml:"-"`

	// Params carries structured context such as the uid or path involved.
	Params map[string]interface{} `json:"params,omitempty" yaml:"params,omitempty"`

	// Err is the wrapped underlying error.
	Err error `json:"-" yaml:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code, message string, exitCode int) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		ExitCode: exitCode,
	}
}

// Wrap wraps an existing error into an AppError.
func Wrap(err error, code, message string, exitCode int) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		ExitCode: exitCode,
		Err:      err,
	}
}

// WithParams attaches structured parameters to the error.
func (e *AppError) WithParams(params map[string]interface{}) *AppError {
	if e == nil || len(params) == 0 {
		return e
	}
	e.Params = params
	return e
}

// IsAppError checks if an error is an AppError and returns it.
func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// ExitCodeOf maps err to a process exit code.
// nil maps to ExitOK, errors without an AppError in the chain to ExitFailure.
func ExitCodeOf(err error) int {
	if err == nil {
		return ExitOK
	}
	if appErr, ok := IsAppError(err); ok {
		return appErr.ExitCode
	}
	return ExitFailure
}

// HasCode reports whether any AppError in err's chain carries code.
func HasCode(err error, code string) bool {
	appErr, ok := IsAppError(err)
	return ok && appErr.Code == code
}
