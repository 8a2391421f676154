package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	apperrors "github.com/sungjintrb/rtdb-admin/internal/pkg/errors"
)

// Output formats for command results.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{FormatText, FormatJSON, FormatYAML}

// Response is the envelope for json and yaml output.
type Response struct {
	Status string             `json:"status" yaml:"status"` // "ok" or "error"
	Data   any                `json:"data,omitempty" yaml:"data,omitempty"`
	Error  *apperrors.AppError `json:"error,omitempty" yaml:"error,omitempty"`
}

// OutputFormatter writes command results to stdout and errors to stderr.
// Logs never go through it.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
	Verbose   bool
}

// emittedError marks an error that the formatter already reported, so
// Execute does not print it a second time.
type emittedError struct{ err error }

func (e *emittedError) Error() string { return e.err.Error() }
func (e *emittedError) Unwrap() error { return e.err }

// Emit reports a command outcome. data may be nil when the command failed
// before producing anything; text renders data in text mode. The returned
// error is err, marked as already reported.
func (f *OutputFormatter) Emit(data any, err error, text func(w io.Writer)) error {
	switch f.Format {
	case FormatJSON, FormatYAML:
		resp := Response{Status: "ok", Data: data}
		if err != nil {
			resp.Status = "error"
			resp.Error = toAppError(err)
		}
		if encErr := f.encode(resp); encErr != nil {
			return encErr
		}
	default:
		if data != nil && text != nil {
			text(f.Writer)
		}
		if err != nil {
			f.printError(err)
		}
	}
	if err != nil {
		return &emittedError{err: err}
	}
	return nil
}

func (f *OutputFormatter) encode(v any) error {
	if f.Format == FormatYAML {
		enc := yaml.NewEncoder(f.Writer)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (f *OutputFormatter) printError(err error) {
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	appErr := toAppError(err)
	fmt.Fprintf(w, "Error [%s]: %s\n", appErr.Code, appErr.Message)
	if f.Verbose {
		if appErr.Err != nil {
			fmt.Fprintf(w, "Cause: %v\n", appErr.Err)
		}
		if len(appErr.Params) > 0 {
			fmt.Fprintf(w, "Details: %v\n", appErr.Params)
		}
	}
}

// toAppError returns the AppError in err's chain, or a generic one for plain errors.
func toAppError(err error) *apperrors.AppError {
	if appErr, ok := apperrors.IsAppError(err); ok {
		return appErr
	}
	return apperrors.New("ERROR", err.Error(), apperrors.ExitFailure)
}

func alreadyEmitted(err error) bool {
	var e *emittedError
	return errors.As(err, &e)
}
