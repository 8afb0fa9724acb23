package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/brianmacy/szconfigtool/internal/admin"
	"github.com/brianmacy/szconfigtool/internal/cache"
	"github.com/brianmacy/szconfigtool/internal/gateway"
	"github.com/brianmacy/szconfigtool/internal/schema"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Rejected operation (validation, conflict, not found)
	ExitCommandError = 2 // Command error (bad flags, database not found, engine failure)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error { return e.Err }

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled. When format
// is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// errorCode maps the layer's error taxonomy onto stable CLI error codes.
func errorCode(err error) string {
	var (
		fetchErr   *cache.FetchError
		unknownErr *schema.UnknownEntityError
		mutErr     *gateway.MutationError
		notFound   *admin.NotFoundError
	)
	switch {
	case errors.As(err, &fetchErr):
		return "FETCH_FAILURE"
	case errors.As(err, &unknownErr):
		return "UNKNOWN_ENTITY"
	case errors.As(err, &mutErr):
		return string(mutErr.Code)
	case errors.As(err, &notFound):
		return "NOT_FOUND"
	default:
		return "COMMAND_ERROR"
	}
}

// exitCodeFor maps the error taxonomy onto process exit codes. Rejected
// operations are failures; engine/transport trouble is a command error.
func exitCodeFor(err error) int {
	switch errorCode(err) {
	case "FETCH_FAILURE", "WRITE_THROUGH_FAILURE", "COMMAND_ERROR":
		return ExitCommandError
	default:
		return ExitFailure
	}
}

// reportError renders an error and converts it to an ExitError.
func reportError(f *OutputFormatter, err error) error {
	_ = f.Error(errorCode(err), err.Error(), nil)
	return &ExitError{Code: exitCodeFor(err), Message: err.Error(), Err: err}
}
