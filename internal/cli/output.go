package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/pixelgrid/internal/editor"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Rejected operation (locked, last quadrant, failed scenario, etc.)
	ExitCommandError = 2 // Command error (bad flags, unreadable files, storage unavailable, etc.)
)

// Error codes reported in CLIError.Code.
const (
	ErrCodeGeneric         = "E001"
	ErrCodeLocked          = "E101"
	ErrCodeWrongPassword   = "E102"
	ErrCodeNotFound        = "E103"
	ErrCodeLastQuadrant    = "E104"
	ErrCodeInvalidInput    = "E105"
	ErrCodeSaveFailed      = "E106"
	ErrCodeNotConfirmed    = "E107"
	ErrCodeStorage         = "E201"
	ErrCodeConfig          = "E202"
	ErrCodeScenarioFailure = "E301"
)

// cliCodes maps editor error codes to CLI codes and exit codes.
var cliCodes = map[string]struct {
	code string
	exit int
}{
	editor.CodeLocked:             {ErrCodeLocked, ExitFailure},
	editor.CodeWrongPassword:      {ErrCodeWrongPassword, ExitFailure},
	editor.CodeNoPrompt:           {ErrCodeLocked, ExitFailure},
	editor.CodeQuadrantNotFound:   {ErrCodeNotFound, ExitFailure},
	editor.CodeLastQuadrant:       {ErrCodeLastQuadrant, ExitFailure},
	editor.CodeImportNotConfirmed: {ErrCodeNotConfirmed, ExitFailure},
	editor.CodeSaveFailed:         {ErrCodeSaveFailed, ExitCommandError},
	editor.CodeInvalidSlot:        {ErrCodeInvalidInput, ExitFailure},
	editor.CodeUnknownIcon:        {ErrCodeInvalidInput, ExitFailure},
	editor.CodeUnknownColor:       {ErrCodeInvalidInput, ExitFailure},
	editor.CodeInvalidBackup:      {ErrCodeInvalidInput, ExitFailure},
}

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
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
	ErrWriter io.Writer // Separate writer for prompts and diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string      `json:"status"`          // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`  // success payload
	Error  *CLIError   `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string      `json:"code"`              // "E101", "E104", etc.
	Message string      `json:"message"`           // human-readable message
	Details interface{} `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
// Text output prints data with fmt, so result types implement String.
func (f *OutputFormatter) Success(data interface{}) error {
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
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
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

// Fail reports a failed editor operation and returns the matching
// ExitError. The editor's own code goes into the details.
func (f *OutputFormatter) Fail(err error) error {
	code := editor.ErrorCode(err)
	mapped, ok := cliCodes[code]
	if !ok {
		mapped.code, mapped.exit = ErrCodeGeneric, ExitCommandError
	}
	_ = f.Error(mapped.code, err.Error(), map[string]string{"reason": code})
	return WrapExitError(mapped.exit, mapped.code, err)
}

// Reject reports a command-level failure in the configured format and
// returns an ExitError whose message carries the same code.
func (f *OutputFormatter) Reject(exit int, code, message string, err error) error {
	detail := message
	if err != nil {
		detail = fmt.Sprintf("%s: %v", message, err)
	}
	_ = f.Error(code, detail, nil)
	return WrapExitError(exit, fmt.Sprintf("%s: %s", code, message), err)
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
