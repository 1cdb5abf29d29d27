// Package apperrors defines application-level error types.
package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError indicates the project manifest failed validation.
type ValidationError struct {
	Field   string   // Field that failed validation
	Message string   // Error message
	Details []string // Additional details
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s: %s:\n    - %s", e.Field, e.Message, strings.Join(e.Details, "\n    - "))
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string, details ...string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Details: details,
	}
}

// ConfigurationError indicates an unsupported or malformed setting, such as a
// plugin version specifier we refuse to install from. Never retried.
type ConfigurationError struct {
	Cause   error
	Aspect  string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error (%s): %s: %v", e.Aspect, e.Message, e.Cause)
	}
	return fmt.Sprintf("configuration error (%s): %s", e.Aspect, e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// NewConfigurationError creates a new configuration error.
func NewConfigurationError(aspect, message string, cause error) *ConfigurationError {
	return &ConfigurationError{
		Aspect:  aspect,
		Message: message,
		Cause:   cause,
	}
}

// ToolchainFailure records that the external toolchain reported an error
// while performing the titled operation.
type ToolchainFailure struct {
	Cause error
	Title string
}

func (e *ToolchainFailure) Error() string {
	return fmt.Sprintf("toolchain failed while %s: %v", e.Title, e.Cause)
}

func (e *ToolchainFailure) Unwrap() error {
	return e.Cause
}

// NewToolchainFailure creates a new toolchain failure.
func NewToolchainFailure(title string, cause error) *ToolchainFailure {
	return &ToolchainFailure{
		Title: title,
		Cause: cause,
	}
}

// ExitError asks the CLI to stop with the given status. The failure has
// already been reported to the user, so callers must not print it again.
type ExitError struct {
	Cause error
	Code  int
}

func (e *ExitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("exit status %d: %v", e.Code, e.Cause)
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewExitError creates a new exit error.
func NewExitError(code int, cause error) *ExitError {
	return &ExitError{
		Code:  code,
		Cause: cause,
	}
}

// ExitCode returns the status requested by an ExitError in err's chain,
// and false when err is not a controlled termination.
func ExitCode(err error) (int, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}
