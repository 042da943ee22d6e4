package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "tui.max_messages")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation
// errors found
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	errs = append(errs, c.validateCapture()...)
	errs = append(errs, c.validateLogging()...)
	errs = append(errs, c.validateTUI()...)

	return errs
}

func (c *Config) validateCapture() []ValidationError {
	var errs []ValidationError

	// Kernel object names cannot contain whitespace; catching it here gives
	// a clearer error than a failed CreateMutex at start time.
	if strings.ContainsAny(c.Capture.MutexName, " \t") {
		errs = append(errs, ValidationError{
			Field:   "capture.mutex_name",
			Value:   c.Capture.MutexName,
			Message: "must not contain whitespace",
		})
	}

	return errs
}

func (c *Config) validateLogging() []ValidationError {
	var errs []ValidationError

	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errs
}

func (c *Config) validateTUI() []ValidationError {
	var errs []ValidationError

	if c.TUI.MaxMessages <= 0 {
		errs = append(errs, ValidationError{
			Field:   "tui.max_messages",
			Value:   c.TUI.MaxMessages,
			Message: "must be positive",
		})
	}

	return errs
}
