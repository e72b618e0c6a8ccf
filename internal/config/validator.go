package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors struct {
	Errors []*ValidationError
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Add adds an error to the collection.
func (e *ValidationErrors) Add(field, message string) {
	e.Errors = append(e.Errors, &ValidationError{Field: field, Message: message})
}

// HasErrors returns true if there are any errors.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// Validate checks the configuration after defaults and command line
// overrides have been applied.
//
// Returns nil if valid, or a ValidationErrors containing all validation errors.
func (c *Config) Validate() error {
	errs := &ValidationErrors{}

	if len(c.Iterations) == 0 {
		errs.Add("iterations", "at least one iteration count is required")
	}
	for i, n := range c.Iterations {
		if n <= 0 {
			errs.Add(fmt.Sprintf("iterations[%d]", i), "iteration count must be greater than 0")
		}
	}

	seen := make(map[string]bool, len(c.Groups))
	for i, g := range c.Groups {
		field := fmt.Sprintf("groups[%d]", i)
		switch {
		case g == "":
			errs.Add(field, "group name cannot be empty")
		case seen[g]:
			errs.Add(field, fmt.Sprintf("group %q is listed more than once", g))
		}
		seen[g] = true
	}

	switch c.Output.Format {
	case FormatText, FormatJSON:
	default:
		errs.Add("output.format", fmt.Sprintf("unknown format: %s", c.Output.Format))
	}

	if c.Calibration.Samples < 0 {
		errs.Add("calibration.samples", "samples cannot be negative")
	}

	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs.Add("logLevel", err.Error())
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
