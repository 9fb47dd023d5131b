package errors

import (
	"math"
	"slices"
	"strings"
	"unicode"
)

// ValidateThreshold checks a match acceptance threshold. Zero is allowed and
// means "accept any positive score"; negative and non-finite values are not.
func ValidateThreshold(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidConfig, "threshold must be a finite number")
	}
	if v < 0 {
		return New(ErrCodeInvalidConfig, "threshold must not be negative (got %g)", v)
	}
	return nil
}

// ValidateWeight checks a single named scoring weight.
func ValidateWeight(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return New(ErrCodeInvalidConfig, "weight %s must be a non-negative finite number (got %g)", name, v)
	}
	return nil
}

// ValidateChoice checks that value is one of allowed.
func ValidateChoice(field, value string, allowed ...string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	return New(ErrCodeInvalidConfig, "%s must be one of %s (got %q)", field, strings.Join(allowed, ", "), value)
}

// ValidateSourceLabel validates the label prefixed to imported external IDs.
// Labels are short identifiers: letters, digits, '-', '_' and '.'.
func ValidateSourceLabel(label string) error {
	if len(label) > 64 {
		return New(ErrCodeInvalidInput, "source label too long (max 64 characters)")
	}
	for _, r := range label {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.' {
			continue
		}
		return New(ErrCodeInvalidInput, "source label contains invalid character %q", r)
	}
	return nil
}

// ValidatePath validates a local file path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	if len(path) > 4096 {
		return New(ErrCodeInvalidPath, "path too long (max 4096 characters)")
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid control characters")
		}
	}
	return nil
}
