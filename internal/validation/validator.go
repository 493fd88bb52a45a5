package validation

import (
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Limits applied to free-text fields.
const (
	MaxEmployeeIDLength   = 32
	MaxEmployeeNameLength = 64
	MaxPositionLength     = 32
	MaxHistoryDays        = 366
)

// Validator provides common validation utilities
type Validator struct {
	employeeIDRegex *regexp.Regexp
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		employeeIDRegex: regexp.MustCompile(`^[A-Za-z0-9_\-]+$`),
	}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidStringLength checks the rune length of the trimmed string
func (v *Validator) IsValidStringLength(s string, min, max int) bool {
	length := utf8.RuneCountInString(strings.TrimSpace(s))
	return length >= min && length <= max
}

// IsValidEmployeeID accepts ASCII letters, digits, hyphen and underscore.
func (v *Validator) IsValidEmployeeID(id string) bool {
	return v.employeeIDRegex.MatchString(id)
}

// HasControlCharacters reports whether s contains newlines, tabs or other
// control characters.
func (v *Validator) HasControlCharacters(s string) bool {
	return strings.IndexFunc(s, unicode.IsControl) >= 0
}

// IsValidDateRange checks that from is not after to
func (v *Validator) IsValidDateRange(from, to time.Time) bool {
	return !from.After(to)
}

// IsValidDays checks a look-back window in days
func (v *Validator) IsValidDays(days int) bool {
	return days > 0 && days <= MaxHistoryDays
}

// TrimAndValidateString trims whitespace and returns the cleaned string
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}
