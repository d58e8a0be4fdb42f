package errors

import (
	"strings"
	"unicode"
)

// maxNameLength bounds the person name printed on a report.
const maxNameLength = 200

// ValidateName validates a display name taken from a payload.
// Names are printed verbatim, so control characters are rejected here
// rather than silently stripped by the layout engine.
func ValidateName(name string) error {
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidPayload, "name too long (max %d characters)", maxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPayload, "name contains invalid control characters")
		}
	}
	return nil
}

// ValidateOutputBase validates an output base name used to derive artifact filenames.
//
// Validation rules:
//   - Base cannot be empty
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidateOutputBase(base string) error {
	if base == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}
	for _, r := range base {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}
	for _, part := range strings.FieldsFunc(base, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return New(ErrCodeInvalidPath, "output path cannot contain path traversal sequences (..)")
		}
	}
	return nil
}
