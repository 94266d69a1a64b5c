package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// objectNameRegex matches names that are safe to use as file stems and URL
// path segments.
var objectNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateObjectName validates the name of a sliced object. Object names
// become output file stems and HTTP path segments, so they are restricted to
// a conservative character set:
//   - No empty names
//   - Maximum length of 128 characters
//   - Letters, digits, '.', '_' and '-' only, not starting with a separator
//   - No path traversal sequences (..)
func ValidateObjectName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "object name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "object name too long (max 128 characters)")
	}
	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidInput, "object name cannot contain '..'")
	}
	if !objectNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid object name: %q", name)
	}
	return nil
}

// ValidatePath validates an output path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}
