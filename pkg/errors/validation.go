package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateGraphName validates a user-supplied graph name for safety and
// correctness. Names end up in filenames, cache keys, and store documents,
// so the rules are intentionally conservative:
//   - No empty names
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
func ValidateGraphName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "graph name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "graph name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "graph name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}
	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidInput, "graph name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateNodeLabel validates a node display label. Labels are opaque to
// the model but rendered in terminals and SVG output, so control
// characters are rejected.
func ValidateNodeLabel(label string) error {
	const maxLabelLength = 512
	if len(label) > maxLabelLength {
		return New(ErrCodeInvalidLabel, "node label too long (max %d characters)", maxLabelLength)
	}
	for _, r := range label {
		if r != '\n' && unicode.IsControl(r) {
			return New(ErrCodeInvalidLabel, "node label contains invalid control characters")
		}
	}
	return nil
}

// graphIDRegex matches identifiers the stores accept: UUIDs and simple
// slug-style IDs.
var graphIDRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

// ValidateGraphID validates a persisted-graph identifier before it is
// used in a store query or URL path segment.
func ValidateGraphID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "graph ID cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "graph ID too long (max 128 characters)")
	}
	if !graphIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid graph ID: %q", id)
	}
	return nil
}
