package compose

import "strings"

// containsWhitespace reports whether s contains a space or a newline.
func containsWhitespace(s string) bool {
	return strings.ContainsAny(s, " \n")
}

// validateName checks a network or named-volume identifier.
func validateName(field, name string) error {
	if name == "" {
		return NewParseError(field, "name must not be empty", ErrInvalidName)
	}
	if containsWhitespace(name) {
		return NewParseError(field, "name must not contain whitespace: "+name, ErrInvalidName)
	}
	return nil
}
