// Package normalize provides canonical forms for user-entered identity
// fields so lookups and comparisons behave consistently.
package normalize

import "strings"

// Email lowercases and trims an email address. Email equality everywhere
// in the app is defined over this form.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Role lowercases and trims a role string for comparison against the
// closed role set.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
