package utils

import (
	"fmt"
	"strings"
)

// TrimOrEmpty normalizes user input without turning nil into "nil".
func TrimOrEmpty(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeSpace collapses repeated whitespace into a single space.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// FormatCode renders a display code the way the dashboard shows it (#0042).
func FormatCode(code int64) string {
	return fmt.Sprintf("%04d", code)
}
