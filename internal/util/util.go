// Package util provides small string helpers for host command arguments.
package util

import "strings"

// TrimQuotes removes leading and trailing double quotes from a string.
func TrimQuotes(s string) string {
	return strings.Trim(s, `"`)
}

// FixEscapeQuotes replaces escaped double quotes ("") with single double quotes (").
func FixEscapeQuotes(s string) string {
	return strings.ReplaceAll(s, `""`, `"`)
}

// CleanArg trims whitespace and surrounding quotes and unescapes inner quotes.
func CleanArg(s string) string {
	return FixEscapeQuotes(TrimQuotes(strings.TrimSpace(s)))
}

// IsNull reports whether an argument carries no value. Browsers report
// missing sensor axes as null; hosts may also send them empty.
func IsNull(s string) bool {
	switch strings.ToLower(CleanArg(s)) {
	case "", "null", "undefined", "nan":
		return true
	}
	return false
}
