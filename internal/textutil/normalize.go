package textutil

import (
	"strings"
	"unicode/utf8"
)

// Normalize lowercases s and collapses every whitespace run into a single space.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// ContainsAny reports whether text contains at least one of the substrings.
func ContainsAny(text string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(text, sub) {
			return true
		}
	}
	return false
}

// NormalizeAll normalizes every entry and drops the blank ones.
func NormalizeAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if n := Normalize(v); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// Length counts characters (runes), not bytes.
func Length(s string) int {
	return utf8.RuneCountInString(s)
}

// Truncate cuts s to at most max runes.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
