package helpers

import (
	"regexp"
	"strings"
)

var spaceRe = regexp.MustCompile(`\s+`)

// NormalizeSpace collapses runs of whitespace into single spaces and
// trims the ends.
func NormalizeSpace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// TrimSuffixFold removes the first matching suffix, compared
// case-insensitively, and trims the remainder.
func TrimSuffixFold(s string, suffixes ...string) string {
	for _, suffix := range suffixes {
		if len(s) >= len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix) {
			return strings.TrimSpace(s[:len(s)-len(suffix)])
		}
	}
	return strings.TrimSpace(s)
}

// GetSplitPart splits target around separate and returns the part at index.
func GetSplitPart(target string, separate string, index int) (string, bool) {
	parts := strings.Split(target, separate)
	if index >= len(parts) {
		return "", false
	}
	return parts[index], true
}
