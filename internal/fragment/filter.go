package fragment

import (
	"regexp"
	"strings"
)

// Per-format minimum lengths for a string to be worth translating.
// HTML text nodes accept two-character spans; JSON-ish values need
// three or more.
const (
	MinLenJSON = 3
	MinLenHTML = 2
)

var (
	urlPattern      = regexp.MustCompile(`^[a-z][a-z0-9+.-]*://\S+$|^www\.\S+$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	hexIDPattern    = regexp.MustCompile(`^[0-9a-fA-F]{8,}$|^[0-9a-fA-F]{8}(-[0-9a-fA-F]{4}){3}-[0-9a-fA-F]{12}$`)
	cssValuePattern = regexp.MustCompile(`^-?\d+(\.\d+)?(px|em|rem|vh|vw|%|pt|ex|ch|vmin|vmax)$|^#[0-9a-fA-F]{3,8}$|^rgba?\([\d\s.,%]+\)$`)
	numericPattern  = regexp.MustCompile(`^[\d\s.,:/+-]+$`)
)

// Translatable applies the shared textual-content filter: it rejects
// bare URLs, email addresses, hex-like identifiers, CSS length/color
// values, purely numeric strings, and anything shorter than minLen.
func Translatable(value string, minLen int) bool {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) < minLen {
		return false
	}
	switch {
	case urlPattern.MatchString(strings.ToLower(trimmed)):
		return false
	case emailPattern.MatchString(trimmed):
		return false
	case hexIDPattern.MatchString(trimmed):
		return false
	case cssValuePattern.MatchString(trimmed):
		return false
	case numericPattern.MatchString(trimmed):
		return false
	}
	return true
}

// NormalizeKey produces the canonical form of a text used for
// translation-memory keying: trimmed and lowercased.
func NormalizeKey(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
