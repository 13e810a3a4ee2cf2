// Package language normalizes the language identifiers that flow
// through translation requests, memory keys, and catalog rows.
package language

import "strings"

// NormalizeLocale canonicalizes a locale tag to lowercase with "-"
// separators ("pt_BR" -> "pt-br"). Blank or malformed input yields an
// empty string.
func NormalizeLocale(raw string) string {
	tag := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "_", "-")

	subtags := make([]string, 0, 2)
	for _, part := range strings.Split(tag, "-") {
		if part == "" {
			continue
		}
		for _, r := range part {
			if r < 'a' || r > 'z' {
				return ""
			}
		}
		subtags = append(subtags, part)
	}
	return strings.Join(subtags, "-")
}

// NormalizeCode reduces a locale to its primary subtag, the form used
// in memory keys and provider requests ("en-US" -> "en").
func NormalizeCode(raw string) string {
	locale := NormalizeLocale(raw)
	if dash := strings.IndexByte(locale, '-'); dash >= 0 {
		return locale[:dash]
	}
	return locale
}
