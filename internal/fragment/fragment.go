// Package fragment defines the unit of translation shared by every
// document format: one addressable, independently translatable text span.
package fragment

import "strings"

// Type governs how a rebuild substitutes a translated value back into
// the document: body text, or one of the attribute-style slots.
type Type string

const (
	TypeText        Type = "text"
	TypeAlt         Type = "alt"
	TypeTitle       Type = "title"
	TypePlaceholder Type = "placeholder"
	TypeMeta        Type = "meta"
)

// Fragment is one extracted text span.
//
// ID and Path are 1:1 with a position in the parsed document for one
// extraction pass; re-extracting unchanged content yields the same
// paths in the same order.
type Fragment struct {
	ID             string `json:"id"`
	OriginalText   string `json:"original_text"`
	TranslatedText string `json:"translated_text,omitempty"`
	Path           string `json:"path"`
	Context        string `json:"context,omitempty"`
	Type           Type   `json:"type"`
}

// Output returns the value a rebuild should substitute: the translation
// when present, otherwise the original text. Untranslated fragments
// pass through unchanged.
func (f Fragment) Output() string {
	if strings.TrimSpace(f.TranslatedText) != "" {
		return f.TranslatedText
	}
	return f.OriginalText
}

// Translated reports whether the fragment carries a usable translation.
func (f Fragment) Translated() bool {
	return strings.TrimSpace(f.TranslatedText) != ""
}
