package format

import (
	"bytes"
	"encoding/json"
	"regexp"
	"sort"
	"strings"
)

// decodeJSON parses content preserving number formatting so that a
// rebuild round-trips numeric leaves byte-faithfully.
func decodeJSON(content string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(content))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// encodeJSON serializes a rebuilt document without HTML escaping, the
// way stored content is written.
func encodeJSON(doc any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// sortedKeys returns map keys in lexical order. Extraction and rebuild
// must walk objects in the same order or paths stop lining up.
func sortedKeys(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// stripMarkup removes inline HTML tags from a value, leaving the
// human-readable text that should be handed to the translator.
func stripMarkup(value string) string {
	return strings.TrimSpace(htmlTagPattern.ReplaceAllString(value, ""))
}

// substituteInMarkup replaces the stripped text inside a raw value
// that may still carry inline tags. When the raw value had no markup
// the translation replaces it wholesale; otherwise the first literal
// occurrence of the stripped text is swapped, keeping adjacent tags.
func substituteInMarkup(raw, stripped, translated string) string {
	if raw == stripped || stripped == "" {
		return translated
	}
	if strings.Contains(raw, stripped) {
		return strings.Replace(raw, stripped, translated, 1)
	}
	return translated
}
