// Package preview renders stored documents as readable plain text so
// reviewers can compare source and translated content without the
// surrounding markup.
package preview

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	readability "codeberg.org/readeck/go-readability/v2"

	"glot.fit/lingocart/internal/format"
)

// DefaultMaxRunes bounds preview length for API responses.
const DefaultMaxRunes = 4000

// Render produces a plain-text preview of a document. HTML documents
// go through readability extraction; everything else is reduced to its
// extracted fragments.
func Render(content, contentType string, registry *format.Registry) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("content is empty")
	}

	var parser format.Parser
	if strings.TrimSpace(contentType) != "" {
		resolved, err := registry.ByType(contentType)
		if err != nil {
			return "", err
		}
		parser = resolved
	} else {
		parser = registry.Detect(content)
	}

	if parser.Type() == format.TypeHTML {
		if text, err := renderHTML(content); err == nil && text != "" {
			return text, nil
		}
	}

	frags := parser.Extract(content)
	if len(frags) == 0 {
		return CleanText(content), nil
	}
	lines := make([]string, 0, len(frags))
	for _, f := range frags {
		lines = append(lines, f.OriginalText)
	}
	return CleanText(strings.Join(lines, "\n")), nil
}

func renderHTML(content string) (string, error) {
	article, err := readability.FromReader(strings.NewReader(content), nil)
	if err != nil {
		return "", fmt.Errorf("readability parse: %w", err)
	}

	var renderedText bytes.Buffer
	if err := article.RenderText(&renderedText); err != nil {
		return "", fmt.Errorf("render readability text: %w", err)
	}

	text := CleanText(renderedText.String())
	if text == "" {
		text = CleanText(article.Excerpt())
	}
	return text, nil
}

// CleanText normalizes line endings and collapses extra in-line whitespace.
func CleanText(raw string) string {
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	lines := strings.Split(normalized, "\n")
	paragraphs := make([]string, 0, len(lines))
	for _, line := range lines {
		clean := strings.Join(strings.Fields(strings.TrimSpace(line)), " ")
		if clean == "" {
			continue
		}
		paragraphs = append(paragraphs, clean)
	}

	return strings.TrimSpace(strings.Join(paragraphs, "\n\n"))
}

// TruncateText cuts text to at most maxRunes runes, appending an
// ellipsis when content was dropped.
func TruncateText(text string, maxRunes int) (string, bool) {
	if maxRunes <= 0 {
		maxRunes = DefaultMaxRunes
	}
	if utf8.RuneCountInString(text) <= maxRunes {
		return text, false
	}

	runes := []rune(text)
	return string(runes[:maxRunes-1]) + "…", true
}
