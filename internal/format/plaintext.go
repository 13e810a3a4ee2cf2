package format

import (
	"strings"

	"glot.fit/lingocart/internal/fragment"
)

// PlainTextParser treats the whole document as a single fragment. It
// is the fallback when no detector matches and the degraded mode when
// a structured parse fails.
type PlainTextParser struct{}

func NewPlainTextParser() *PlainTextParser {
	return &PlainTextParser{}
}

func (p *PlainTextParser) Type() string {
	return TypePlainText
}

func (p *PlainTextParser) Detect(content string) bool {
	return strings.TrimSpace(content) != ""
}

func (p *PlainTextParser) Validate(content string) bool {
	return true
}

func (p *PlainTextParser) Extract(content string) []fragment.Fragment {
	if strings.TrimSpace(content) == "" {
		return nil
	}
	return []fragment.Fragment{{
		ID:           "txt-0",
		OriginalText: content,
		Path:         "text",
		Context:      "plain text document",
		Type:         fragment.TypeText,
	}}
}

func (p *PlainTextParser) Rebuild(content string, fragments []fragment.Fragment) (string, error) {
	for _, f := range fragments {
		if f.Path == "text" {
			return f.Output(), nil
		}
	}
	return content, nil
}
