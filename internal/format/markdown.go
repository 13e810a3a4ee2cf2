package format

import (
	"fmt"
	"regexp"
	"strings"

	"glot.fit/lingocart/internal/fragment"
)

// MarkdownParser is a line-oriented extractor. Fenced code blocks are
// skipped entirely; outside fences each line is classified once as a
// header, blockquote, list item, or plain paragraph, while link text
// and image alt text are extracted independently and can co-emit
// alongside any of those. The co-emission mirrors the stored-content
// contract even though it can double-substitute on rebuild.
type MarkdownParser struct{}

func NewMarkdownParser() *MarkdownParser {
	return &MarkdownParser{}
}

func (p *MarkdownParser) Type() string {
	return TypeMarkdown
}

var (
	mdDetectPattern = regexp.MustCompile(`(?m)^#{1,6}\s+\S|\*\*[^*\n]+\*\*|!?\[[^\]\n]+\]\([^)\n]*\)|^>\s?\S|^\s*[-*+]\s+\S|^\s*\d+\.\s+\S`)

	mdHeaderPattern = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	mdQuotePattern  = regexp.MustCompile(`^>\s*(.*)$`)
	mdListPattern   = regexp.MustCompile(`^(\s*)(?:[-*+]|\d+\.)\s+(.*)$`)
	mdImagePattern  = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]*)\)`)
	mdLinkPattern   = regexp.MustCompile(`(^|[^!])\[([^\]]+)\]\(([^)]*)\)`)

	mdBoldPattern     = regexp.MustCompile(`\*\*([^*]+)\*\*|__([^_]+)__`)
	mdItalicPattern   = regexp.MustCompile(`\*([^*]+)\*|_([^_]+)_`)
	mdCodeSpanPattern = regexp.MustCompile("`([^`]+)`")
)

func (p *MarkdownParser) Detect(content string) bool {
	return mdDetectPattern.MatchString(content)
}

func (p *MarkdownParser) Validate(content string) bool {
	return p.Detect(content)
}

func (p *MarkdownParser) Extract(content string) []fragment.Fragment {
	var frags []fragment.Fragment
	emit := func(line int, slot, context string, typ fragment.Type, text string) {
		frags = append(frags, fragment.Fragment{
			ID:           fmt.Sprintf("md-%d", len(frags)),
			OriginalText: text,
			Path:         fmt.Sprintf("line[%d].%s", line, slot),
			Context:      context,
			Type:         typ,
		})
	}

	inFence := false
	for i, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}

		structural := false
		switch {
		case mdHeaderPattern.MatchString(line):
			m := mdHeaderPattern.FindStringSubmatch(line)
			text := strings.TrimSpace(m[2])
			if fragment.Translatable(text, 1) {
				emit(i, "header", fmt.Sprintf("H%d header", len(m[1])), fragment.TypeText, text)
			}
			structural = true
		case mdQuotePattern.MatchString(line):
			m := mdQuotePattern.FindStringSubmatch(line)
			text := strings.TrimSpace(m[1])
			if fragment.Translatable(text, 1) {
				emit(i, "quote", "blockquote", fragment.TypeText, text)
			}
			structural = true
		case mdListPattern.MatchString(line):
			m := mdListPattern.FindStringSubmatch(line)
			text := strings.TrimSpace(m[2])
			if fragment.Translatable(text, 1) {
				emit(i, "item", "list item", fragment.TypeText, text)
			}
			structural = true
		}

		if !structural {
			plain := stripInlineMarkdown(line)
			if fragment.Translatable(plain, fragment.MinLenJSON) {
				emit(i, "text", "paragraph text", fragment.TypeText, plain)
			}
		}

		for j, m := range mdImagePattern.FindAllStringSubmatch(line, -1) {
			alt := strings.TrimSpace(m[1])
			if alt != "" && fragment.Translatable(alt, 1) {
				emit(i, fmt.Sprintf("image[%d].alt", j), "image alt text", fragment.TypeAlt, alt)
			}
		}
		for j, m := range mdLinkPattern.FindAllStringSubmatch(line, -1) {
			text := strings.TrimSpace(m[2])
			if fragment.Translatable(text, 1) {
				emit(i, fmt.Sprintf("link[%d].text", j), "link text", fragment.TypeText, text)
			}
		}
	}
	return frags
}

func (p *MarkdownParser) Rebuild(content string, fragments []fragment.Fragment) (string, error) {
	rebuilt := content
	for _, f := range fragments {
		if !f.Translated() || f.TranslatedText == f.OriginalText {
			continue
		}
		if f.Type == fragment.TypeAlt {
			rebuilt = strings.ReplaceAll(rebuilt, "!["+f.OriginalText+"]", "!["+f.TranslatedText+"]")
			continue
		}
		rebuilt = strings.ReplaceAll(rebuilt, f.OriginalText, f.TranslatedText)
	}
	return rebuilt, nil
}

// stripInlineMarkdown reduces a line to its plain text: images and
// links collapse to their visible text, emphasis and code-span
// markers drop.
func stripInlineMarkdown(line string) string {
	s := mdImagePattern.ReplaceAllString(line, "$1")
	s = mdLinkPattern.ReplaceAllString(s, "$1$2")
	s = mdBoldPattern.ReplaceAllString(s, "$1$2")
	s = mdItalicPattern.ReplaceAllString(s, "$1$2")
	s = mdCodeSpanPattern.ReplaceAllString(s, "$1")
	return strings.TrimSpace(s)
}
