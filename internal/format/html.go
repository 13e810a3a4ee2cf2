package format

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"glot.fit/lingocart/internal/fragment"
)

// HTMLParser extracts the text nodes and copy-bearing attribute values
// of an HTML document. Rebuild is literal text substitution scoped by
// fragment type, so duplicate source strings are replaced everywhere
// they appear.
type HTMLParser struct{}

func NewHTMLParser() *HTMLParser {
	return &HTMLParser{}
}

func (p *HTMLParser) Type() string {
	return TypeHTML
}

var htmlDetectPattern = regexp.MustCompile(`(?s)<[a-zA-Z][a-zA-Z0-9-]*(\s[^>]*)?>`)

// translatableAttrs lists attribute names whose values carry copy, in
// extraction order, with the fragment type each one maps to. The DOM
// walk and the regex fallback share this table so both paths classify
// an attribute identically.
var translatableAttrs = []struct {
	name string
	typ  fragment.Type
}{
	{"alt", fragment.TypeAlt},
	{"title", fragment.TypeTitle},
	{"placeholder", fragment.TypePlaceholder},
	{"aria-label", fragment.TypeMeta},
	{"data-text", fragment.TypeText},
	{"value", fragment.TypeText},
}

// attrFragmentType classifies one attribute name.
func attrFragmentType(name string) fragment.Type {
	for _, a := range translatableAttrs {
		if strings.EqualFold(a.name, name) {
			return a.typ
		}
	}
	return fragment.TypeText
}

// attrValue returns the trimmed value of the named attribute on n, or
// an empty string when the attribute is absent.
func attrValue(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func (p *HTMLParser) Detect(content string) bool {
	return htmlDetectPattern.MatchString(content)
}

func (p *HTMLParser) Validate(content string) bool {
	if !p.Detect(content) {
		return false
	}
	_, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	return err == nil
}

func (p *HTMLParser) Extract(content string) []fragment.Fragment {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil || len(doc.Nodes) == 0 {
		// Degraded mode: no DOM available, fall back to pattern
		// extraction over the raw markup.
		return p.extractWithRegex(content)
	}

	var frags []fragment.Fragment
	textIdx, attrIdx := 0, 0
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			value := strings.TrimSpace(n.Data)
			if fragment.Translatable(value, fragment.MinLenHTML) {
				parent := "text"
				if n.Parent != nil && n.Parent.Type == html.ElementNode {
					parent = n.Parent.Data
				}
				frags = append(frags, fragment.Fragment{
					ID:           fmt.Sprintf("html-%d", len(frags)),
					OriginalText: value,
					Path:         fmt.Sprintf("text[%d]", textIdx),
					Context:      "<" + parent + "> text",
					Type:         fragment.TypeText,
				})
				textIdx++
			}
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" || n.Data == "noscript" {
				return
			}
			for _, attr := range translatableAttrs {
				value := attrValue(n, attr.name)
				if !fragment.Translatable(value, fragment.MinLenHTML) {
					continue
				}
				frags = append(frags, fragment.Fragment{
					ID:           fmt.Sprintf("html-%d", len(frags)),
					OriginalText: value,
					Path:         fmt.Sprintf("attr[%d].%s", attrIdx, attr.name),
					Context:      "<" + n.Data + "> " + attr.name + " attribute",
					Type:         attr.typ,
				})
				attrIdx++
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, root := range doc.Nodes {
		walk(root)
	}
	return frags
}

var (
	regexTextSpan = regexp.MustCompile(`>([^<>]+)<`)
	regexAttrSpan = regexp.MustCompile(`(?i)(alt|title|placeholder|aria-label|data-text|value)\s*=\s*"([^"]*)"`)
)

// extractWithRegex is the documented degraded mode: ">text<" spans and
// the same attribute list, with the same type classification as the
// DOM walk.
func (p *HTMLParser) extractWithRegex(content string) []fragment.Fragment {
	var frags []fragment.Fragment
	textIdx, attrIdx := 0, 0

	for _, m := range regexTextSpan.FindAllStringSubmatch(content, -1) {
		value := strings.TrimSpace(m[1])
		if !fragment.Translatable(value, fragment.MinLenHTML) {
			continue
		}
		frags = append(frags, fragment.Fragment{
			ID:           fmt.Sprintf("html-%d", len(frags)),
			OriginalText: value,
			Path:         fmt.Sprintf("text[%d]", textIdx),
			Context:      "element text",
			Type:         fragment.TypeText,
		})
		textIdx++
	}

	for _, m := range regexAttrSpan.FindAllStringSubmatch(content, -1) {
		name := strings.ToLower(m[1])
		value := strings.TrimSpace(m[2])
		if !fragment.Translatable(value, fragment.MinLenHTML) {
			continue
		}
		frags = append(frags, fragment.Fragment{
			ID:           fmt.Sprintf("html-%d", len(frags)),
			OriginalText: value,
			Path:         fmt.Sprintf("attr[%d].%s", attrIdx, name),
			Context:      name + " attribute",
			Type:         attrFragmentType(name),
		})
		attrIdx++
	}
	return frags
}

func (p *HTMLParser) Rebuild(content string, fragments []fragment.Fragment) (string, error) {
	rebuilt := content
	for _, f := range fragments {
		if !f.Translated() || f.TranslatedText == f.OriginalText {
			continue
		}
		switch f.Type {
		case fragment.TypeAlt, fragment.TypeTitle, fragment.TypePlaceholder, fragment.TypeMeta:
			rebuilt = replaceAttrValue(rebuilt, attrNameFromPath(f.Path), f.OriginalText, f.TranslatedText)
		default:
			if strings.HasPrefix(f.Path, "attr[") {
				rebuilt = replaceAttrValue(rebuilt, attrNameFromPath(f.Path), f.OriginalText, f.TranslatedText)
			} else {
				rebuilt = replaceBodyText(rebuilt, f.OriginalText, f.TranslatedText)
			}
		}
	}
	return rebuilt, nil
}

// attrNameFromPath recovers the attribute name from paths shaped like
// "attr[3].alt".
func attrNameFromPath(path string) string {
	if dot := strings.LastIndexByte(path, '.'); dot >= 0 {
		return path[dot+1:]
	}
	return ""
}

// replaceAttrValue swaps attr="original" occurrences for the given
// attribute name, leaving body text alone.
func replaceAttrValue(content, attrName, original, translated string) string {
	if attrName == "" {
		return content
	}
	pattern := regexp.MustCompile(`(?i)(` + regexp.QuoteMeta(attrName) + `\s*=\s*")` + regexp.QuoteMeta(original) + `(")`)
	return pattern.ReplaceAllStringFunc(content, func(match string) string {
		idx := strings.IndexByte(match, '"')
		return match[:idx+1] + translated + `"`
	})
}

// replaceBodyText replaces literal occurrences of original that sit
// outside tag markup. Duplicate source strings are all replaced; that
// is the documented tradeoff of substitution-based rebuilds.
func replaceBodyText(content, original, translated string) string {
	if original == "" {
		return content
	}
	var b strings.Builder
	b.Grow(len(content))
	inTag := false
	for i := 0; i < len(content); {
		c := content[i]
		switch c {
		case '<':
			inTag = true
		case '>':
			inTag = false
		}
		if !inTag && c != '>' && strings.HasPrefix(content[i:], original) {
			b.WriteString(translated)
			i += len(original)
			continue
		}
		b.WriteByte(c)
		i++
	}
	return b.String()
}
