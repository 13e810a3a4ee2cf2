// Package format implements structure-preserving document parsers for
// the content encodings stored by commerce platforms: Editor.js block
// documents, GrapeJS component trees, HTML, Markdown, and generic JSON.
//
// Each parser extracts the human-readable text spans of a document as
// fragments and can rebuild a document of the same shape with only
// those spans replaced.
package format

import (
	"fmt"
	"strings"

	"glot.fit/lingocart/internal/fragment"
)

// Format type names used across the module and on the wire.
const (
	TypeEditorJS  = "editorjs"
	TypeGrapeJS   = "grapejs"
	TypeHTML      = "html"
	TypeMarkdown  = "markdown"
	TypeJSON      = "json"
	TypePlainText = "plaintext"
)

// Parser handles one document encoding. Implementations hold no
// per-document state; every method is a pure function of its inputs.
type Parser interface {
	// Type returns the stable format name.
	Type() string
	// Detect reports whether content looks like this format.
	Detect(content string) bool
	// Extract returns the translatable fragments of content in
	// document order. Re-extracting unchanged content yields the same
	// paths in the same order.
	Extract(content string) []fragment.Fragment
	// Rebuild produces a document of the same shape as content with
	// each matched fragment's value replaced by its translation.
	// Untranslated fragments keep their original text. A document
	// that fails to re-parse is returned unchanged.
	Rebuild(content string, fragments []fragment.Fragment) (string, error)
	// Validate reports whether content can be safely parsed as this
	// format. Used both for auto-detection sanity checks and for
	// verifying a reconstructed document still conforms.
	Validate(content string) bool
}

// Registry is an immutable, ordered parser list. Detection order is a
// correctness requirement: any Editor.js or GrapeJS document is also
// valid JSON, so structurally specific formats must be probed before
// the generic JSON walker.
type Registry struct {
	parsers []Parser
	byType  map[string]Parser
}

// NewRegistry builds the standard registry in detection priority
// order: Editor.js, GrapeJS, HTML, Markdown, generic JSON.
func NewRegistry() *Registry {
	return newRegistry(
		NewEditorJSParser(),
		NewGrapeJSParser(),
		NewHTMLParser(),
		NewMarkdownParser(),
		NewJSONParser(),
	)
}

func newRegistry(parsers ...Parser) *Registry {
	byType := make(map[string]Parser, len(parsers)+1)
	for _, p := range parsers {
		byType[p.Type()] = p
	}
	// Resolvable by name, never probed: plain text is the fallback.
	plain := NewPlainTextParser()
	byType[plain.Type()] = plain
	return &Registry{parsers: parsers, byType: byType}
}

// Parsers returns the registered parsers in detection order.
func (r *Registry) Parsers() []Parser {
	if r == nil {
		return nil
	}
	out := make([]Parser, len(r.parsers))
	copy(out, r.parsers)
	return out
}

// ByType resolves a parser by declared format name.
func (r *Registry) ByType(name string) (Parser, error) {
	if r == nil {
		return nil, fmt.Errorf("format registry is nil")
	}
	normalized := strings.ToLower(strings.TrimSpace(name))
	if p, ok := r.byType[normalized]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("unknown content format %q", name)
}

// Detect probes detectors in priority order and returns the first
// match. Content matching no detector falls back to the plain-text
// parser, so Detect never returns nil.
func (r *Registry) Detect(content string) Parser {
	if r != nil {
		for _, p := range r.parsers {
			if p.Detect(content) {
				return p
			}
		}
	}
	return NewPlainTextParser()
}
