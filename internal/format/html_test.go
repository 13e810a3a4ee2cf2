package format

import (
	"strings"
	"testing"

	"glot.fit/lingocart/internal/fragment"
)

const htmlSampleDoc = `<div class="hero">` +
	`<h1 title="Greeting">Hello world</h1>` +
	`<img src="shirt.jpg" alt="A red shirt">` +
	`<input type="text" placeholder="Search products">` +
	`<script>var ignored = "Not content";</script>` +
	`<p>Shop the sale</p>` +
	`</div>`

func TestHTMLExtract(t *testing.T) {
	t.Parallel()

	parser := NewHTMLParser()
	frags := parser.Extract(htmlSampleDoc)

	byPath := make(map[string]fragment.Fragment, len(frags))
	for _, f := range frags {
		if strings.Contains(f.OriginalText, "Not content") {
			t.Fatalf("script content must not be extracted: %+v", f)
		}
		byPath[f.Path] = f
	}

	title, ok := byPath["attr[0].title"]
	if !ok || title.OriginalText != "Greeting" || title.Type != fragment.TypeTitle {
		t.Fatalf("missing or wrong title fragment: %+v (all: %+v)", title, frags)
	}
	if text, ok := byPath["text[0]"]; !ok || text.OriginalText != "Hello world" || text.Context != "<h1> text" {
		t.Fatalf("missing or wrong h1 text fragment: %+v", text)
	}
	if alt, ok := byPath["attr[1].alt"]; !ok || alt.OriginalText != "A red shirt" || alt.Type != fragment.TypeAlt {
		t.Fatalf("missing or wrong alt fragment: %+v", alt)
	}
	if ph, ok := byPath["attr[2].placeholder"]; !ok || ph.OriginalText != "Search products" || ph.Type != fragment.TypePlaceholder {
		t.Fatalf("missing or wrong placeholder fragment: %+v", ph)
	}
	if text, ok := byPath["text[1]"]; !ok || text.OriginalText != "Shop the sale" {
		t.Fatalf("missing or wrong paragraph fragment: %+v", text)
	}
}

// Attribute lookup is case-insensitive and values are trimmed, matching
// the degraded regex path.
func TestHTMLExtractAttributeCaseAndWhitespace(t *testing.T) {
	t.Parallel()

	parser := NewHTMLParser()
	frags := parser.Extract(`<img src="shirt.jpg" ALT=" Red shirt photo ">`)
	if len(frags) != 1 {
		t.Fatalf("expected one fragment, got %d: %+v", len(frags), frags)
	}
	got := frags[0]
	if got.OriginalText != "Red shirt photo" {
		t.Fatalf("attribute value must be trimmed, got %q", got.OriginalText)
	}
	if got.Type != fragment.TypeAlt {
		t.Fatalf("expected alt fragment, got %v", got.Type)
	}
}

func TestHTMLRebuild(t *testing.T) {
	t.Parallel()

	parser := NewHTMLParser()
	frags := parser.Extract(htmlSampleDoc)
	translations := map[string]string{
		"Hello world":     "Hola mundo",
		"Greeting":        "Saludo",
		"A red shirt":     "Una camisa roja",
		"Search products": "Buscar productos",
		"Shop the sale":   "Compra la oferta",
	}
	for i := range frags {
		frags[i].TranslatedText = translations[frags[i].OriginalText]
	}

	rebuilt, err := parser.Rebuild(htmlSampleDoc, frags)
	if err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}

	for _, want := range []string{
		`<h1 title="Saludo">Hola mundo</h1>`,
		`alt="Una camisa roja"`,
		`placeholder="Buscar productos"`,
		`<p>Compra la oferta</p>`,
		`class="hero"`,
		`src="shirt.jpg"`,
	} {
		if !strings.Contains(rebuilt, want) {
			t.Errorf("rebuilt document missing %q:\n%s", want, rebuilt)
		}
	}
	if !strings.Contains(rebuilt, `var ignored = "Not content";`) {
		t.Fatalf("script content must survive untouched:\n%s", rebuilt)
	}
}

// Duplicate body strings are all replaced: substitution-based rebuild
// cannot target one occurrence.
func TestHTMLRebuildReplacesDuplicates(t *testing.T) {
	t.Parallel()

	doc := `<p>Sale</p><span>Sale</span>`
	parser := NewHTMLParser()
	frags := parser.Extract(doc)
	if len(frags) != 2 {
		t.Fatalf("expected two fragments, got %d", len(frags))
	}
	frags[0].TranslatedText = "Rebajas"

	rebuilt, err := parser.Rebuild(doc, frags)
	if err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}
	if rebuilt != `<p>Rebajas</p><span>Rebajas</span>` {
		t.Fatalf("unexpected rebuilt document: %q", rebuilt)
	}
}

func TestHTMLRebuildLeavesTagsAlone(t *testing.T) {
	t.Parallel()

	// The body text equals a tag name; only the text node changes.
	doc := `<title>title</title>`
	parser := NewHTMLParser()
	frags := parser.Extract(doc)
	if len(frags) != 1 {
		t.Fatalf("expected one fragment, got %d: %+v", len(frags), frags)
	}
	frags[0].TranslatedText = "titulo"

	rebuilt, err := parser.Rebuild(doc, frags)
	if err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}
	if rebuilt != `<title>titulo</title>` {
		t.Fatalf("tag markup must not be rewritten: %q", rebuilt)
	}
}

func TestHTMLDetect(t *testing.T) {
	t.Parallel()

	parser := NewHTMLParser()
	if !parser.Detect(`<div>Hello</div>`) {
		t.Fatal("expected element markup to be detected")
	}
	if parser.Detect("no markup at all") {
		t.Fatal("plain text must not detect as HTML")
	}
	if parser.Detect("a < b and c > d") {
		t.Fatal("bare comparison operators must not detect as HTML")
	}
}
