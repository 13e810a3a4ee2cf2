package preview

import (
	"strings"
	"testing"

	"glot.fit/lingocart/internal/format"
)

func TestCleanTextCollapsesWhitespaceAndPreservesParagraphs(t *testing.T) {
	input := "  First   paragraph \n\n Second\tparagraph \r\n\r\nThird line "
	got := CleanText(input)
	want := "First paragraph\n\nSecond paragraph\n\nThird line"
	if got != want {
		t.Fatalf("CleanText mismatch\nwant: %q\ngot:  %q", want, got)
	}
}

func TestTruncateText(t *testing.T) {
	input := "abcdefghijklmnopqrstuvwxyz"

	got, truncated := TruncateText(input, 10)
	if !truncated {
		t.Fatalf("expected truncated=true")
	}
	if got != "abcdefghi…" {
		t.Fatalf("unexpected truncated text: %q", got)
	}

	full, wasTruncated := TruncateText("short", 10)
	if wasTruncated {
		t.Fatalf("expected truncated=false for short text")
	}
	if full != "short" {
		t.Fatalf("unexpected short text: %q", full)
	}
}

func TestRenderEditorJSListsFragmentText(t *testing.T) {
	registry := format.NewRegistry()
	doc := `{"blocks":[{"type":"header","data":{"text":"Summer sale","level":2}},{"type":"paragraph","data":{"text":"Everything must go"}}]}`

	text, err := Render(doc, "editorjs", registry)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(text, "Summer sale") || !strings.Contains(text, "Everything must go") {
		t.Fatalf("preview missing fragment text: %q", text)
	}
	if strings.Contains(text, "blocks") {
		t.Fatalf("preview must not leak document structure: %q", text)
	}
}

func TestRenderDetectsFormatWhenTypeOmitted(t *testing.T) {
	registry := format.NewRegistry()

	text, err := Render("# Welcome\n\nEnjoy free shipping on all orders.", "", registry)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(text, "Enjoy free shipping on all orders.") {
		t.Fatalf("unexpected markdown preview: %q", text)
	}
}

func TestRenderRejectsEmptyAndUnknown(t *testing.T) {
	registry := format.NewRegistry()

	if _, err := Render("   ", "", registry); err == nil {
		t.Fatal("empty content must fail")
	}
	if _, err := Render("hello", "docx", registry); err == nil {
		t.Fatal("unknown content type must fail")
	}
}
