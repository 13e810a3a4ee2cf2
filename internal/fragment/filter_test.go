package fragment

import "testing"

func TestTranslatableRejectsNonContent(t *testing.T) {
	t.Parallel()

	rejected := []string{
		"https://example.com/products/42",
		"www.example.com",
		"user@example.com",
		"d41d8cd98f00b204",
		"a1b2c3d4-e5f6-7890-abcd-ef1234567890",
		"12px",
		"1.5rem",
		"#fff",
		"#ff00ff88",
		"rgb(10, 20, 30)",
		"rgba(10, 20, 30, 0.5)",
		"123",
		"2024/01/15",
		"10:30",
		"1,299.00",
	}
	for _, value := range rejected {
		if Translatable(value, MinLenJSON) {
			t.Errorf("expected %q to be rejected", value)
		}
	}
}

func TestTranslatableAcceptsProse(t *testing.T) {
	t.Parallel()

	accepted := []string{
		"Hello world",
		"Nuestra historia",
		"Add to cart",
		"100% cotton t-shirt",
	}
	for _, value := range accepted {
		if !Translatable(value, MinLenJSON) {
			t.Errorf("expected %q to be accepted", value)
		}
	}
}

func TestTranslatableLengthFloors(t *testing.T) {
	t.Parallel()

	if Translatable("Hi", MinLenJSON) {
		t.Fatal("two-character text must not pass the JSON floor")
	}
	if !Translatable("Hi", MinLenHTML) {
		t.Fatal("two-character text must pass the HTML floor")
	}
	if Translatable("a", MinLenHTML) {
		t.Fatal("single character must not pass the HTML floor")
	}
	if Translatable("   ", MinLenHTML) {
		t.Fatal("whitespace-only text must be rejected")
	}
}

func TestNormalizeKey(t *testing.T) {
	t.Parallel()

	if got := NormalizeKey("  Hello World  "); got != "hello world" {
		t.Fatalf("unexpected normalized key: %q", got)
	}
}

func TestFragmentOutput(t *testing.T) {
	t.Parallel()

	frag := Fragment{OriginalText: "Hello", TranslatedText: "Hola"}
	if got := frag.Output(); got != "Hola" {
		t.Fatalf("expected translated text, got %q", got)
	}

	frag.TranslatedText = ""
	if got := frag.Output(); got != "Hello" {
		t.Fatalf("expected fallback to original text, got %q", got)
	}
	if frag.Translated() {
		t.Fatal("fragment without translated text must not report as translated")
	}
}
