package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNormalizeLanguageFlag(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"es":    "es",
		" ES ":  "es",
		"zh-CN": "zh-cn",
		"pt_BR": "pt-br",
		"":      "",
		"   ":   "",
		"es1":   "",
		"es;rm": "",
		"e s":   "",
	}
	for raw, want := range cases {
		if got := normalizeLanguageFlag(raw); got != want {
			t.Errorf("normalizeLanguageFlag(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestReadDocument(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "doc.html")
	if err := os.WriteFile(path, []byte("<p>Hello</p>"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	content, err := readDocument(path)
	if err != nil {
		t.Fatalf("readDocument failed: %v", err)
	}
	if content != "<p>Hello</p>" {
		t.Fatalf("unexpected content: %q", content)
	}

	if _, err := readDocument(""); err == nil {
		t.Fatal("empty argument must fail")
	}
	if _, err := readDocument(filepath.Join(t.TempDir(), "missing.html")); err == nil {
		t.Fatal("missing file must fail")
	}
}

func TestWriteOutputToFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.html")
	if err := writeOutput(path, "<p>Hola</p>"); err != nil {
		t.Fatalf("writeOutput failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "<p>Hola</p>" {
		t.Fatalf("unexpected output: %q", data)
	}
}

func TestCommandContextTimeout(t *testing.T) {
	t.Parallel()

	if got := commandContextTimeout(0); got != 2*time.Minute {
		t.Fatalf("zero timeout = %v, want default", got)
	}
	if got := commandContextTimeout(time.Second); got != time.Second {
		t.Fatalf("explicit timeout = %v, want 1s", got)
	}
}

func TestRunRejectsUnknownCommands(t *testing.T) {
	if code := Run([]string{"frobnicate"}); code != 2 {
		t.Fatalf("unknown command exit code = %d, want 2", code)
	}
	if code := Run(nil); code != 2 {
		t.Fatalf("no-args exit code = %d, want 2", code)
	}
	if code := Run([]string{"help"}); code != 0 {
		t.Fatalf("help exit code = %d, want 0", code)
	}
}
