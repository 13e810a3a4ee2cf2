package language

import "testing"

func TestNormalizeLocale(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		" PT_br ":  "pt-br",
		"zh-Hans":  "zh-hans",
		"en--US":   "en-us",
		"es":       "es",
		"":         "",
		"  ":       "",
		"en_123":   "",
		"es;touch": "",
	}
	for raw, want := range cases {
		if got := NormalizeLocale(raw); got != want {
			t.Errorf("NormalizeLocale(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestNormalizeCode(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		" EN-us ": "en",
		"pt_BR":   "pt",
		"zh":      "zh",
		" ":       "",
		"12":      "",
	}
	for raw, want := range cases {
		if got := NormalizeCode(raw); got != want {
			t.Errorf("NormalizeCode(%q) = %q, want %q", raw, got, want)
		}
	}
}
