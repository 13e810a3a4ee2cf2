// Package translation is the boundary with machine-translation
// backends: the Provider capability, its error taxonomy, retry
// behavior, and the provider registry.
package translation

import (
	"context"
	"fmt"
)

// Provider translates free-form text between languages.
type Provider interface {
	Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error)
	Name() string
	SupportedLanguages() []string
}

// TranslateRequest describes one translation request.
type TranslateRequest struct {
	Text       string
	SourceLang string // ISO 639-1 (for example: "zh", "en")
	TargetLang string
}

// TranslateResponse contains translated text and provider metadata.
type TranslateResponse struct {
	Text         string
	SourceLang   string
	TargetLang   string
	ProviderName string
	LatencyMs    int64
}

// TranslateTexts translates a slice of texts through a provider,
// preserving order 1:1 with the input. The first error aborts the
// batch; callers wanting per-item fault isolation issue individual
// Translate calls instead.
func TranslateTexts(ctx context.Context, provider Provider, texts []string, targetLang, sourceLang string) ([]string, error) {
	if provider == nil {
		return nil, fmt.Errorf("translation provider is nil")
	}
	out := make([]string, len(texts))
	for i, text := range texts {
		resp, err := provider.Translate(ctx, TranslateRequest{
			Text:       text,
			SourceLang: sourceLang,
			TargetLang: targetLang,
		})
		if err != nil {
			return nil, fmt.Errorf("translate item %d: %w", i, err)
		}
		out[i] = resp.Text
	}
	return out, nil
}
