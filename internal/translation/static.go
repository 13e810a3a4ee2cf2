package translation

import (
	"context"
	"fmt"
	"strings"
)

// StaticProvider serves translations from a fixed table and echoes
// unknown texts back unchanged. It backs dry runs and tests where no
// real backend should be called.
type StaticProvider struct {
	table map[string]string
}

func NewStaticProvider(table map[string]string) *StaticProvider {
	normalized := make(map[string]string, len(table))
	for text, translated := range table {
		normalized[strings.TrimSpace(text)] = translated
	}
	return &StaticProvider{table: normalized}
}

func (p *StaticProvider) Name() string {
	return "static"
}

func (p *StaticProvider) SupportedLanguages() []string {
	return SupportedLanguageCodes()
}

func (p *StaticProvider) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, &BackendError{Kind: KindBadRequest, Message: "text is required"}
	}
	targetLang := normalizeLangCode(req.TargetLang)
	if targetLang == "" {
		return nil, &BackendError{Kind: KindBadRequest, Message: "target language is required"}
	}

	translated, ok := p.table[text]
	if !ok {
		translated = req.Text
	}
	return &TranslateResponse{
		Text:         translated,
		SourceLang:   normalizeLangCode(req.SourceLang),
		TargetLang:   targetLang,
		ProviderName: p.Name(),
	}, nil
}

// ModelName identifies the static table for audit records.
func (p *StaticProvider) ModelName() string {
	return fmt.Sprintf("static-table-%d", len(p.table))
}
