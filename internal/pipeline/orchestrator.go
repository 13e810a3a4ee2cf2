// Package pipeline drives document translation end to end: parser
// selection, fragment extraction, batched backend calls merged with
// translation-memory hits, and structure-preserving reconstruction.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"glot.fit/lingocart/internal/format"
	"glot.fit/lingocart/internal/fragment"
	"glot.fit/lingocart/internal/memory"
	"glot.fit/lingocart/internal/translation"
)

const (
	DefaultBatchSize  = 10
	DefaultBatchDelay = 100 * time.Millisecond
)

// Options tunes batching. BatchDelay is the static backpressure
// between successive batches; it is not adaptive to rate-limit
// responses.
type Options struct {
	BatchSize  int
	BatchDelay time.Duration
	// DetectLanguage fills in a missing source language from a text
	// sample. Optional.
	DetectLanguage func(text string) string
}

func (o Options) normalized() Options {
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.BatchDelay < 0 {
		o.BatchDelay = DefaultBatchDelay
	}
	return o
}

// Stats counts per-fragment outcomes of one translation run.
type Stats struct {
	Total      int `json:"total"`
	Translated int `json:"translated"`
	Cached     int `json:"cached"`
	Failed     int `json:"failed"`
	Skipped    int `json:"skipped"`
}

// ValidationIssue is a non-fatal structural finding surfaced with the
// result rather than raised as an error.
type ValidationIssue struct {
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// DocumentResult packages one completed document translation.
type DocumentResult struct {
	Format            string              `json:"format"`
	SourceContent     string              `json:"source_content"`
	TranslatedContent string              `json:"translated_content"`
	SourceLang        string              `json:"source_lang"`
	TargetLang        string              `json:"target_lang"`
	Provider          string              `json:"provider"`
	Fragments         []fragment.Fragment `json:"fragments"`
	Stats             Stats               `json:"stats"`
	Issues            []ValidationIssue   `json:"issues,omitempty"`
	BlockPriorities   map[string]int      `json:"block_priorities,omitempty"`
	Duration          time.Duration       `json:"duration_ms"`
}

// Orchestrator owns fragment lifecycles for the duration of one
// processing call. The translation memory is the only state shared
// across invocations.
type Orchestrator struct {
	formats   *format.Registry
	providers *translation.Registry
	memory    memory.Memory
	logger    zerolog.Logger
	opts      Options
}

func NewOrchestrator(formats *format.Registry, providers *translation.Registry, mem memory.Memory, logger zerolog.Logger, opts Options) *Orchestrator {
	return &Orchestrator{
		formats:   formats,
		providers: providers,
		memory:    mem,
		logger:    logger,
		opts:      opts.normalized(),
	}
}

// TranslateFragments populates TranslatedText on a copy of the input
// list, preserving length and order. Fragments are processed in
// fixed-size batches; within a batch the backend calls run
// concurrently and results are re-associated positionally. A failed
// fragment degrades to its original text and never fails the batch.
func (o *Orchestrator) TranslateFragments(ctx context.Context, frags []fragment.Fragment, targetLang, sourceLang, providerName string) ([]fragment.Fragment, Stats, error) {
	return o.translateFragments(ctx, frags, targetLang, sourceLang, providerName, nil)
}

func (o *Orchestrator) translateFragments(ctx context.Context, frags []fragment.Fragment, targetLang, sourceLang, providerName string, cancelled func() bool) ([]fragment.Fragment, Stats, error) {
	if o == nil {
		return nil, Stats{}, fmt.Errorf("orchestrator is not initialized")
	}
	targetLang = strings.TrimSpace(targetLang)
	if targetLang == "" {
		return nil, Stats{}, fmt.Errorf("target language is required")
	}

	provider, err := o.providers.Provider(providerName)
	if err != nil {
		return nil, Stats{}, err
	}

	out := make([]fragment.Fragment, len(frags))
	copy(out, frags)

	stats := Stats{Total: len(out)}
	for start := 0; start < len(out); start += o.opts.BatchSize {
		if cancelled != nil && cancelled() {
			stats.Skipped = len(out) - start
			return out, stats, context.Canceled
		}
		if start > 0 && o.opts.BatchDelay > 0 {
			select {
			case <-ctx.Done():
				return out, stats, ctx.Err()
			case <-time.After(o.opts.BatchDelay):
			}
		}

		end := start + o.opts.BatchSize
		if end > len(out) {
			end = len(out)
		}
		batchStats := o.translateBatch(ctx, out[start:end], targetLang, sourceLang, provider)
		stats.Translated += batchStats.Translated
		stats.Cached += batchStats.Cached
		stats.Failed += batchStats.Failed
	}
	return out, stats, nil
}

// translateBatch resolves one batch in place: memory hits first, then
// concurrent backend calls for the misses, then memory write-back for
// the fresh translations.
func (o *Orchestrator) translateBatch(ctx context.Context, batch []fragment.Fragment, targetLang, sourceLang string, provider translation.Provider) Stats {
	var stats Stats

	pending := make([]int, 0, len(batch))
	for i := range batch {
		cached, hit, err := o.memory.Lookup(ctx, batch[i].OriginalText, sourceLang, targetLang)
		if err != nil {
			o.logger.Warn().Err(err).Str("fragment", batch[i].ID).Msg("translation memory lookup failed")
		}
		if hit {
			batch[i].TranslatedText = cached
			stats.Cached++
			continue
		}
		pending = append(pending, i)
	}

	failed := make([]bool, len(batch))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.opts.BatchSize)
	for _, idx := range pending {
		g.Go(func() error {
			resp, err := provider.Translate(gctx, translation.TranslateRequest{
				Text:       batch[idx].OriginalText,
				SourceLang: sourceLang,
				TargetLang: targetLang,
			})
			if err != nil {
				// Fragment-level degradation: keep the original text.
				o.logger.Warn().Err(err).
					Str("fragment", batch[idx].ID).
					Str("path", batch[idx].Path).
					Msg("fragment translation failed, keeping original")
				batch[idx].TranslatedText = batch[idx].OriginalText
				failed[idx] = true
				return nil
			}
			batch[idx].TranslatedText = strings.TrimSpace(resp.Text)
			return nil
		})
	}
	_ = g.Wait()

	var freshSource, freshTranslated []string
	for _, idx := range pending {
		if failed[idx] {
			stats.Failed++
			continue
		}
		stats.Translated++
		freshSource = append(freshSource, batch[idx].OriginalText)
		freshTranslated = append(freshTranslated, batch[idx].TranslatedText)
	}
	if len(freshSource) > 0 {
		if err := o.memory.Store(ctx, freshSource, freshTranslated, sourceLang, targetLang); err != nil {
			o.logger.Warn().Err(err).Msg("translation memory write-back failed")
		}
	}
	return stats
}

// TranslateDocument is the document-level entry point: select parser,
// extract, translate, rebuild, and validate the result's structure.
func (o *Orchestrator) TranslateDocument(ctx context.Context, content, targetLang, sourceLang, contentType, providerName string) (*DocumentResult, error) {
	return o.translateDocument(ctx, content, targetLang, sourceLang, contentType, providerName, nil)
}

func (o *Orchestrator) translateDocument(ctx context.Context, content, targetLang, sourceLang, contentType, providerName string, cancelled func() bool) (*DocumentResult, error) {
	if o == nil {
		return nil, fmt.Errorf("orchestrator is not initialized")
	}
	started := time.Now()

	var parser format.Parser
	if strings.TrimSpace(contentType) != "" {
		resolved, err := o.formats.ByType(contentType)
		if err != nil {
			return nil, err
		}
		parser = resolved
	} else {
		parser = o.formats.Detect(content)
	}

	frags := parser.Extract(content)
	if len(frags) == 0 {
		// Parse failure or nothing translatable: degrade to one
		// plain-text fragment instead of erroring.
		parser = format.NewPlainTextParser()
		frags = parser.Extract(content)
	}

	if strings.TrimSpace(sourceLang) == "" && o.opts.DetectLanguage != nil {
		sourceLang = o.opts.DetectLanguage(languageSample(frags))
	}

	translated, stats, err := o.translateFragments(ctx, frags, targetLang, sourceLang, providerName, cancelled)
	if err != nil {
		return nil, err
	}

	rebuilt, err := parser.Rebuild(content, translated)
	if err != nil {
		return nil, fmt.Errorf("rebuild %s document: %w", parser.Type(), err)
	}

	result := &DocumentResult{
		Format:            parser.Type(),
		SourceContent:     content,
		TranslatedContent: rebuilt,
		SourceLang:        sourceLang,
		TargetLang:        targetLang,
		Provider:          o.resolveProviderName(providerName),
		Fragments:         translated,
		Stats:             stats,
		Duration:          time.Since(started),
	}
	result.Issues = o.validateStructure(parser, content, rebuilt)
	result.BlockPriorities = editorBlockPriorities(parser, content)
	return result, nil
}

// validateStructure reparses source and translated documents and
// compares fragment counts. A mismatch is a warning with remediation
// advice, never a hard failure.
func (o *Orchestrator) validateStructure(parser format.Parser, source, translated string) []ValidationIssue {
	var issues []ValidationIssue
	if !parser.Validate(translated) {
		issues = append(issues, ValidationIssue{
			Message:    fmt.Sprintf("translated document no longer validates as %s", parser.Type()),
			Suggestion: "review the translated output manually before publishing",
		})
		return issues
	}

	sourceCount := len(parser.Extract(source))
	translatedCount := len(parser.Extract(translated))
	if sourceCount != translatedCount {
		issues = append(issues, ValidationIssue{
			Message:    fmt.Sprintf("fragment count changed from %d to %d after translation", sourceCount, translatedCount),
			Suggestion: "a translation may have introduced or removed markup; flag the record for review",
		})
	}
	return issues
}

// editorBlockPriorities tags Editor.js documents with per-block-type
// review priorities so translators see the most visible copy first.
func editorBlockPriorities(parser format.Parser, content string) map[string]int {
	editor, ok := parser.(*format.EditorJSParser)
	if !ok {
		return nil
	}
	types := editor.BlockTypes(content)
	if len(types) == 0 {
		return nil
	}
	priorities := make(map[string]int, len(types))
	for _, blockType := range types {
		priorities[blockType] = format.BlockPriority(blockType)
	}
	return priorities
}

// languageSample concatenates fragment text until there is enough
// material for the language detector.
func languageSample(frags []fragment.Fragment) string {
	var b strings.Builder
	for _, f := range frags {
		if b.Len() > 400 {
			break
		}
		b.WriteString(f.OriginalText)
		b.WriteString(" ")
	}
	return strings.TrimSpace(b.String())
}

func (o *Orchestrator) resolveProviderName(requested string) string {
	if strings.TrimSpace(requested) != "" {
		return strings.ToLower(strings.TrimSpace(requested))
	}
	return o.providers.DefaultProvider()
}
