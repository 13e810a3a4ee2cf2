// Package memory implements the translation memory: a content-
// addressed cache mapping (normalized source text, language pair) to
// a previously produced translation.
package memory

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"glot.fit/lingocart/internal/fragment"
	"glot.fit/lingocart/internal/language"
)

// Entry is one translation-memory row. Usage counters are advisory
// analytics, not authoritative state; lost updates are tolerated.
type Entry struct {
	SourceText     string    `json:"source_text"`
	TranslatedText string    `json:"translated_text"`
	SourceLang     string    `json:"source_lang"`
	TargetLang     string    `json:"target_lang"`
	UsageCount     int64     `json:"usage_count"`
	LastUsed       time.Time `json:"last_used"`
	CreatedAt      time.Time `json:"created_at"`
}

// Stats summarizes cache growth. The memory is never evicted
// automatically, so operators watch these numbers and clear
// explicitly.
type Stats struct {
	Entries   int   `json:"entries"`
	TotalHits int64 `json:"total_hits"`
}

// Memory is the translation-memory contract consulted by the
// orchestrator before every backend call.
type Memory interface {
	// Lookup returns the cached translation for (text, language pair).
	// A hit bumps the entry's usage counter and refreshes its
	// last-used timestamp.
	Lookup(ctx context.Context, text, sourceLang, targetLang string) (string, bool, error)
	// Store writes the paired source and translated texts. The two
	// slices must be the same length.
	Store(ctx context.Context, sourceTexts, translatedTexts []string, sourceLang, targetLang string) error
	// Clear removes every entry.
	Clear(ctx context.Context) error
	// Export snapshots all entries.
	Export(ctx context.Context) ([]Entry, error)
	// Import merges entries into the memory, overwriting same-key rows.
	Import(ctx context.Context, entries []Entry) error
	// Stats reports entry count and accumulated hits.
	Stats(ctx context.Context) (Stats, error)
}

// Key derives the cache key for a text and language pair: the text is
// trimmed and lowercased, then FNV-1a hashed. Hash collisions only
// cause a spurious cache hit, which is degraded but safe.
func Key(text, sourceLang, targetLang string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fragment.NormalizeKey(text)))
	return fmt.Sprintf("%s-%s-%x", language.NormalizeCode(sourceLang), language.NormalizeCode(targetLang), h.Sum64())
}
