package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// InMemory is the process-local translation memory. It is shared by
// concurrent orchestrator invocations; all mutations are single
// key insert/update operations under one mutex.
type InMemory struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

func NewInMemory() *InMemory {
	return &InMemory{entries: make(map[string]*Entry)}
}

func (m *InMemory) Lookup(ctx context.Context, text, sourceLang, targetLang string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	key := Key(text, sourceLang, targetLang)
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return "", false, nil
	}
	entry.UsageCount++
	entry.LastUsed = time.Now().UTC()
	return entry.TranslatedText, true, nil
}

func (m *InMemory) Store(ctx context.Context, sourceTexts, translatedTexts []string, sourceLang, targetLang string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(sourceTexts) != len(translatedTexts) {
		return fmt.Errorf("memory store: %d source texts but %d translations", len(sourceTexts), len(translatedTexts))
	}

	now := time.Now().UTC()
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, text := range sourceTexts {
		key := Key(text, sourceLang, targetLang)
		if existing, ok := m.entries[key]; ok {
			existing.TranslatedText = translatedTexts[i]
			continue
		}
		m.entries[key] = &Entry{
			SourceText:     text,
			TranslatedText: translatedTexts[i],
			SourceLang:     sourceLang,
			TargetLang:     targetLang,
			LastUsed:       now,
			CreatedAt:      now,
		}
	}
	return nil
}

func (m *InMemory) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]*Entry)
	return nil
}

func (m *InMemory) Export(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Entry, 0, len(m.entries))
	for _, entry := range m.entries {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SourceLang != out[j].SourceLang {
			return out[i].SourceLang < out[j].SourceLang
		}
		if out[i].TargetLang != out[j].TargetLang {
			return out[i].TargetLang < out[j].TargetLang
		}
		return out[i].SourceText < out[j].SourceText
	})
	return out, nil
}

func (m *InMemory) Import(ctx context.Context, entries []Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, entry := range entries {
		copied := entry
		if copied.CreatedAt.IsZero() {
			copied.CreatedAt = time.Now().UTC()
		}
		m.entries[Key(entry.SourceText, entry.SourceLang, entry.TargetLang)] = &copied
	}
	return nil
}

func (m *InMemory) Stats(ctx context.Context) (Stats, error) {
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := Stats{Entries: len(m.entries)}
	for _, entry := range m.entries {
		stats.TotalHits += entry.UsageCount
	}
	return stats, nil
}
