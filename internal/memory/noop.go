package memory

import "context"

// Noop never hits and never stores. Force-retranslation runs use it to
// bypass the cache without touching the orchestrator wiring.
type Noop struct{}

func NewNoop() Noop {
	return Noop{}
}

func (Noop) Lookup(ctx context.Context, text, sourceLang, targetLang string) (string, bool, error) {
	return "", false, nil
}

func (Noop) Store(ctx context.Context, sourceTexts, translatedTexts []string, sourceLang, targetLang string) error {
	return nil
}

func (Noop) Clear(ctx context.Context) error {
	return nil
}

func (Noop) Export(ctx context.Context) ([]Entry, error) {
	return nil, nil
}

func (Noop) Import(ctx context.Context, entries []Entry) error {
	return nil
}

func (Noop) Stats(ctx context.Context) (Stats, error) {
	return Stats{}, nil
}
