package pipeline

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"glot.fit/lingocart/internal/format"
	"glot.fit/lingocart/internal/fragment"
	"glot.fit/lingocart/internal/memory"
	"glot.fit/lingocart/internal/translation"
)

// stubProvider prefixes texts with the target language and can fail
// selected inputs.
type stubProvider struct {
	mu       sync.Mutex
	calls    int
	failText string
}

func (p *stubProvider) Name() string {
	return "stub"
}

func (p *stubProvider) SupportedLanguages() []string {
	return []string{"en", "es"}
}

func (p *stubProvider) Translate(ctx context.Context, req translation.TranslateRequest) (*translation.TranslateResponse, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()

	if p.failText != "" && req.Text == p.failText {
		return nil, &translation.BackendError{Kind: translation.KindServiceUnavailable, Message: "stub failure"}
	}
	return &translation.TranslateResponse{
		Text:         "[" + req.TargetLang + "] " + req.Text,
		SourceLang:   req.SourceLang,
		TargetLang:   req.TargetLang,
		ProviderName: p.Name(),
	}, nil
}

func (p *stubProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func newTestOrchestrator(t *testing.T, provider translation.Provider, mem memory.Memory, opts Options) *Orchestrator {
	t.Helper()
	registry := translation.NewRegistry(provider.Name())
	if err := registry.Register(provider); err != nil {
		t.Fatalf("register provider: %v", err)
	}
	if opts.BatchDelay == 0 {
		opts.BatchDelay = time.Millisecond
	}
	return NewOrchestrator(format.NewRegistry(), registry, mem, zerolog.Nop(), opts)
}

func textFragments(texts ...string) []fragment.Fragment {
	frags := make([]fragment.Fragment, len(texts))
	for i, text := range texts {
		frags[i] = fragment.Fragment{
			ID:           "frag-" + text,
			OriginalText: text,
			Path:         "text",
			Type:         fragment.TypeText,
		}
	}
	return frags
}

func TestTranslateFragmentsPreservesOrder(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{}
	o := newTestOrchestrator(t, provider, memory.NewInMemory(), Options{BatchSize: 2})

	texts := []string{"first line", "second line", "third line", "fourth line", "fifth line"}
	out, stats, err := o.TranslateFragments(context.Background(), textFragments(texts...), "es", "en", "")
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	if len(out) != len(texts) {
		t.Fatalf("expected %d fragments, got %d", len(texts), len(out))
	}
	for i, f := range out {
		want := "[es] " + texts[i]
		if f.TranslatedText != want {
			t.Errorf("fragment %d = %q, want %q", i, f.TranslatedText, want)
		}
	}
	if stats.Total != 5 || stats.Translated != 5 || stats.Failed != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestTranslateFragmentsFaultIsolation(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{failText: "broken text"}
	o := newTestOrchestrator(t, provider, memory.NewInMemory(), Options{BatchSize: 3})

	out, stats, err := o.TranslateFragments(
		context.Background(),
		textFragments("good morning", "broken text", "good evening"),
		"es", "en", "",
	)
	if err != nil {
		t.Fatalf("batch must not fail on a single fragment: %v", err)
	}
	if out[1].TranslatedText != "broken text" {
		t.Fatalf("failed fragment must degrade to its original text, got %q", out[1].TranslatedText)
	}
	if out[0].TranslatedText != "[es] good morning" || out[2].TranslatedText != "[es] good evening" {
		t.Fatalf("healthy fragments must still translate: %+v", out)
	}
	if stats.Failed != 1 || stats.Translated != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestTranslateFragmentsUsesMemory(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{}
	mem := memory.NewInMemory()
	o := newTestOrchestrator(t, provider, mem, Options{BatchSize: 10})

	frags := textFragments("hello world", "goodbye world")
	if _, _, err := o.TranslateFragments(context.Background(), frags, "es", "en", ""); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	firstCalls := provider.callCount()
	if firstCalls != 2 {
		t.Fatalf("expected 2 backend calls, got %d", firstCalls)
	}

	out, stats, err := o.TranslateFragments(context.Background(), frags, "es", "en", "")
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if provider.callCount() != firstCalls {
		t.Fatalf("second run must be served from memory, calls went %d -> %d", firstCalls, provider.callCount())
	}
	if stats.Cached != 2 || stats.Translated != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if out[0].TranslatedText != "[es] hello world" {
		t.Fatalf("cached translation mismatch: %q", out[0].TranslatedText)
	}
}

func TestTranslateFragmentsRequiresTargetLang(t *testing.T) {
	t.Parallel()

	o := newTestOrchestrator(t, &stubProvider{}, memory.NewInMemory(), Options{})
	if _, _, err := o.TranslateFragments(context.Background(), textFragments("hello world"), "", "en", ""); err == nil {
		t.Fatal("expected error for missing target language")
	}
}

func TestTranslateDocumentEditorJS(t *testing.T) {
	t.Parallel()

	doc := `{"blocks": [{"type": "header", "data": {"text": "Our story", "level": 2}}, {"type": "paragraph", "data": {"text": "Hello world"}}]}`
	o := newTestOrchestrator(t, &stubProvider{}, memory.NewInMemory(), Options{})

	result, err := o.TranslateDocument(context.Background(), doc, "es", "en", "", "")
	if err != nil {
		t.Fatalf("translate document failed: %v", err)
	}
	if result.Format != format.TypeEditorJS {
		t.Fatalf("expected editorjs format, got %q", result.Format)
	}
	if !strings.Contains(result.TranslatedContent, "[es] Hello world") {
		t.Fatalf("paragraph not translated: %s", result.TranslatedContent)
	}
	if len(result.Issues) != 0 {
		t.Fatalf("unexpected validation issues: %+v", result.Issues)
	}
	if result.BlockPriorities["header"] != 9 || result.BlockPriorities["paragraph"] != 8 {
		t.Fatalf("unexpected block priorities: %+v", result.BlockPriorities)
	}
	if result.Stats.Translated != 2 {
		t.Fatalf("unexpected stats: %+v", result.Stats)
	}
}

func TestTranslateDocumentPlainTextFallback(t *testing.T) {
	t.Parallel()

	o := newTestOrchestrator(t, &stubProvider{}, memory.NewInMemory(), Options{})

	result, err := o.TranslateDocument(context.Background(), "Just a plain sentence.", "es", "en", "", "")
	if err != nil {
		t.Fatalf("translate document failed: %v", err)
	}
	if result.Format != format.TypePlainText {
		t.Fatalf("expected plaintext fallback, got %q", result.Format)
	}
	if result.TranslatedContent != "[es] Just a plain sentence." {
		t.Fatalf("unexpected translated content: %q", result.TranslatedContent)
	}
}

func TestTranslateDocumentDetectsSourceLanguage(t *testing.T) {
	t.Parallel()

	detected := ""
	o := newTestOrchestrator(t, &stubProvider{}, memory.NewInMemory(), Options{
		DetectLanguage: func(text string) string {
			detected = text
			return "en"
		},
	})

	result, err := o.TranslateDocument(context.Background(), "Hello from the store.", "es", "", "", "")
	if err != nil {
		t.Fatalf("translate document failed: %v", err)
	}
	if result.SourceLang != "en" {
		t.Fatalf("expected detected source language, got %q", result.SourceLang)
	}
	if !strings.Contains(detected, "Hello from the store.") {
		t.Fatalf("detector must receive fragment text, got %q", detected)
	}
}

func TestTranslateDocumentUnknownContentType(t *testing.T) {
	t.Parallel()

	o := newTestOrchestrator(t, &stubProvider{}, memory.NewInMemory(), Options{})
	if _, err := o.TranslateDocument(context.Background(), "Hello", "es", "en", "docx", ""); err == nil {
		t.Fatal("expected error for unknown content type")
	}
}

func TestStartJobCompletes(t *testing.T) {
	t.Parallel()

	o := newTestOrchestrator(t, &stubProvider{}, memory.NewInMemory(), Options{})
	job := o.StartJob(context.Background(), JobRequest{
		Content:    "A plain text document.",
		TargetLang: "es",
		SourceLang: "en",
	})
	if job.ID == "" {
		t.Fatal("job must get an identifier")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := job.Wait(ctx); err != nil {
		t.Fatalf("job did not finish: %v", err)
	}
	if got := job.Status(); got != StatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", got)
	}

	result, err := job.Result()
	if err != nil {
		t.Fatalf("job result error: %v", err)
	}
	if result == nil || result.TranslatedContent != "[es] A plain text document." {
		t.Fatalf("unexpected job result: %+v", result)
	}
	if !job.Approve() {
		t.Fatal("completed job must be approvable")
	}
	if got := job.Status(); got != StatusApproved {
		t.Fatalf("expected APPROVED, got %s", got)
	}
}

// gatedProvider blocks its first call until released, letting a test
// cancel a job while the first batch is in flight.
type gatedProvider struct {
	stubProvider
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (p *gatedProvider) Translate(ctx context.Context, req translation.TranslateRequest) (*translation.TranslateResponse, error) {
	p.once.Do(func() {
		close(p.started)
		<-p.release
	})
	return p.stubProvider.Translate(ctx, req)
}

func TestJobCancelBetweenBatches(t *testing.T) {
	t.Parallel()

	provider := &gatedProvider{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	o := newTestOrchestrator(t, provider, memory.NewInMemory(), Options{BatchSize: 1})

	// Four list items so the run spans four single-fragment batches.
	job := o.StartJob(context.Background(), JobRequest{
		Content:    "- one two\n- three four\n- five six\n- seven eight",
		TargetLang: "es",
		SourceLang: "en",
	})

	<-provider.started
	job.Cancel()
	close(provider.release)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := job.Wait(ctx); err != nil {
		t.Fatalf("job did not finish: %v", err)
	}
	if got := job.Status(); got != StatusFailed {
		t.Fatalf("cancelled job must end FAILED, got %s", got)
	}
	if job.Approve() {
		t.Fatal("failed job must not be approvable")
	}
	// The first batch completed before the flag was observed; the rest
	// were skipped.
	if calls := provider.callCount(); calls >= 4 {
		t.Fatalf("cancellation must skip remaining batches, got %d calls", calls)
	}
}

func TestJobPendingResultIsNil(t *testing.T) {
	t.Parallel()

	o := newTestOrchestrator(t, &stubProvider{}, memory.NewInMemory(), Options{})
	job := o.StartJob(context.Background(), JobRequest{Content: "Hello there friend.", TargetLang: "es"})

	// Status is one of the running states until the goroutine finishes.
	switch job.Status() {
	case StatusPending, StatusInProgress, StatusCompleted:
	default:
		t.Fatalf("unexpected early status: %s", job.Status())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := job.Wait(ctx); err != nil {
		t.Fatalf("job did not finish: %v", err)
	}
}
