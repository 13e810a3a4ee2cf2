package translation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// flakyProvider fails with the configured error for the first
// failUntil calls, then succeeds.
type flakyProvider struct {
	failUntil int
	failWith  error
	calls     int
}

func (p *flakyProvider) Name() string                 { return "flaky" }
func (p *flakyProvider) SupportedLanguages() []string { return []string{"en", "es"} }

func (p *flakyProvider) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	p.calls++
	if p.calls <= p.failUntil {
		return nil, p.failWith
	}
	return &TranslateResponse{
		Text:         "[es] " + req.Text,
		SourceLang:   req.SourceLang,
		TargetLang:   req.TargetLang,
		ProviderName: p.Name(),
	}, nil
}

func TestRetryRecoversFromTransientFailures(t *testing.T) {
	t.Parallel()

	inner := &flakyProvider{
		failUntil: 2,
		failWith:  &BackendError{Kind: KindServiceUnavailable, Message: "backend down"},
	}
	provider := WithRetry(inner, RetryPolicy{MaxRetries: 3, BaseDelay: time.Millisecond})

	resp, err := provider.Translate(context.Background(), TranslateRequest{Text: "Hello", TargetLang: "es"})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if resp.Text != "[es] Hello" {
		t.Fatalf("unexpected translation %q", resp.Text)
	}
	if inner.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", inner.calls)
	}
}

func TestRetryGivesUpAfterMaxRetries(t *testing.T) {
	t.Parallel()

	inner := &flakyProvider{
		failUntil: 100,
		failWith:  &BackendError{Kind: KindRateLimited, StatusCode: 429, Message: "slow down"},
	}
	provider := WithRetry(inner, RetryPolicy{MaxRetries: 2, BaseDelay: time.Millisecond})

	_, err := provider.Translate(context.Background(), TranslateRequest{Text: "Hello", TargetLang: "es"})
	if err == nil {
		t.Fatal("expected exhaustion error")
	}
	if inner.calls != 3 {
		t.Fatalf("expected 1 initial + 2 retries = 3 attempts, got %d", inner.calls)
	}
	if !strings.Contains(err.Error(), "after 2 retries") {
		t.Fatalf("exhaustion error should mention the retry budget: %v", err)
	}
	var backendErr *BackendError
	if !errors.As(err, &backendErr) || backendErr.Kind != KindRateLimited {
		t.Fatalf("exhaustion error should wrap the last backend failure: %v", err)
	}
}

func TestRetrySkipsPermanentFailures(t *testing.T) {
	t.Parallel()

	inner := &flakyProvider{
		failUntil: 100,
		failWith:  &BackendError{Kind: KindAuthFailed, StatusCode: 401, Message: "bad key"},
	}
	provider := WithRetry(inner, RetryPolicy{MaxRetries: 5, BaseDelay: time.Millisecond})

	_, err := provider.Translate(context.Background(), TranslateRequest{Text: "Hello", TargetLang: "es"})
	if err == nil {
		t.Fatal("expected error")
	}
	if inner.calls != 1 {
		t.Fatalf("permanent failures must not be retried, got %d attempts", inner.calls)
	}
}

func TestRetryHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	inner := &flakyProvider{
		failUntil: 100,
		failWith:  &BackendError{Kind: KindTimeout, Message: "deadline"},
	}
	provider := WithRetry(inner, RetryPolicy{MaxRetries: 10, BaseDelay: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := provider.Translate(ctx, TranslateRequest{Text: "Hello", TargetLang: "es"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled during backoff, got %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("expected the single pre-backoff attempt, got %d", inner.calls)
	}
}

func TestRetryPolicyDefaults(t *testing.T) {
	t.Parallel()

	normalized := RetryPolicy{}.normalized()
	if normalized.MaxRetries != DefaultMaxRetries {
		t.Fatalf("MaxRetries = %d, want %d", normalized.MaxRetries, DefaultMaxRetries)
	}
	if normalized.BaseDelay != DefaultRetryDelay {
		t.Fatalf("BaseDelay = %v, want %v", normalized.BaseDelay, DefaultRetryDelay)
	}
}
