package translation

import (
	"context"
	"fmt"
	"time"
)

const (
	DefaultMaxRetries = 3
	DefaultRetryDelay = 500 * time.Millisecond
)

// RetryPolicy retries transient backend failures with exponential
// backoff: delay * 2^attempt, up to MaxRetries additional attempts.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxRetries <= 0 {
		p.MaxRetries = DefaultMaxRetries
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = DefaultRetryDelay
	}
	return p
}

// RetryingProvider decorates a provider with the retry policy.
// Non-transient failures propagate immediately.
type RetryingProvider struct {
	inner  Provider
	policy RetryPolicy
}

func WithRetry(inner Provider, policy RetryPolicy) *RetryingProvider {
	return &RetryingProvider{inner: inner, policy: policy.normalized()}
}

func (p *RetryingProvider) Name() string {
	if p == nil || p.inner == nil {
		return ""
	}
	return p.inner.Name()
}

// ModelName forwards the inner provider's model identifier when it has one.
func (p *RetryingProvider) ModelName() string {
	if p == nil || p.inner == nil {
		return ""
	}
	if namer, ok := p.inner.(interface{ ModelName() string }); ok {
		return namer.ModelName()
	}
	return ""
}

func (p *RetryingProvider) SupportedLanguages() []string {
	if p == nil || p.inner == nil {
		return nil
	}
	return p.inner.SupportedLanguages()
}

func (p *RetryingProvider) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	if p == nil || p.inner == nil {
		return nil, fmt.Errorf("retrying provider is not initialized")
	}

	var lastErr error
	for attempt := 0; attempt <= p.policy.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := p.policy.BaseDelay * (1 << (attempt - 1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		resp, err := p.inner.Translate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if !IsTransient(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("translation failed after %d retries: %w", p.policy.MaxRetries, lastErr)
}
