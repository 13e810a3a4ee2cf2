package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

const (
	// DefaultEndpoint points to a local OpenAI-compatible translation endpoint.
	DefaultEndpoint = "http://127.0.0.1:8845/v1"
	// DefaultModel is the default translation model name.
	DefaultModel = "tencent/HY-MT1.5-7B"

	defaultHTTPTimeout = 120 * time.Second
)

// HTTPProvider translates text by calling an OpenAI-compatible chat
// completions endpoint. Failures are classified into the backend
// error taxonomy; a circuit breaker sheds load while the endpoint is
// failing hard.
type HTTPProvider struct {
	endpointURL string
	model       string
	client      *http.Client
	breaker     *gobreaker.CircuitBreaker
}

// NewHTTPProviderFromEnv builds an HTTP provider from env vars.
//   - TRANSLATION_ENDPOINT (default: http://127.0.0.1:8845/v1)
//   - TRANSLATION_MODEL (default: tencent/HY-MT1.5-7B)
func NewHTTPProviderFromEnv() *HTTPProvider {
	endpoint := strings.TrimSpace(os.Getenv("TRANSLATION_ENDPOINT"))
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	model := strings.TrimSpace(os.Getenv("TRANSLATION_MODEL"))
	if model == "" {
		model = DefaultModel
	}
	return NewHTTPProvider(endpoint, model)
}

// NewHTTPProvider builds an HTTP provider for the given endpoint/model.
func NewHTTPProvider(endpoint, model string) *HTTPProvider {
	normalizedEndpoint := normalizeEndpoint(endpoint)
	trimmedModel := strings.TrimSpace(model)
	if trimmedModel == "" {
		trimmedModel = DefaultModel
	}
	return &HTTPProvider{
		endpointURL: chatCompletionsURL(normalizedEndpoint),
		model:       trimmedModel,
		client: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "translation-backend",
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			Timeout: 30 * time.Second,
		}),
	}
}

func (p *HTTPProvider) Name() string {
	return "http"
}

// ModelName returns the configured model identifier.
func (p *HTTPProvider) ModelName() string {
	if p == nil {
		return ""
	}
	return p.model
}

func (p *HTTPProvider) SupportedLanguages() []string {
	return SupportedLanguageCodes()
}

func (p *HTTPProvider) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	if p == nil {
		return nil, fmt.Errorf("http provider is nil")
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, &BackendError{Kind: KindBadRequest, Message: "text is required"}
	}

	sourceLang := normalizeLangCode(req.SourceLang)
	targetLang := normalizeLangCode(req.TargetLang)
	if targetLang == "" {
		return nil, &BackendError{Kind: KindBadRequest, Message: "target language is required"}
	}

	prompt := buildPrompt(text, sourceLang, targetLang)
	body, err := json.Marshal(chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
		TopP:        0.6,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal translation request: %w", err)
	}

	started := time.Now()
	result, err := p.breaker.Execute(func() (any, error) {
		return p.send(ctx, body)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, &BackendError{Kind: KindServiceUnavailable, Message: "circuit breaker open: " + err.Error()}
		}
		return nil, err
	}

	translated := result.(string)
	latency := time.Since(started).Milliseconds()
	return &TranslateResponse{
		Text:         translated,
		SourceLang:   sourceLang,
		TargetLang:   targetLang,
		ProviderName: p.Name(),
		LatencyMs:    latency,
	}, nil
}

func (p *HTTPProvider) send(ctx context.Context, body []byte) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpointURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build translation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", &BackendError{Kind: classifyTransportError(err), Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &BackendError{Kind: KindNetworkError, Message: "read translation response: " + err.Error()}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := strings.TrimSpace(string(respBody))
		var errPayload chatErrorResponse
		if unmarshalErr := json.Unmarshal(respBody, &errPayload); unmarshalErr == nil {
			if msg := strings.TrimSpace(errPayload.Error.Message); msg != "" {
				message = msg
			}
		}
		return "", &BackendError{
			Kind:       classifyStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Message:    message,
		}
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode translation response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("translation response missing choices")
	}

	translated := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if translated == "" {
		return "", fmt.Errorf("translation response was empty")
	}
	return translated, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	TopP        float64       `json:"top_p,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type chatErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func buildPrompt(text, sourceLang, targetLang string) string {
	target := targetLanguageLabel(targetLang)
	if isChineseLanguage(sourceLang) || isChineseLanguage(targetLang) {
		// zh<=>xx prompt template.
		return fmt.Sprintf("将以下文本翻译为%s，注意只需要输出翻译后的结果，不要额外解释：\n\n%s", target.chinese, text)
	}
	// xx<=>xx prompt template.
	return fmt.Sprintf("Translate the following segment into %s, without additional explanation.\n\n%s", target.english, text)
}

func targetLanguageLabel(lang string) languageLabel {
	normalized := normalizeLangCode(lang)
	if labels, ok := languageLabels[normalized]; ok {
		return labels
	}
	fallback := strings.TrimSpace(lang)
	if fallback == "" {
		fallback = "English"
	}
	return languageLabel{english: fallback, chinese: fallback}
}

func isChineseLanguage(lang string) bool {
	return normalizeLangCode(lang) == "zh"
}

func normalizeEndpoint(raw string) string {
	endpoint := strings.TrimSpace(raw)
	if endpoint == "" {
		return DefaultEndpoint
	}
	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}

	parsed, err := url.Parse(endpoint)
	if err != nil || strings.TrimSpace(parsed.Host) == "" {
		return DefaultEndpoint
	}
	parsed.Path = strings.TrimRight(parsed.Path, "/")
	if parsed.Path == "" {
		parsed.Path = "/v1"
	}
	return parsed.String()
}

func chatCompletionsURL(endpoint string) string {
	parsed, err := url.Parse(endpoint)
	if err != nil || strings.TrimSpace(parsed.Host) == "" {
		return DefaultEndpoint + "/chat/completions"
	}

	path := strings.TrimRight(parsed.Path, "/")
	switch {
	case strings.HasSuffix(path, "/chat/completions"):
		parsed.Path = path
	case strings.HasSuffix(path, "/v1"):
		parsed.Path = path + "/chat/completions"
	case path == "":
		parsed.Path = "/v1/chat/completions"
	default:
		parsed.Path = path + "/v1/chat/completions"
	}

	return parsed.String()
}
