package advice

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kjstillabower/irrigation-advisor/internal/models"
	"github.com/kjstillabower/irrigation-advisor/internal/observability"
)

// Generator produces irrigation advice text for a crop under given conditions.
type Generator interface {
	GenerateAdvice(ctx context.Context, crop string, weather models.WeatherRecord) (string, error)
}

// Options configures an OpenAIGenerator.
type Options struct {
	APIKey      string
	Model       string
	BaseURL     string // empty uses the provider default
	Timeout     time.Duration
	MaxTokens   int
	Temperature float32
}

// OpenAIGenerator asks a chat completion model for advice. One GenerateAdvice is
// exactly one upstream call.
type OpenAIGenerator struct {
	client  *openai.Client
	opts    Options
	limiter *rate.Limiter
	logger  *zap.Logger
}

func NewOpenAIGenerator(opts Options) (*OpenAIGenerator, error) {
	if opts.APIKey == "" {
		return nil, &Error{Kind: KindAuth, Message: "API key is required"}
	}
	if opts.Model == "" {
		return nil, errors.New("advice model is required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 800
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	}
	cfg.HTTPClient = &http.Client{}

	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(cfg),
		opts:   opts,
		logger: zap.NewNop(),
	}, nil
}

// SetLimiter throttles outbound calls. A nil limiter disables throttling.
func (g *OpenAIGenerator) SetLimiter(l *rate.Limiter) {
	g.limiter = l
}

// SetLogger replaces the no-op logger.
func (g *OpenAIGenerator) SetLogger(l *zap.Logger) {
	if l != nil {
		g.logger = l
	}
}

// GenerateAdvice returns trimmed, non-empty advice text. Failures are *Error, except
// cancellation of ctx by the caller, which is returned as ctx.Err() wrapped.
func (g *OpenAIGenerator) GenerateAdvice(ctx context.Context, crop string, weather models.WeatherRecord) (string, error) {
	crop = strings.TrimSpace(crop)
	if crop == "" {
		return "", &Error{Kind: KindProvider, Message: "crop type must be a non-empty string"}
	}

	if g.limiter != nil {
		waitStart := time.Now()
		err := g.limiter.Wait(ctx)
		observability.ThrottleWaitSeconds.WithLabelValues("advice").Observe(time.Since(waitStart).Seconds())
		if err != nil {
			if ctx.Err() != nil {
				return "", fmt.Errorf("advice throttle: %w", ctx.Err())
			}
			return "", g.record(&Error{Kind: KindProvider, Message: err.Error(), Err: err})
		}
	}

	req := openai.ChatCompletionRequest{
		Model: g.opts.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(crop, weather)},
		},
		Temperature: g.opts.Temperature,
		MaxTokens:   g.opts.MaxTokens,
	}

	start := time.Now()
	reqCtx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
	defer cancel()

	resp, err := g.client.CreateChatCompletion(reqCtx, req)
	duration := time.Since(start)
	if err != nil {
		observability.AdviceAPICallsTotal.WithLabelValues(statusFromError(err)).Inc()
		observability.AdviceAPIDuration.WithLabelValues("error").Observe(duration.Seconds())
		if ctx.Err() != nil {
			return "", fmt.Errorf("advice request: %w", ctx.Err())
		}
		return "", g.record(classify(err))
	}
	observability.AdviceAPICallsTotal.WithLabelValues("success").Inc()
	observability.AdviceAPIDuration.WithLabelValues("success").Observe(duration.Seconds())
	observability.AdviceTokensTotal.WithLabelValues("prompt").Add(float64(resp.Usage.PromptTokens))
	observability.AdviceTokensTotal.WithLabelValues("completion").Add(float64(resp.Usage.CompletionTokens))

	if len(resp.Choices) == 0 {
		return "", g.record(&Error{Kind: KindEmptyResponse})
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", g.record(&Error{Kind: KindEmptyResponse})
	}

	g.logger.Debug("advice generated",
		zap.String("model", g.opts.Model),
		zap.Duration("duration", duration),
		zap.Int("length", len(text)),
		zap.Int("sections", len(ParseSections(text))))
	return text, nil
}

func (g *OpenAIGenerator) record(err *Error) error {
	observability.AdviceAPIErrorsTotal.WithLabelValues(string(err.Kind)).Inc()
	g.logger.Warn("advice generation failed",
		zap.String("kind", string(err.Kind)),
		zap.String("model", g.opts.Model),
		zap.Error(err.Err))
	return err
}

// classify maps a provider failure into the advice taxonomy. Structured fields from
// the provider win; message matching covers proxies that rewrite the error body.
func classify(err error) *Error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		code := codeString(apiErr.Code)
		switch {
		case apiErr.HTTPStatusCode == http.StatusUnauthorized || code == "invalid_api_key" || apiErr.Type == "authentication_error":
			return &Error{Kind: KindAuth, Message: apiErr.Message, Err: err}
		case code == "insufficient_quota" || apiErr.Type == "insufficient_quota":
			return &Error{Kind: KindQuotaExceeded, Message: apiErr.Message, Err: err}
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests || code == "rate_limit_exceeded":
			return &Error{Kind: KindRateLimited, Message: apiErr.Message, Err: err}
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		switch reqErr.HTTPStatusCode {
		case http.StatusUnauthorized:
			return &Error{Kind: KindAuth, Message: err.Error(), Err: err}
		case http.StatusTooManyRequests:
			if !strings.Contains(strings.ToLower(err.Error()), "quota") {
				return &Error{Kind: KindRateLimited, Message: err.Error(), Err: err}
			}
		}
	}

	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "authentication") || strings.Contains(lower, "api_key") || strings.Contains(lower, "api key"):
		return &Error{Kind: KindAuth, Message: msg, Err: err}
	case strings.Contains(lower, "quota"):
		return &Error{Kind: KindQuotaExceeded, Message: msg, Err: err}
	case strings.Contains(lower, "rate_limit") || strings.Contains(lower, "rate limit"):
		return &Error{Kind: KindRateLimited, Message: msg, Err: err}
	}
	return &Error{Kind: KindProvider, Message: msg, Err: err}
}

func codeString(code any) string {
	if code == nil {
		return ""
	}
	return fmt.Sprint(code)
}

func statusFromError(err error) string {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return observability.StatusLabel(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return observability.StatusLabel(reqErr.HTTPStatusCode)
	}
	return "error"
}
