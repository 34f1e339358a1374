package llm

// Package llm wraps the hosted language-model endpoint. This is the external
// collaborator boundary: prompt in, raw text out, or a categorized error.

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"coverapi/internal/apperr"
	"coverapi/internal/config"
)

const (
	defaultModel     = "gpt-4o-mini"
	defaultMaxTokens = 1000
	defaultTimeout   = 60 * time.Second
	pingTimeout      = 5 * time.Second
)

// Client is the request/response contract with the model endpoint.
type Client interface {
	// Complete sends a single-shot prompt and returns the raw response text.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	// Ping verifies connectivity to the endpoint without a billable completion.
	Ping(ctx context.Context) error
}

type openAIClient struct {
	api         *openai.Client
	logger      *logrus.Logger
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	maxRetries  int
}

// New creates a Client from config. The API key is required; all other
// settings fall back to documented defaults.
func New(cfg config.ModelConfig, logger *logrus.Logger) (Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("llm: API key is required")
	}
	model := strings.TrimSpace(cfg.Name)
	if model == "" {
		model = defaultModel
	}
	temp := float32(cfg.Temperature)
	if temp < 0 {
		temp = 0
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	openaiCfg := openai.DefaultConfig(apiKey)
	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" {
		openaiCfg.BaseURL = baseURL
	}
	openaiCfg.HTTPClient = &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	return &openAIClient{
		api:         openai.NewClientWithConfig(openaiCfg),
		logger:      logger,
		model:       model,
		temperature: temp,
		maxTokens:   maxTokens,
		timeout:     timeout,
		maxRetries:  maxRetries,
	}, nil
}

// Complete sends the prompt and returns the model's raw output. The call is
// bounded by the configured timeout. Transport, auth, quota and timeout
// failures come back as apperr.ModelUnavailable; a response with no choices
// is apperr.MalformedModelOutput. Retries are bounded by MaxRetries and
// default to none so a real outage is not masked by duplicate billable calls.
func (c *openAIClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if systemPrompt == "" || userPrompt == "" {
		return "", fmt.Errorf("llm: prompts must be provided")
	}

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.WithField("attempt", attempt).Warn("retrying model call")
		}

		text, err := c.complete(ctx, req)
		if err == nil {
			return text, nil
		}
		lastErr = err

		// Only transport-level failures are worth retrying; a parseable but
		// empty response will not improve on replay.
		if !apperr.Is(err, apperr.CategoryModelUnavailable) {
			return "", err
		}
		if ctx.Err() != nil {
			break
		}
	}
	return "", lastErr
}

func (c *openAIClient) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(callCtx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", apperr.ModelUnavailable(fmt.Sprintf("model call timed out after %s", c.timeout), err)
		}
		return "", apperr.ModelUnavailable("model endpoint request failed", err)
	}

	c.logger.WithFields(logrus.Fields{
		"model":      c.model,
		"latency_ms": time.Since(start).Milliseconds(),
	}).Debug("model call completed")

	if len(resp.Choices) == 0 {
		return "", apperr.MalformedModelOutput("model returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Ping lists the available models with a short timeout. It powers the
// detailed health check without issuing a completion.
func (c *openAIClient) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if _, err := c.api.ListModels(pingCtx); err != nil {
		return apperr.ModelUnavailable("model endpoint unreachable", err)
	}
	return nil
}
