// Package anthropic provides the Anthropic Messages API generator.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"verdict/internal/llm"
)

// Client wraps the Anthropic SDK client with retry and token tracking.
type Client struct {
	inner       anthropic.Client
	model       anthropic.Model
	maxTokens   int64
	temperature float64
	retry       llm.RetryPolicy
	tracker     *llm.TokenTracker
}

// Config contains configuration for creating a new Client.
type Config struct {
	// Model is the Claude model to use. Empty selects a current Sonnet.
	Model string
	// APIKeyEnv names the environment variable holding the API key.
	// Empty means ANTHROPIC_API_KEY.
	APIKeyEnv   string
	MaxTokens   int64
	Temperature float64
	Retry       llm.RetryPolicy
}

// NewClient creates a new Anthropic generator.
func NewClient(cfg Config) (*Client, error) {
	keyEnv := cfg.APIKeyEnv
	if keyEnv == "" {
		keyEnv = "ANTHROPIC_API_KEY"
	}
	apiKey := os.Getenv(keyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("missing API key in env %s", keyEnv)
	}
	model := anthropic.Model(cfg.Model)
	if model == "" {
		model = anthropic.ModelClaudeSonnet4_20250514
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1000
	}
	retry := cfg.Retry
	if retry.MaxRetries == 0 && retry.Delay == 0 {
		retry = llm.DefaultRetryPolicy()
	}
	return &Client{
		inner:       anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:       model,
		maxTokens:   maxTokens,
		temperature: cfg.Temperature,
		retry:       retry,
		tracker:     llm.NewTokenTracker(),
	}, nil
}

// Name returns the provider identifier.
func (c *Client) Name() string { return "anthropic" }

// Tracker returns the token tracker for this client.
func (c *Client) Tracker() *llm.TokenTracker { return c.tracker }

// Generate sends a single-turn prompt and returns the assistant text.
// Transient failures are retried with exponential backoff.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if c.temperature > 0 {
		params.Temperature = anthropic.Float(c.temperature)
	}

	var lastErr error
	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.retry.Backoff(attempt - 1)):
			}
		}
		resp, err := c.inner.Messages.New(ctx, params)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			lastErr = err
			continue
		}
		c.tracker.Add(resp.Usage.InputTokens, resp.Usage.OutputTokens)

		var text string
		for _, block := range resp.Content {
			if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
				text += variant.Text
			}
		}
		if text == "" {
			lastErr = errors.New("empty response from model")
			continue
		}
		return text, nil
	}
	return "", fmt.Errorf("anthropic generate failed after %d attempts: %w", c.retry.MaxRetries+1, lastErr)
}
