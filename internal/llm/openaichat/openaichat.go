// Package openaichat provides a generator for OpenAI-compatible
// /v1/chat/completions backends (OpenAI, Gemini's compatibility endpoint,
// vLLM, Ollama and similar gateways).
package openaichat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"verdict/internal/llm"
)

// Client performs HTTP requests against an OpenAI-compatible Chat
// Completions backend.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	retry       llm.RetryPolicy
	tracker     *llm.TokenTracker
}

// Config configures the OpenAI-compatible chat client.
type Config struct {
	BaseURL     string
	APIKeyEnv   string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	Retry       llm.RetryPolicy
}

// NewClient creates a new chat completions generator.
func NewClient(cfg Config) (*Client, error) {
	keyEnv := cfg.APIKeyEnv
	if keyEnv == "" {
		keyEnv = "OPENAI_API_KEY"
	}
	apiKey := os.Getenv(keyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("missing API key in env %s", keyEnv)
	}
	if cfg.Model == "" {
		return nil, errors.New("missing chat model name")
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
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
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     baseURL,
		apiKey:      apiKey,
		model:       cfg.Model,
		maxTokens:   maxTokens,
		temperature: cfg.Temperature,
		retry:       retry,
		tracker:     llm.NewTokenTracker(),
	}, nil
}

// Name returns the provider identifier.
func (c *Client) Name() string { return "openai" }

// Tracker returns the token tracker for this client.
func (c *Client) Tracker() *llm.TokenTracker { return c.tracker }

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int64 `json:"prompt_tokens"`
		CompletionTokens int64 `json:"completion_tokens"`
	} `json:"usage"`
}

// Generate sends a single-turn prompt and returns the assistant text.
// HTTP 429 and 5xx responses and network errors are retried with backoff,
// honoring Retry-After when the backend provides it.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", err
	}
	url := c.baseURL + "/chat/completions"

	var lastErr error
	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.retry.Backoff(attempt - 1)):
			}
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return "", err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			if ra := resp.Header.Get("Retry-After"); ra != "" {
				if secs, err := strconv.Atoi(ra); err == nil {
					_ = resp.Body.Close()
					select {
					case <-ctx.Done():
						return "", ctx.Err()
					case <-time.After(time.Duration(secs) * time.Second):
					}
					lastErr = fmt.Errorf("chat completions failed: %s", resp.Status)
					continue
				}
			}
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("chat completions failed: %s", resp.Status)
			continue
		}
		if resp.StatusCode >= 300 {
			_ = resp.Body.Close()
			return "", fmt.Errorf("chat completions failed: %s", resp.Status)
		}

		var out chatResponse
		err = json.NewDecoder(resp.Body).Decode(&out)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		c.tracker.Add(out.Usage.PromptTokens, out.Usage.CompletionTokens)
		if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
			lastErr = errors.New("empty response from model")
			continue
		}
		return out.Choices[0].Message.Content, nil
	}
	return "", fmt.Errorf("chat generate failed after %d attempts: %w", c.retry.MaxRetries+1, lastErr)
}
