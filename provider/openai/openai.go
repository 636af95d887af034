package openai_provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mohammad-safakhou/compscout/config"
	"github.com/mohammad-safakhou/compscout/internal/httpx"
)

const defaultBaseURL = "https://api.openai.com"

// Client implements the LLM contract against the OpenAI chat completions API.
type Client struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	http        *httpx.Client
}

// Message represents a message in a conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type response struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int64 `json:"total_tokens"`
	} `json:"usage"`
}

// NewClient creates a new OpenAI chat completions client.
func NewClient(cfg config.LLMConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		apiKey:      cfg.APIKey,
		baseURL:     cfg.BaseURL,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		http:        httpx.NewClient(timeout, cfg.MaxRetries, 500*time.Millisecond),
	}
}

// Generate generates a completion for the prompt.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	text, _, err := c.GenerateWithTokens(ctx, prompt)
	return text, err
}

// GenerateWithTokens generates a completion and reports token usage.
func (c *Client) GenerateWithTokens(ctx context.Context, prompt string) (string, int64, error) {
	base := c.baseURL
	if base == "" {
		base = defaultBaseURL
	}
	body := request{
		Model:       c.model,
		Messages:    []Message{{Role: "user", Content: prompt}},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}

	var resp response
	if err := c.http.DoJSON(ctx, "POST", strings.TrimRight(base, "/")+"/v1/chat/completions", headers, body, &resp); err != nil {
		return "", 0, fmt.Errorf("llm request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", 0, fmt.Errorf("no choices in response")
	}
	return resp.Choices[0].Message.Content, resp.Usage.TotalTokens, nil
}
