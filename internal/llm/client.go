// Package llm provides the text-generation client used for horoscope
// content, wrapping the OpenAI chat completions API.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

// DefaultModel is the completion model used unless configured otherwise.
const DefaultModel = "gpt-4o-mini"

// Client wraps the OpenAI SDK.
type Client struct {
	client *openai.Client
	model  string
}

// Config holds the configuration for the LLM client.
type Config struct {
	APIKey  string
	BaseURL string // optional override, e.g. for a compatible proxy
	Model   string
}

// NewClient creates a new LLM client.
func NewClient(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  cfg.Model,
	}
}

// ChatRequest represents a chat completion request.
type ChatRequest struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float32
	MaxTokens    int
}

// Chat sends a chat completion request and returns the trimmed completion
// text. An empty completion is returned as "" with no error; the caller
// decides whether that is fatal.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (string, error) {
	messages := []openai.ChatCompletionMessage{}

	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.UserPrompt,
	})

	chatReq := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: req.Temperature,
	}
	if req.MaxTokens > 0 {
		chatReq.MaxTokens = req.MaxTokens
	}

	log.Debug().
		Str("model", c.model).
		Int("messages", len(messages)).
		Msg("Sending chat completion request")

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
