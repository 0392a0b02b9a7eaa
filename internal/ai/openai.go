// Package ai wraps the text generation collaborator and its rule-based fallbacks.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// ErrGenerationFailed marks any failure of the text generation collaborator.
// Callers substitute deterministic fallback text when they see it.
var ErrGenerationFailed = errors.New("ai: generation failed")

// Generator turns a system prompt plus context text into prose.
type Generator interface {
	Generate(ctx context.Context, prompt, contextText string) (string, error)
}

// OpenAIClient implements Generator using the Chat Completions API.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	timeout     time.Duration
	maxTokens   int
	temperature float32
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string // optional
	Timeout time.Duration
}

func NewOpenAI(cfg Config) *OpenAIClient {
	var c *openai.Client
	if cfg.BaseURL != "" {
		cc := openai.DefaultConfig(cfg.APIKey)
		cc.BaseURL = cfg.BaseURL
		c = openai.NewClientWithConfig(cc)
	} else {
		c = openai.NewClient(cfg.APIKey)
	}
	if cfg.Model == "" {
		panic("OpenAI model must be specified")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OpenAIClient{client: c, model: cfg.Model, timeout: timeout, maxTokens: 300, temperature: 0.5}
}

// Generate sends prompt as the system message and contextText as the user message.
func (o *OpenAIClient) Generate(ctx context.Context, prompt, contextText string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt},
			{Role: openai.ChatMessageRoleUser, Content: contextText},
		},
		MaxTokens:   o.maxTokens,
		Temperature: o.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrGenerationFailed)
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", fmt.Errorf("%w: empty response", ErrGenerationFailed)
	}
	return out, nil
}

// Unavailable is a Generator that always fails; used when no API key is configured.
type Unavailable struct{}

func (Unavailable) Generate(context.Context, string, string) (string, error) {
	return "", fmt.Errorf("%w: no api key configured", ErrGenerationFailed)
}
