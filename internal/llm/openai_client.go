// ABOUTME: OpenAI-compatible chat client used for classification, agent replies and summaries
// ABOUTME: One call per Invoke; retries live in the Retrying wrapper so the classifier stays single-shot
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultTimeout bounds a call when the caller's context has no deadline
const DefaultTimeout = 30 * time.Second

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey      string
	BaseURL     string
	Timeout     time.Duration
	Temperature float32
	MaxTokens   int
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		APIKey:      apiKey,
		Timeout:     DefaultTimeout,
		Temperature: 0.1,
	}
}

// OpenAIClient wraps the OpenAI API client
type OpenAIClient struct {
	client      *openai.Client
	timeout     time.Duration
	temperature float32
	maxTokens   int
}

// NewOpenAIClient creates a new OpenAI client with custom configuration
func NewOpenAIClient(config *ClientConfig) (*OpenAIClient, error) {
	if config == nil || config.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	cc := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		cc.BaseURL = strings.TrimRight(config.BaseURL, "/")
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &OpenAIClient{
		client:      openai.NewClientWithConfig(cc),
		timeout:     timeout,
		temperature: config.Temperature,
		maxTokens:   config.MaxTokens,
	}, nil
}

// Invoke sends prompt as a single user message to modelID
func (c *OpenAIClient) Invoke(ctx context.Context, modelID, prompt string) (string, error) {
	return c.complete(ctx, modelID, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})
}

// InvokeWithImage sends prompt together with an image reference (URL or data URI)
func (c *OpenAIClient) InvokeWithImage(ctx context.Context, modelID, prompt, imageURL string) (string, error) {
	if imageURL == "" {
		return c.Invoke(ctx, modelID, prompt)
	}
	return c.complete(ctx, modelID, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser,
		MultiContent: []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: prompt},
			{
				Type:     openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{URL: imageURL, Detail: openai.ImageURLDetailAuto},
			},
		},
	})
}

func (c *OpenAIClient) complete(ctx context.Context, modelID string, msg openai.ChatCompletionMessage) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       modelID,
		Messages:    []openai.ChatCompletionMessage{msg},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion with %s: %w", modelID, err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyReply
	}

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyReply
	}
	return content, nil
}

var _ ImageInvoker = (*OpenAIClient)(nil)
