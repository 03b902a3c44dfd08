package openai

import (
	"context"
	"fmt"
	"strings"
)

// ChatMessage is one message in a chat-completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatOptions tune a chat-completion call. Zero values fall back to the
// service defaults, except Temperature which is always sent.
type ChatOptions struct {
	Temperature      float32
	TopP             float32
	MaxTokens        int
	FrequencyPenalty float32
	PresencePenalty  float32
}

// DefaultChatOptions mirror the tuning the chatbot was built with.
func DefaultChatOptions() ChatOptions {
	return ChatOptions{
		Temperature:      0.7,
		TopP:             0.9,
		MaxTokens:        500,
		FrequencyPenalty: 0.3,
		PresencePenalty:  0.3,
	}
}

type chatRequest struct {
	Model            string        `json:"model"`
	Messages         []ChatMessage `json:"messages"`
	Temperature      float32       `json:"temperature"`
	TopP             float32       `json:"top_p,omitempty"`
	MaxTokens        int           `json:"max_tokens,omitempty"`
	FrequencyPenalty float32       `json:"frequency_penalty,omitempty"`
	PresencePenalty  float32       `json:"presence_penalty,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Chat issues one synchronous chat-completion call and returns the
// assistant message text.
func (c *Client) Chat(ctx context.Context, model string, messages []ChatMessage, opts ChatOptions) (string, error) {
	req := chatRequest{
		Model:            model,
		Messages:         messages,
		Temperature:      opts.Temperature,
		TopP:             opts.TopP,
		MaxTokens:        opts.MaxTokens,
		FrequencyPenalty: opts.FrequencyPenalty,
		PresencePenalty:  opts.PresencePenalty,
	}
	var out chatResponse
	if err := c.postJSON(ctx, "/chat/completions", req, &out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("openai: /chat/completions: no choices returned")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
