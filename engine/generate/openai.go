package generate

import (
	"context"

	"github.com/voicedesk/voicedesk/pkg/openai"
)

// OpenAIBackend is the live TextGenerator variant, backed by a hosted
// chat-completion API.
type OpenAIBackend struct {
	Client *openai.Client
	Model  string
	Opts   openai.ChatOptions
}

// NewOpenAIBackend creates a live backend with the default sampling
// options.
func NewOpenAIBackend(client *openai.Client, model string) *OpenAIBackend {
	return &OpenAIBackend{Client: client, Model: model, Opts: openai.DefaultChatOptions()}
}

func (b *OpenAIBackend) Complete(ctx context.Context, messages []Message) (string, error) {
	msgs := make([]openai.ChatMessage, len(messages))
	for i, m := range messages {
		msgs[i] = openai.ChatMessage{Role: m.Role, Content: m.Content}
	}
	return b.Client.Chat(ctx, b.Model, msgs, b.Opts)
}
