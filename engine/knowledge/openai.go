package knowledge

import (
	"context"

	"github.com/voicedesk/voicedesk/pkg/openai"
)

// OpenAIEmbedder adapts an openai.Client to the Embedder interface with a
// fixed embedding model.
type OpenAIEmbedder struct {
	Client *openai.Client
	Model  string
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.Client.Embed(ctx, e.Model, text)
}
