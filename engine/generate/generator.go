// Package generate assembles chat-completion prompts from retrieved
// context plus bounded conversation history and calls a text-generation
// backend for the final answer.
package generate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/voicedesk/voicedesk/engine/domain"
)

// Message is one prompt message sent to a TextGenerator.
type Message struct {
	Role    string
	Content string
}

// TextGenerator produces an answer for an assembled prompt. Variants:
// OpenAIBackend (live) and Stub (deterministic, credential-less runs and
// tests). Selected at construction, never by runtime type inspection.
type TextGenerator interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Options configures a Generator.
type Options struct {
	Model           string
	SystemPrompt    string
	MaxHistoryTurns int // conversational turns; each holds 2 messages
}

const defaultSystemPrompt = `You are a helpful and friendly customer service chatbot.
Your role is to assist users by answering their questions accurately and professionally.

Guidelines:
1. Use the provided knowledge base context to answer questions when available
2. If the context doesn't contain relevant information, politely say so and offer to help with something else
3. Be concise but thorough in your responses
4. Maintain a friendly and professional tone
5. If asked about topics outside the knowledge base, be honest about your limitations
6. Always prioritize accuracy over speculation`

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		SystemPrompt:    defaultSystemPrompt,
		MaxHistoryTurns: 10,
	}
}

// Generator owns the conversation history and the generation backend.
// It is not safe for concurrent use; the session orchestrator serializes
// access.
type Generator struct {
	backend TextGenerator
	opts    Options
	history *History
	logger  *slog.Logger
}

// New creates a Generator. A zero MaxHistoryTurns falls back to the
// default; an empty SystemPrompt falls back to the built-in one.
func New(backend TextGenerator, opts Options, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxHistoryTurns <= 0 {
		opts.MaxHistoryTurns = DefaultOptions().MaxHistoryTurns
	}
	if opts.SystemPrompt == "" {
		opts.SystemPrompt = defaultSystemPrompt
	}
	return &Generator{
		backend: backend,
		opts:    opts,
		history: NewHistory(opts.MaxHistoryTurns * 2),
		logger:  logger,
	}
}

// Generate builds the prompt (system prompt, recent history, knowledge
// context, query) and issues one synchronous backend call. It does not
// retry and does not mutate history; the caller appends turns afterward.
func (g *Generator) Generate(ctx context.Context, query, kbContext string) (string, error) {
	messages := []Message{{Role: "system", Content: g.opts.SystemPrompt}}

	for _, t := range g.history.Turns() {
		messages = append(messages, Message{Role: t.Role, Content: t.Text})
	}

	if kbContext != "" {
		messages = append(messages, Message{
			Role: "system",
			Content: fmt.Sprintf(`Based on the following information from our knowledge base, please answer the user's question:

%s

Remember to synthesize this information naturally in your response. Don't just copy it verbatim.`, kbContext),
		})
	}

	messages = append(messages, Message{Role: domain.RoleUser, Content: query})

	answer, err := g.backend.Complete(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGeneration, err)
	}
	g.logger.Debug("response generated", "prompt_messages", len(messages), "answer_len", len(answer))
	return answer, nil
}

// Append adds a turn to the history, enforcing the FIFO cap.
func (g *Generator) Append(t domain.Turn) {
	g.history.Append(t)
}

// History returns a copy of the conversation history.
func (g *Generator) History() []domain.Turn {
	return g.history.Turns()
}

// Clear discards the conversation history.
func (g *Generator) Clear() {
	g.history.Clear()
}

// Model reports the configured chat model identifier.
func (g *Generator) Model() string { return g.opts.Model }

// EstimateTokens is a rough heuristic (4 chars per token), a best-effort
// diagnostic rather than an exact tokenizer.
func EstimateTokens(text string) int {
	return len(text) / 4
}

// TokenEstimate summarizes approximate token usage for the session.
type TokenEstimate struct {
	SystemPrompt int `json:"system_prompt"`
	History      int `json:"conversation_history"`
	Total        int `json:"total_estimate"`
	Turns        int `json:"turns"`
}

// TokenEstimate reports approximate token usage for the current history.
func (g *Generator) TokenEstimate() TokenEstimate {
	est := TokenEstimate{SystemPrompt: EstimateTokens(g.opts.SystemPrompt)}
	for _, t := range g.history.Turns() {
		est.History += EstimateTokens(t.Text)
	}
	est.Total = est.SystemPrompt + est.History
	est.Turns = g.history.Len() / 2
	return est
}
