package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/voicedesk/voicedesk/engine/domain"
)

// captureBackend records the prompt it was called with.
type captureBackend struct {
	lastMessages []Message
	reply        string
	err          error
}

func (b *captureBackend) Complete(_ context.Context, messages []Message) (string, error) {
	b.lastMessages = messages
	return b.reply, b.err
}

func TestGenerate_PromptShape(t *testing.T) {
	backend := &captureBackend{reply: "Our hours are 9-6 EST."}
	g := New(backend, Options{Model: "test-model"}, nil)

	g.Append(domain.Turn{Role: domain.RoleUser, Text: "hello"})
	g.Append(domain.Turn{Role: domain.RoleAssistant, Text: "hi there"})

	answer, err := g.Generate(context.Background(), "What are your hours?", "kb context here")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "Our hours are 9-6 EST." {
		t.Errorf("unexpected answer: %q", answer)
	}

	msgs := backend.lastMessages
	// system prompt, 2 history turns, context message, user query
	if len(msgs) != 5 {
		t.Fatalf("prompt has %d messages, want 5", len(msgs))
	}
	if msgs[0].Role != "system" {
		t.Errorf("first message role = %q, want system", msgs[0].Role)
	}
	if msgs[1].Content != "hello" || msgs[2].Content != "hi there" {
		t.Error("history turns missing or out of order")
	}
	if msgs[3].Role != "system" || !strings.Contains(msgs[3].Content, "kb context here") {
		t.Error("knowledge context message missing")
	}
	if msgs[4].Role != domain.RoleUser || msgs[4].Content != "What are your hours?" {
		t.Error("query must be the final message")
	}
}

func TestGenerate_NoContextMessageWhenUngrounded(t *testing.T) {
	backend := &captureBackend{reply: "ok"}
	g := New(backend, Options{}, nil)

	if _, err := g.Generate(context.Background(), "hello", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(backend.lastMessages) != 2 {
		t.Fatalf("prompt has %d messages, want 2 (system + query)", len(backend.lastMessages))
	}
}

func TestGenerate_DoesNotMutateHistory(t *testing.T) {
	g := New(&captureBackend{reply: "ok"}, Options{}, nil)
	if _, err := g.Generate(context.Background(), "q", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(g.History()) != 0 {
		t.Error("Generate must not append to history; that is the orchestrator's job")
	}
}

func TestGenerate_BackendFailureWrapsErrGeneration(t *testing.T) {
	g := New(&captureBackend{err: errors.New("quota exceeded")}, Options{}, nil)
	_, err := g.Generate(context.Background(), "q", "")
	if !errors.Is(err, domain.ErrGeneration) {
		t.Errorf("error should wrap ErrGeneration, got %v", err)
	}
}

func TestGenerate_HistoryWindowBounded(t *testing.T) {
	backend := &captureBackend{reply: "ok"}
	g := New(backend, Options{MaxHistoryTurns: 2}, nil)

	for i := 0; i < 10; i++ {
		g.Append(domain.Turn{Role: domain.RoleUser, Text: fmt.Sprintf("u%d", i)})
		g.Append(domain.Turn{Role: domain.RoleAssistant, Text: fmt.Sprintf("a%d", i)})
	}
	if _, err := g.Generate(context.Background(), "q", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// system + 4 history messages (2 turns) + query
	if len(backend.lastMessages) != 6 {
		t.Fatalf("prompt has %d messages, want 6", len(backend.lastMessages))
	}
	if backend.lastMessages[1].Content != "u8" {
		t.Errorf("oldest surviving history message = %q, want u8", backend.lastMessages[1].Content)
	}
}

func TestStub_DeterministicReply(t *testing.T) {
	s := &Stub{}
	got, err := s.Complete(context.Background(), nil)
	if err != nil {
		t.Fatalf("stub must not fail: %v", err)
	}
	if got != StubReply {
		t.Errorf("unexpected stub reply: %q", got)
	}
}

func TestEstimateTokens(t *testing.T) {
	if got := EstimateTokens("abcdefgh"); got != 2 {
		t.Errorf("EstimateTokens = %d, want 2", got)
	}
	if got := EstimateTokens(""); got != 0 {
		t.Errorf("EstimateTokens(empty) = %d, want 0", got)
	}
}

func TestTokenEstimate_CountsTurns(t *testing.T) {
	g := New(&captureBackend{}, Options{}, nil)
	g.Append(domain.Turn{Role: domain.RoleUser, Text: "12345678"})
	g.Append(domain.Turn{Role: domain.RoleAssistant, Text: "12345678"})

	est := g.TokenEstimate()
	if est.Turns != 1 {
		t.Errorf("turns = %d, want 1", est.Turns)
	}
	if est.History != 4 {
		t.Errorf("history tokens = %d, want 4", est.History)
	}
	if est.Total != est.SystemPrompt+est.History {
		t.Error("total must be system + history")
	}
}
