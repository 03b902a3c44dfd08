package generate

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/voicedesk/voicedesk/engine/domain"
)

func TestExportTranscript(t *testing.T) {
	g := New(&captureBackend{}, Options{Model: "test-model"}, nil)
	g.Append(domain.Turn{Role: domain.RoleUser, Text: "What are your hours?"})
	g.Append(domain.Turn{Role: domain.RoleAssistant, Text: "9-6 EST."})

	path := filepath.Join(t.TempDir(), "conversation.txt")
	if err := g.ExportTranscript(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read transcript: %v", err)
	}
	text := string(data)
	for _, want := range []string{
		"CHATBOT CONVERSATION LOG",
		"Model: test-model",
		"Total Turns: 1",
		"TURN 1",
		"What are your hours?",
		"9-6 EST.",
		"END OF CONVERSATION LOG",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("transcript missing %q", want)
		}
	}
}

func TestExportTranscript_WriteFailure(t *testing.T) {
	g := New(&captureBackend{}, Options{}, nil)
	err := g.ExportTranscript(filepath.Join(t.TempDir(), "no", "such", "dir", "out.txt"))
	if !errors.Is(err, domain.ErrExport) {
		t.Errorf("error should wrap ErrExport, got %v", err)
	}
}
