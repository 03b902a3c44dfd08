package speech

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/voicedesk/voicedesk/engine/domain"
)

// failNthBackend fails on configured call indexes (1-based).
type failNthBackend struct {
	calls    int
	failOn   map[int]bool
	lastText string
}

func (b *failNthBackend) Render(_ context.Context, text string) ([]byte, error) {
	b.calls++
	b.lastText = text
	if b.failOn[b.calls] {
		return nil, errors.New("model out of memory")
	}
	return encodeWAV(make([]int16, 160), 16000), nil
}

func TestSynthesize_WritesWAV(t *testing.T) {
	s, err := New(Stub{}, t.TempDir(), nil)
	if err != nil {
		t.Fatalf("new synthesizer: %v", err)
	}
	path, err := s.Synthesize(context.Background(), "Hello there")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(path, ".wav") {
		t.Errorf("artifact should be a .wav file, got %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if len(data) < 44 || string(data[:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Error("artifact is not a RIFF/WAVE file")
	}
}

func TestSynthesize_UniqueNames(t *testing.T) {
	s, err := New(Stub{}, t.TempDir(), nil)
	if err != nil {
		t.Fatalf("new synthesizer: %v", err)
	}
	p1, err := s.Synthesize(context.Background(), "one")
	if err != nil {
		t.Fatal(err)
	}
	p2, err := s.Synthesize(context.Background(), "two")
	if err != nil {
		t.Fatal(err)
	}
	if p1 == p2 {
		t.Error("two artifacts must not share a path")
	}
}

func TestSynthesize_ClipsLongText(t *testing.T) {
	backend := &failNthBackend{}
	s, err := New(backend, t.TempDir(), nil)
	if err != nil {
		t.Fatalf("new synthesizer: %v", err)
	}
	long := strings.Repeat("a", 2000)
	if _, err := s.Synthesize(context.Background(), long); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len([]rune(backend.lastText)); got != 500 {
		t.Errorf("backend received %d runes, want 500", got)
	}
	if !strings.HasSuffix(backend.lastText, "...") {
		t.Error("clipped text should end with ellipsis")
	}
}

func TestSynthesize_BackendFailureWrapsErrSynthesis(t *testing.T) {
	s, err := New(&failNthBackend{failOn: map[int]bool{1: true}}, t.TempDir(), nil)
	if err != nil {
		t.Fatalf("new synthesizer: %v", err)
	}
	_, err = s.Synthesize(context.Background(), "hello")
	if !errors.Is(err, domain.ErrSynthesis) {
		t.Errorf("error should wrap ErrSynthesis, got %v", err)
	}
}

func TestBatch_BestEffort(t *testing.T) {
	s, err := New(&failNthBackend{failOn: map[int]bool{2: true}}, t.TempDir(), nil)
	if err != nil {
		t.Fatalf("new synthesizer: %v", err)
	}
	results := s.Batch(context.Background(), []string{"one", "two", "three"}, "batch")
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Error("items 1 and 3 should succeed")
	}
	if results[1].Err == nil {
		t.Error("item 2 should report its failure")
	}
	if !strings.HasSuffix(results[0].Path, "batch_1.wav") {
		t.Errorf("unexpected batch name: %s", results[0].Path)
	}
}

func TestCleanup_RemovesOnlyOldArtifacts(t *testing.T) {
	dir := t.TempDir()
	s, err := New(Stub{}, dir, nil)
	if err != nil {
		t.Fatalf("new synthesizer: %v", err)
	}
	oldPath, err := s.Synthesize(context.Background(), "old")
	if err != nil {
		t.Fatal(err)
	}
	newPath, err := s.Synthesize(context.Background(), "new")
	if err != nil {
		t.Fatal(err)
	}

	stale := time.Now().Add(-10 * 24 * time.Hour)
	if err := os.Chtimes(oldPath, stale, stale); err != nil {
		t.Fatal(err)
	}

	deleted, err := s.Cleanup(7 * 24 * time.Hour)
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
	if _, err := os.Stat(oldPath); !errors.Is(err, os.ErrNotExist) {
		t.Error("old artifact should be gone")
	}
	if _, err := os.Stat(newPath); err != nil {
		t.Error("recent artifact should survive")
	}
	if _, err := os.Stat(filepath.Join(dir)); err != nil {
		t.Error("artifact dir should survive cleanup")
	}
}
