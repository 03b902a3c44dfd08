package speech

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/voicedesk/voicedesk/engine/domain"
)

// maxTextRunes bounds the text sent to the TTS backend. Longer answers
// are clipped, a lossy but deterministic preprocessing step.
const maxTextRunes = 500

// Synthesizer writes spoken WAV artifacts into a dedicated directory.
// Each artifact is written once under a unique generated name, so the
// directory is safe under concurrent writers.
type Synthesizer struct {
	backend Backend
	dir     string
	logger  *slog.Logger
}

// New creates a Synthesizer, creating the artifact directory if needed.
func New(backend Backend, dir string, logger *slog.Logger) (*Synthesizer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("speech: create audio dir %s: %w", dir, err)
	}
	return &Synthesizer{backend: backend, dir: dir, logger: logger}, nil
}

// Dir returns the artifact directory.
func (s *Synthesizer) Dir() string { return s.dir }

// Synthesize renders text and writes it as a WAV file under the artifact
// directory, returning the file path.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) (string, error) {
	name := fmt.Sprintf("response_%s_%s.wav",
		time.Now().Format("20060102_150405"), uuid.NewString()[:8])
	return s.synthesizeFile(ctx, text, name)
}

func (s *Synthesizer) synthesizeFile(ctx context.Context, text, filename string) (string, error) {
	prepared := prepareText(text)
	if prepared == "" {
		return "", fmt.Errorf("%w: empty text", domain.ErrSynthesis)
	}

	data, err := s.backend.Render(ctx, prepared)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrSynthesis, err)
	}

	if !strings.HasSuffix(filename, ".wav") {
		filename += ".wav"
	}
	path := filepath.Join(s.dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: write %s: %v", domain.ErrSynthesis, path, err)
	}
	s.logger.Debug("audio artifact written", "path", path, "bytes", len(data))
	return path, nil
}

// BatchResult reports the outcome of one item in a batch conversion.
type BatchResult struct {
	Text string
	Path string
	Err  error
}

// Batch converts texts sequentially, best-effort: a single item's failure
// is recorded per item and the batch continues.
func (s *Synthesizer) Batch(ctx context.Context, texts []string, prefix string) []BatchResult {
	results := make([]BatchResult, len(texts))
	for i, text := range texts {
		path, err := s.synthesizeFile(ctx, text, fmt.Sprintf("%s_%d.wav", prefix, i+1))
		results[i] = BatchResult{Text: text, Path: path, Err: err}
		if err != nil {
			s.logger.Warn("batch item failed", "index", i, "err", err)
		}
	}
	return results
}

// Cleanup deletes WAV artifacts older than the given age and reports how
// many were removed.
func (s *Synthesizer) Cleanup(olderThan time.Duration) (int, error) {
	entries, err := filepath.Glob(filepath.Join(s.dir, "*.wav"))
	if err != nil {
		return 0, fmt.Errorf("speech: list artifacts: %w", err)
	}
	cutoff := time.Now().Add(-olderThan)
	deleted := 0
	for _, path := range entries {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err == nil {
				deleted++
			}
		}
	}
	if deleted > 0 {
		s.logger.Info("cleaned up old audio artifacts", "deleted", deleted)
	}
	return deleted, nil
}

// prepareText collapses whitespace and clips to maxTextRunes.
func prepareText(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) > maxTextRunes {
		text = string(runes[:maxTextRunes-3]) + "..."
	}
	return text
}
