// Package chatbot orchestrates one retrieval-augmented query cycle:
// search, context assembly, generation, optional speech synthesis, and
// history bookkeeping.
package chatbot

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/voicedesk/voicedesk/engine/domain"
	"github.com/voicedesk/voicedesk/engine/generate"
	"github.com/voicedesk/voicedesk/engine/knowledge"
)

// Searcher is the knowledge-store surface the session needs.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]knowledge.SearchResult, error)
	Stats(ctx context.Context) (knowledge.Stats, error)
}

// Responder is the response-generator surface the session needs.
type Responder interface {
	Generate(ctx context.Context, query, kbContext string) (string, error)
	Append(t domain.Turn)
	History() []domain.Turn
	Clear()
	TokenEstimate() generate.TokenEstimate
	ExportTranscript(path string) error
}

// Synthesizer renders an answer to an audio artifact.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (string, error)
}

// Session is one explicitly-owned conversation. A mutex serializes
// HandleQuery: concurrent queries within one session are not a supported
// workflow, so the simplest correct policy is to queue them. Different
// sessions are fully independent.
type Session struct {
	mu sync.Mutex

	search    Searcher    // nil: knowledge base disabled, generation ungrounded
	responder Responder
	speech    Synthesizer // nil: audio disabled
	topK      int
	logger    *slog.Logger

	startedAt    time.Time
	totalQueries int
}

// NewSession composes the pipeline. search and speech may be nil to
// disable retrieval or audio respectively.
func NewSession(search Searcher, responder Responder, speech Synthesizer, topK int, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	if topK <= 0 {
		topK = 3
	}
	return &Session{
		search:    search,
		responder: responder,
		speech:    speech,
		topK:      topK,
		logger:    logger,
		startedAt: time.Now(),
	}
}

// Reply is the outcome of one query.
type Reply struct {
	Answer      string
	AudioPath   string // empty when audio was not requested or failed
	SourcesUsed int
	AudioFailed bool // audio was requested but synthesis failed
}

// HandleQuery runs the full pipeline for one user query. Store and
// generation failures abort the query; a synthesis failure degrades to a
// text-only reply and never fails the whole query.
func (s *Session) HandleQuery(ctx context.Context, text string, wantAudio bool) (*Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		// Rejected locally before any external call is made.
		return nil, domain.ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalQueries++

	var results []knowledge.SearchResult
	if s.search != nil {
		var err error
		results, err = s.search.Search(ctx, text, s.topK)
		if err != nil {
			return nil, err
		}
		s.logger.Info("knowledge search done", "results", len(results))
	}

	kbContext := knowledge.FormatContext(results)

	answer, err := s.responder.Generate(ctx, text, kbContext)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	s.responder.Append(domain.Turn{Role: domain.RoleUser, Text: text, Timestamp: now})
	s.responder.Append(domain.Turn{Role: domain.RoleAssistant, Text: answer, Timestamp: now})

	reply := &Reply{Answer: answer, SourcesUsed: len(results)}
	if wantAudio && s.speech != nil {
		path, err := s.speech.Synthesize(ctx, answer)
		if err != nil {
			// Audio is a best-effort enhancement, never a hard dependency.
			s.logger.Warn("speech synthesis failed, returning text only", "err", err)
			reply.AudioFailed = true
		} else {
			reply.AudioPath = path
		}
	}
	return reply, nil
}

// Reset clears the in-memory history. The knowledge store and persisted
// artifacts are untouched.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responder.Clear()
}

// History returns a copy of the conversation history.
func (s *Session) History() []domain.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.responder.History()
}

// ExportTranscript writes the conversation transcript to path.
func (s *Session) ExportTranscript(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.responder.ExportTranscript(path)
}

// Stats merges session counters with knowledge-store stats.
type Stats struct {
	TotalQueries      int                    `json:"total_queries"`
	StartedAt         time.Time              `json:"started_at"`
	Duration          time.Duration          `json:"duration"`
	ConversationTurns int                    `json:"conversation_turns"`
	Tokens            generate.TokenEstimate `json:"tokens"`
	Knowledge         knowledge.Stats        `json:"knowledge_base"`
}

// Stats reports session counters plus knowledge-store stats. A store
// failure is not fatal here; the knowledge section is zero-valued.
func (s *Session) Stats(ctx context.Context) Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{
		TotalQueries:      s.totalQueries,
		StartedAt:         s.startedAt,
		Duration:          time.Since(s.startedAt),
		ConversationTurns: len(s.responder.History()) / 2,
		Tokens:            s.responder.TokenEstimate(),
	}
	if s.search != nil {
		ks, err := s.search.Stats(ctx)
		if err != nil {
			s.logger.Warn("knowledge stats unavailable", "err", err)
		} else {
			st.Knowledge = ks
		}
	}
	return st
}
