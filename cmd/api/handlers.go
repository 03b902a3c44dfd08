package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/voicedesk/voicedesk/engine/chatbot"
	"github.com/voicedesk/voicedesk/engine/domain"
	"github.com/voicedesk/voicedesk/pkg/events"
	"github.com/voicedesk/voicedesk/pkg/metrics"
)

// server bundles the session and its collaborators for the HTTP handlers.
type server struct {
	sess       *chatbot.Session
	audioDir   string
	modelName  string
	embedModel string
	pub        *events.Publisher
	logger     *slog.Logger
}

func newRouter(s *server) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("POST /api/clear", s.handleClear)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /audio/{filename}", s.handleAudio)
	mux.Handle("GET /metrics", metrics.Handler())
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ChatRequest is the JSON body for POST /api/chat. EnableAudio defaults
// to true when omitted.
type ChatRequest struct {
	Message     string `json:"message"`
	EnableAudio *bool  `json:"enable_audio"`
}

// ChatResponse is the JSON response for POST /api/chat.
type ChatResponse struct {
	Response     string  `json:"response"`
	AudioURL     *string `json:"audio_url"`
	SourcesFound int     `json:"sources_found"`
	AudioFailed  bool    `json:"audio_failed,omitempty"`
	Timestamp    string  `json:"timestamp"`
}

func (s *server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	wantAudio := req.EnableAudio == nil || *req.EnableAudio

	start := time.Now()
	reply, err := s.sess.HandleQuery(r.Context(), req.Message, wantAudio)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyMessage) {
			writeError(w, http.StatusBadRequest, "message cannot be empty")
			return
		}
		s.logger.Error("query failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	metrics.QueriesTotal.Inc()
	metrics.QueryDuration.Observe(time.Since(start).Seconds())
	if reply.AudioFailed {
		metrics.SynthesisFailuresTotal.Inc()
	}

	var audioURL *string
	if reply.AudioPath != "" {
		u := "/audio/" + filepath.Base(reply.AudioPath)
		audioURL = &u
	}

	s.pub.PublishAnswered(r.Context(), events.Answered{
		QueryChars:  len(req.Message),
		AnswerChars: len(reply.Answer),
		Sources:     reply.SourcesUsed,
		Audio:       audioURL != nil,
		AudioFailed: reply.AudioFailed,
		Duration:    time.Since(start).Seconds(),
		Timestamp:   time.Now(),
	})

	writeJSON(w, http.StatusOK, ChatResponse{
		Response:     reply.Answer,
		AudioURL:     audioURL,
		SourcesFound: reply.SourcesUsed,
		AudioFailed:  reply.AudioFailed,
		Timestamp:    time.Now().Format("2006-01-02 15:04:05"),
	})
}

func (s *server) handleStats(w http.ResponseWriter, r *http.Request) {
	st := s.sess.Stats(r.Context())

	d := int(st.Duration.Seconds())
	writeJSON(w, http.StatusOK, map[string]any{
		"session": map[string]any{
			"total_queries":      st.TotalQueries,
			"duration":           fmt.Sprintf("%dh %dm %ds", d/3600, d%3600/60, d%60),
			"conversation_turns": st.ConversationTurns,
		},
		"knowledge_base": map[string]any{
			"total_documents": st.Knowledge.TotalDocuments,
			"categories":      st.Knowledge.Categories,
		},
		"model": map[string]any{
			"name":            s.modelName,
			"embedding_model": s.embedModel,
		},
	})
}

func (s *server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.sess.Reset()
	s.pub.PublishCleared(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleHistory(w http.ResponseWriter, r *http.Request) {
	history := s.sess.History()
	if history == nil {
		history = []domain.Turn{}
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *server) handleAudio(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("filename")
	// Artifact names are flat; anything path-like is an attack, not a miss.
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		writeError(w, http.StatusBadRequest, "invalid filename")
		return
	}
	path := filepath.Join(s.audioDir, name)
	if _, err := os.Stat(path); err != nil {
		writeError(w, http.StatusNotFound, "audio file not found")
		return
	}
	w.Header().Set("Content-Type", "audio/wav")
	http.ServeFile(w, r, path)
}
