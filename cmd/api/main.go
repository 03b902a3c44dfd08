// Package main implements the VoiceDesk API server: a REST front end over
// the retrieval-augmented chat session.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/voicedesk/voicedesk/engine/chatbot"
	"github.com/voicedesk/voicedesk/engine/generate"
	"github.com/voicedesk/voicedesk/engine/knowledge"
	"github.com/voicedesk/voicedesk/engine/speech"
	"github.com/voicedesk/voicedesk/pkg/config"
	"github.com/voicedesk/voicedesk/pkg/events"
	"github.com/voicedesk/voicedesk/pkg/metrics"
	"github.com/voicedesk/voicedesk/pkg/mid"
	"github.com/voicedesk/voicedesk/pkg/openai"
)

// artifactMaxAge is how long audio artifacts are kept before the
// periodic sweep removes them.
const artifactMaxAge = 7 * 24 * time.Hour

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config load failed", "err", err)
		os.Exit(1)
	}
	if err := cfg.Validate(true); err != nil {
		logger.Error("config invalid", "err", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := openai.NewClient(cfg.OpenAI.APIBase, cfg.OpenAI.APIKey, 0)

	// --- Knowledge store (Qdrant) ---
	store, err := knowledge.New(cfg.Qdrant.Addr, cfg.Qdrant.Collection, cfg.OpenAI.EmbedDims,
		&knowledge.OpenAIEmbedder{Client: client, Model: cfg.OpenAI.EmbedModel})
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.EnsureCollection(ctx); err != nil {
		return err
	}
	if st, err := store.Stats(ctx); err != nil {
		return err
	} else if st.TotalDocuments == 0 {
		n, err := store.LoadFAQs(ctx, cfg.Paths.FAQFile)
		if err != nil {
			logger.Warn("FAQ load skipped", "path", cfg.Paths.FAQFile, "err", err)
		} else {
			logger.Info("knowledge base loaded", "documents", n)
		}
	} else {
		logger.Info("knowledge base ready", "documents", st.TotalDocuments)
	}

	// --- Response generator ---
	gen := generate.New(
		generate.NewOpenAIBackend(client, cfg.OpenAI.Model),
		generate.Options{Model: cfg.OpenAI.Model, MaxHistoryTurns: cfg.Chat.MaxHistoryTurns},
		logger,
	)

	// --- Speech synthesizer ---
	synth, err := speech.New(
		&speech.OpenAIBackend{Client: client, Model: cfg.Speech.Model, Voice: cfg.Speech.Voice},
		cfg.Paths.AudioDir,
		logger,
	)
	if err != nil {
		return err
	}
	go sweepArtifacts(ctx, synth, logger)

	// --- Event bus (optional) ---
	pub, err := events.Connect(cfg.NATS.URL, logger)
	if err != nil {
		// The event bus is an enhancement; start without it.
		logger.Warn("event bus unavailable", "err", err)
	}
	defer pub.Close()

	sess := chatbot.NewSession(store, gen, synth, cfg.Chat.TopK, logger)

	srv := &server{
		sess:       sess,
		audioDir:   synth.Dir(),
		modelName:  cfg.OpenAI.Model,
		embedModel: cfg.OpenAI.EmbedModel,
		pub:        pub,
		logger:     logger,
	}

	handler := mid.Chain(newRouter(srv),
		mid.Recover(logger),
		mid.Logger(logger),
		mid.OTel("voicedesk-api"),
		metrics.Middleware,
		mid.CORS(cfg.Server.CORSOrigin),
		mid.RateLimit(cfg.Server.RateLimitRPS, 0),
	)

	httpSrv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "port", cfg.Server.Port, "model", cfg.OpenAI.Model)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutCtx)
}

// sweepArtifacts periodically removes audio files past artifactMaxAge.
func sweepArtifacts(ctx context.Context, synth *speech.Synthesizer, logger *slog.Logger) {
	ticker := time.NewTicker(6 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := synth.Cleanup(artifactMaxAge); err != nil {
				logger.Warn("artifact cleanup failed", "err", err)
			}
		}
	}
}
