package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/voicedesk/voicedesk/engine/chatbot"
	"github.com/voicedesk/voicedesk/engine/generate"
	"github.com/voicedesk/voicedesk/engine/knowledge"
	"github.com/voicedesk/voicedesk/engine/speech"
	"github.com/voicedesk/voicedesk/pkg/config"
	"github.com/voicedesk/voicedesk/pkg/openai"
)

type cliOptions struct {
	EnableTTS bool
	EnableKB  bool
}

// cli owns the session and the resources behind it.
type cli struct {
	sess    *chatbot.Session
	store   *knowledge.Store
	logsDir string
	audio   bool
}

// newCLI wires the pipeline. Without an API credential it falls back to
// the stub generation and speech backends so the loop stays usable.
func newCLI(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts cliOptions) (*cli, error) {
	live := cfg.OpenAI.APIKey != ""
	if !live {
		fmt.Println("warning: OPENAI_API_KEY not set, running with stub backends")
	}
	client := openai.NewClient(cfg.OpenAI.APIBase, cfg.OpenAI.APIKey, 0)

	c := &cli{logsDir: cfg.Paths.LogsDir, audio: opts.EnableTTS}

	var searcher chatbot.Searcher
	if opts.EnableKB && live {
		store, err := knowledge.New(cfg.Qdrant.Addr, cfg.Qdrant.Collection, cfg.OpenAI.EmbedDims,
			&knowledge.OpenAIEmbedder{Client: client, Model: cfg.OpenAI.EmbedModel})
		if err != nil {
			return nil, err
		}
		if err := store.EnsureCollection(ctx); err != nil {
			store.Close()
			return nil, err
		}
		st, err := store.Stats(ctx)
		if err != nil {
			store.Close()
			return nil, err
		}
		if st.TotalDocuments == 0 {
			n, err := store.LoadFAQs(ctx, cfg.Paths.FAQFile)
			if err != nil {
				fmt.Printf("warning: FAQ load failed (%v), continuing without documents\n", err)
			} else {
				fmt.Printf("Knowledge base loaded: %d documents\n", n)
			}
		} else {
			fmt.Printf("Knowledge base ready: %d documents\n", st.TotalDocuments)
		}
		c.store = store
		searcher = store
	} else if opts.EnableKB {
		fmt.Println("Knowledge base disabled (no credential); answers will be ungrounded.")
	}

	var backend generate.TextGenerator
	if live {
		backend = generate.NewOpenAIBackend(client, cfg.OpenAI.Model)
	} else {
		backend = &generate.Stub{}
	}
	gen := generate.New(backend,
		generate.Options{Model: cfg.OpenAI.Model, MaxHistoryTurns: cfg.Chat.MaxHistoryTurns},
		logger,
	)

	var synth chatbot.Synthesizer
	if opts.EnableTTS {
		var sb speech.Backend
		if live {
			sb = &speech.OpenAIBackend{Client: client, Model: cfg.Speech.Model, Voice: cfg.Speech.Voice}
		} else {
			sb = speech.Stub{}
		}
		s, err := speech.New(sb, cfg.Paths.AudioDir, logger)
		if err != nil {
			return nil, err
		}
		synth = s
	}

	c.sess = chatbot.NewSession(searcher, gen, synth, cfg.Chat.TopK, logger)
	return c, nil
}

func (c *cli) close() {
	if c.store != nil {
		c.store.Close()
	}
}

// loop reads lines until quit/exit or EOF. Reserved commands are handled
// locally; anything else is a query.
func (c *cli) loop(ctx context.Context) error {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			fmt.Println()
			c.sessionSummary(ctx)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch strings.ToLower(line) {
		case "quit", "exit", "bye", "goodbye":
			c.sessionSummary(ctx)
			return nil
		case "history":
			c.showHistory()
			continue
		case "clear":
			c.sess.Reset()
			fmt.Println("Conversation history cleared.")
			continue
		case "stats":
			c.showStats(ctx)
			continue
		case "save":
			c.saveTranscript()
			continue
		case "help":
			c.showHelp()
			continue
		}

		reply, err := c.sess.HandleQuery(ctx, line, c.audio)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		fmt.Printf("\nAssistant: %s\n", reply.Answer)
		if reply.SourcesUsed > 0 {
			fmt.Printf("(%d knowledge base sources)\n", reply.SourcesUsed)
		}
		if reply.AudioPath != "" {
			fmt.Printf("Audio: %s\n", reply.AudioPath)
		} else if reply.AudioFailed {
			fmt.Println("(audio unavailable for this reply)")
		}
		fmt.Println()
	}
}

func (c *cli) showHistory() {
	history := c.sess.History()
	if len(history) == 0 {
		fmt.Println("No conversation history.")
		return
	}
	turn := 1
	for i := 0; i+1 < len(history); i += 2 {
		fmt.Printf("\nTurn %d:\n", turn)
		fmt.Printf("User: %s\n", history[i].Text)
		fmt.Printf("Assistant: %s\n", history[i+1].Text)
		turn++
	}
	fmt.Println()
}

func (c *cli) showStats(ctx context.Context) {
	st := c.sess.Stats(ctx)
	fmt.Printf("\nSession duration: %s\n", st.Duration.Round(time.Second))
	fmt.Printf("Total queries: %d\n", st.TotalQueries)
	fmt.Printf("Conversation turns: %d\n", st.ConversationTurns)
	fmt.Printf("Estimated tokens: ~%d\n", st.Tokens.Total)
	if st.Knowledge.TotalDocuments > 0 {
		fmt.Printf("Knowledge base documents: %d\n", st.Knowledge.TotalDocuments)
		for cat, n := range st.Knowledge.Categories {
			fmt.Printf("  - %s: %d\n", cat, n)
		}
	}
	fmt.Println()
}

func (c *cli) saveTranscript() {
	if len(c.sess.History()) == 0 {
		fmt.Println("No conversation to save.")
		return
	}
	if err := os.MkdirAll(c.logsDir, 0o755); err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	path := filepath.Join(c.logsDir, fmt.Sprintf("conversation_%s.txt", time.Now().Format("20060102_150405")))
	if err := c.sess.ExportTranscript(path); err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	fmt.Printf("Conversation saved to %s\n", path)
}

func (c *cli) showHelp() {
	fmt.Println("\nCommands:")
	fmt.Println("  quit/exit  - end the conversation")
	fmt.Println("  history    - view conversation history")
	fmt.Println("  clear      - clear conversation history")
	fmt.Println("  stats      - view session statistics")
	fmt.Println("  save       - save conversation transcript")
	fmt.Println("  help       - show this message")
	fmt.Println()
}

func (c *cli) sessionSummary(ctx context.Context) {
	st := c.sess.Stats(ctx)
	if st.TotalQueries == 0 {
		fmt.Println("Goodbye!")
		return
	}
	fmt.Printf("Session: %d queries over %s. Goodbye!\n",
		st.TotalQueries, st.Duration.Round(time.Second))
}
