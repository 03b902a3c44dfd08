// Package main implements the interactive VoiceDesk terminal client.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/voicedesk/voicedesk/pkg/config"
)

var (
	flagNoTTS bool
	flagNoKB  bool
	flagData  string
)

func main() {
	root := &cobra.Command{
		Use:          "chatbot",
		Short:        "Interactive retrieval-augmented FAQ assistant",
		Long:         "Chat against the FAQ knowledge base from the terminal, with optional spoken answers.",
		SilenceUsage: true,
		RunE:         runInteractive,
	}
	root.Flags().BoolVar(&flagNoTTS, "no-tts", false, "disable text-to-speech")
	root.Flags().BoolVar(&flagNoKB, "no-kb", false, "skip knowledge base initialization")
	root.Flags().StringVar(&flagData, "data", "", "FAQ JSON file (default from DATA_PATH)")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runInteractive(cmd *cobra.Command, _ []string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(false); err != nil {
		return err
	}
	if flagData != "" {
		cfg.Paths.FAQFile = flagData
	}

	cli, err := newCLI(cmd.Context(), cfg, logger, cliOptions{
		EnableTTS: !flagNoTTS,
		EnableKB:  !flagNoKB,
	})
	if err != nil {
		return err
	}
	defer cli.close()

	fmt.Println("VoiceDesk - intelligent FAQ assistant")
	fmt.Println("Type a question, or 'help' for commands.")
	fmt.Println()

	return cli.loop(cmd.Context())
}
