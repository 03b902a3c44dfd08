// Package main implements the one-shot FAQ loader: it reads a JSON file
// of documents and upserts it into the Qdrant knowledge base.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/voicedesk/voicedesk/engine/knowledge"
	"github.com/voicedesk/voicedesk/pkg/config"
	"github.com/voicedesk/voicedesk/pkg/openai"
)

var (
	flagData  string
	flagReset bool
)

func main() {
	root := &cobra.Command{
		Use:          "ingest",
		Short:        "Load FAQ documents into the knowledge base",
		SilenceUsage: true,
		RunE:         runIngest,
	}
	root.Flags().StringVar(&flagData, "data", "", "FAQ JSON file (default from DATA_PATH)")
	root.Flags().BoolVar(&flagReset, "reset", false, "drop and recreate the collection first")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runIngest(cmd *cobra.Command, _ []string) error {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(true); err != nil {
		return err
	}
	path := cfg.Paths.FAQFile
	if flagData != "" {
		path = flagData
	}

	ctx := cmd.Context()
	client := openai.NewClient(cfg.OpenAI.APIBase, cfg.OpenAI.APIKey, 0)
	store, err := knowledge.New(cfg.Qdrant.Addr, cfg.Qdrant.Collection, cfg.OpenAI.EmbedDims,
		&knowledge.OpenAIEmbedder{Client: client, Model: cfg.OpenAI.EmbedModel})
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.EnsureCollection(ctx); err != nil {
		return err
	}
	if flagReset {
		logger.Info("resetting collection", "collection", cfg.Qdrant.Collection)
		if err := store.Reset(ctx); err != nil {
			return err
		}
	}

	n, err := store.LoadFAQs(ctx, path)
	if err != nil {
		return err
	}
	logger.Info("ingest complete", "documents", n, "path", path)

	st, err := store.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("\nKnowledge base: %d documents\n", st.TotalDocuments)
	cats := make([]string, 0, len(st.Categories))
	for c := range st.Categories {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	for _, c := range cats {
		fmt.Printf("  %-16s %d\n", c, st.Categories[c])
	}
	return nil
}
