package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"regrag/corpus"
	"regrag/embed"
	"regrag/index"
	"regrag/llm"
	"regrag/services"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus statistics and pipeline readiness",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	c, err := corpus.NewLoader(cfg.Corpus.Path, cfg.Corpus.MinWordCount).Load()
	if err != nil {
		return fmt.Errorf("loading corpus: %w", err)
	}

	system := services.NewSystem(cfg.Retrieval).WithCorpus(c)

	// Attach whatever else is reachable so the readiness flags mean
	// something, but never require credentials just to look at stats.
	if embedder, err := embed.New(cfg.Embedding); err == nil {
		if store, err := index.Open(ctx, cfg.Index, embedder); err == nil {
			defer store.Close()
			if n, err := store.Count(ctx); err == nil && n > 0 {
				system = system.WithEmbedder(embedder).WithIndex(store)
			}
		}
	}
	if synth, err := llm.New(ctx, cfg.LLM); err == nil {
		system = system.WithSynthesizer(synth)
	}

	stats, err := system.Stats()
	if err != nil {
		return err
	}
	printStats(stats)
	return nil
}
