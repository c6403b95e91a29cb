package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"regrag/corpus"
	"regrag/embed"
	"regrag/index"
	"regrag/services"
)

var rebuildIndex bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build or rebuild the vector index",
	Long: `Loads the corpus, embeds every document and populates the vector
collection. An existing collection is reused as is unless --rebuild is given.
No LLM credentials are needed.`,
	Args: cobra.NoArgs,
	RunE: runIndexBuild,
}

func init() {
	indexCmd.Flags().BoolVar(&rebuildIndex, "rebuild", false, "clear the collection and index from scratch")
	rootCmd.AddCommand(indexCmd)
}

func runIndexBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	c, err := corpus.NewLoader(cfg.Corpus.Path, cfg.Corpus.MinWordCount).Load()
	if err != nil {
		return fmt.Errorf("loading corpus: %w", err)
	}
	report := c.Report()
	color.Green("✓ Loaded %d documents (%d too short, %d parse errors)",
		c.Len(), report.FilteredShort, report.ParseErrors)

	embedder, err := embed.New(cfg.Embedding)
	if err != nil {
		return err
	}
	store, err := index.Open(ctx, cfg.Index, embedder)
	if err != nil {
		return err
	}
	defer store.Close()

	var bar *progressbar.ProgressBar
	buildReport, err := services.BuildIndex(ctx, store, c, services.BuildOptions{
		BatchSize: cfg.Index.BatchSize,
		Rebuild:   rebuildIndex,
		Progress: func(done, total int) {
			if bar == nil {
				bar = newProgressBar(total, " Embedding and indexing documents")
			}
			_ = bar.Set(done)
		},
	})
	if bar != nil {
		_ = bar.Finish()
		fmt.Println()
	}
	if err != nil {
		return fmt.Errorf("building index: %w", err)
	}

	switch {
	case buildReport.Skipped && buildReport.Stale:
		color.Yellow("! Existing index (%d entries) does not match the corpus; run with --rebuild", buildReport.Existing)
	case buildReport.Skipped:
		color.Green("✓ Using existing vector index with %d entries", buildReport.Existing)
	default:
		color.Green("✓ Indexed %d documents in %d batches", buildReport.Added, buildReport.Batches)
	}
	return nil
}
