// Package cli exposes the retrieval pipeline as a command tree: an
// interactive chat loop, a one-shot query, index maintenance and corpus
// statistics.
package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"regrag/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "regrag",
	Short: "Ask questions against a regulatory document corpus",
	Long: `regrag answers natural-language questions about a corpus of regulatory
documents. It loads pre-chunked document records, indexes them in a vector
collection and serves retrieval-augmented answers through a language model.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
}

// loadConfig resolves the configuration and rejects invalid values before any
// pipeline stage starts.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if problems := cfg.Validate(); len(problems) > 0 {
		for _, p := range problems {
			color.Red("config: %v", p)
		}
		return nil, fmt.Errorf("invalid configuration (%d problems)", len(problems))
	}
	return cfg, nil
}
