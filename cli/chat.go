package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"regrag/config"
	"regrag/corpus"
	"regrag/models"
	"regrag/services"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat interactively with the document corpus",
	Long: `Starts an interactive session: every line is answered from the corpus,
with the backing sources printed under each answer. Type 'help' for the
session commands.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

var exampleQuestions = []string{
	"What are the requirements for IPO disclosure?",
	"What are the policies on mutual funds?",
	"What are the regulations for foreign investment?",
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	system, err := setupWithProgress(ctx, cfg)
	if err != nil {
		return err
	}
	defer system.Close()

	// Warn when the corpus file changes under a running session. The loaded
	// corpus and index stay as they are; the user decides when to rebuild.
	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go func() {
		err := corpus.WatchFile(watchCtx, cfg.Corpus.Path, func() {
			color.Yellow("\n! Corpus file changed on disk; answers may be stale. Run 'regrag index --rebuild' and restart.")
		})
		if err != nil && watchCtx.Err() == nil {
			log.Printf("WATCHER: stopped: %v", err)
		}
	}()

	color.Cyan("\nChat with the regulatory corpus ('help' lists commands, 'quit' exits)")

	scanner := bufio.NewScanner(os.Stdin)
	userPrompt := color.New(color.FgGreen).PrintfFunc()
	var history []models.AnsweredQuery

	for {
		userPrompt("\nYou: ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit":
			return nil
		case "help":
			printChatHelp()
			continue
		case "examples":
			color.Cyan("Example questions:")
			for _, q := range exampleQuestions {
				fmt.Printf("  - %s\n", q)
			}
			continue
		case "stats":
			stats, err := system.Stats()
			if err != nil {
				color.Red("Error: %v", err)
				continue
			}
			printStats(stats)
			continue
		case "history":
			if len(history) == 0 {
				fmt.Println("No questions asked yet.")
				continue
			}
			for i, h := range history {
				fmt.Printf("%2d. %s\n", i+1, h.Question)
			}
			continue
		case "clear":
			history = history[:0]
			fmt.Println("History cleared.")
			continue
		}

		spinner := newSpinner(" Retrieving and synthesizing...")
		result, err := system.Query(ctx, line)
		_ = spinner.Finish()
		fmt.Print("\r")
		if err != nil {
			color.Red("Error: %v", err)
			continue
		}
		history = append(history, result)
		printAnswer(result)
	}
	return scanner.Err()
}

func printChatHelp() {
	fmt.Println(`Session commands:
  help      show this help
  examples  show example questions
  stats     show corpus statistics
  history   list questions asked this session
  clear     forget the session history
  quit      leave the chat

Anything else is sent to the pipeline as a question.`)
}

// setupWithProgress runs the full bootstrap with an indexing progress bar.
// The bar only appears when documents actually get embedded; reusing an
// existing index stays quiet.
func setupWithProgress(ctx context.Context, cfg *config.Config) (*services.System, error) {
	var bar *progressbar.ProgressBar
	system, err := services.Setup(ctx, cfg, services.BuildOptions{
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
	return system, err
}
