package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var queryJSON bool

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a single question and print the answer",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuery,
}

func init() {
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "print the full result as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
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

	result, err := system.Query(ctx, args[0])
	if err != nil {
		return err
	}

	if queryJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}
	printAnswer(result)
	return nil
}
