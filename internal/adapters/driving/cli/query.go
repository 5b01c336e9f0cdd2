package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kbase-cli/internal/core/domain"
)

var (
	queryTopK int
	queryJSON bool
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask the knowledge base a question",
	Long: `Embeds the question and returns the most similar chunks from the
knowledge base, ranked by similarity.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryTopK, "top", "k", 5, "maximum number of results")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return errors.New("query service not configured")
	}

	results, err := queryService.Query(context.Background(), args[0], queryTopK)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return printJSON(cmd, results)
	}
	printResults(cmd, results)
	return nil
}

func printResults(cmd *cobra.Command, results []domain.QueryResult) {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return
	}

	cmd.Println("Results:")
	cmd.Println()
	for _, r := range results {
		cmd.Printf("  [%d] %s (%.3f)\n", r.Rank, r.DocumentName, r.Similarity)
		cmd.Printf("      %s\n", r.ChunkText)
		cmd.Println()
	}
}
