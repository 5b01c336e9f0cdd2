package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kbase-cli/internal/core/domain"
)

var (
	ingestPattern string
	ingestJSON    bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Ingest a file or directory into the knowledge base",
	Long: `Ingests a file into the knowledge base: the content is normalised,
split into overlapping chunks, embedded and stored. Pointing at a
directory ingests every matching file; duplicates and unsupported
files are skipped, not errors.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestPattern, "pattern", "p", "*", "glob pattern for directory ingestion")
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	path := args[0]
	ctx := context.Background()

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access %s: %w", path, err)
	}

	if info.IsDir() {
		batch, err := ingestService.IngestDirectory(ctx, path, ingestPattern)
		if err != nil {
			return fmt.Errorf("ingesting directory: %w", err)
		}
		if ingestJSON {
			return printJSON(cmd, batch)
		}
		printBatch(cmd, batch)
		return nil
	}

	outcome, err := ingestService.Ingest(ctx, path)
	if err != nil {
		return fmt.Errorf("ingesting %s: %w", path, err)
	}
	if ingestJSON {
		return printJSON(cmd, outcome)
	}
	printOutcome(cmd, outcome)
	return nil
}

func printOutcome(cmd *cobra.Command, outcome *domain.IngestOutcome) {
	if outcome.Accepted {
		cmd.Printf("Ingested %s (%d chunks)\n", outcome.DisplayName, outcome.ChunksWritten)
		return
	}
	cmd.Printf("Skipped %s: %s\n", outcome.DisplayName, outcome.Reason)
}

func printBatch(cmd *cobra.Command, batch *domain.BatchOutcome) {
	for _, file := range batch.Files {
		if file.Err != "" {
			cmd.Printf("Failed %s: %s\n", file.Path, file.Err)
			continue
		}
		printOutcome(cmd, file.Outcome)
	}
	cmd.Printf("\nRun %s: %d ingested, %d skipped, %d failed\n",
		batch.RunID, batch.Ingested, batch.Skipped, batch.Failed)
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
