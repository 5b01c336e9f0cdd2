package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show knowledge base statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if adminService == nil {
		return errors.New("admin service not configured")
	}

	stats, err := adminService.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("reading stats: %w", err)
	}

	if statsJSON {
		return printJSON(cmd, stats)
	}

	cmd.Printf("Documents:  %d\n", stats.DocumentCount)
	cmd.Printf("Chunks:     %d\n", stats.ChunkCount)
	cmd.Printf("Backend:    %s\n", stats.Backend)
	cmd.Printf("Profile:    %s (%d dimensions)\n", stats.Profile, stats.Dimensions)
	if stats.DegradedEmbeddings > 0 {
		cmd.Printf("Degraded:   %d embeddings stored as zero vectors\n", stats.DegradedEmbeddings)
	}
	return nil
}
