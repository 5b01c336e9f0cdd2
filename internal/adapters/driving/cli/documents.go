package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var documentsJSON bool

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "Manage registered documents",
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all registered documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentsList,
}

var documentsDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a document and all its chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsDelete,
}

func init() {
	documentsListCmd.Flags().BoolVar(&documentsJSON, "json", false, "output as JSON")
	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsDeleteCmd)
	rootCmd.AddCommand(documentsCmd)
}

func runDocumentsList(cmd *cobra.Command, _ []string) error {
	if adminService == nil {
		return errors.New("admin service not configured")
	}

	records, err := adminService.ListDocuments(context.Background())
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}

	if documentsJSON {
		return printJSON(cmd, records)
	}

	if len(records) == 0 {
		cmd.Println("No documents ingested yet.")
		return nil
	}
	for _, rec := range records {
		cmd.Printf("  %-30s %-10s %5d chunks  %s\n",
			rec.DisplayName, rec.Kind, rec.ChunkCount, rec.IngestedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runDocumentsDelete(cmd *cobra.Command, args []string) error {
	if adminService == nil {
		return errors.New("admin service not configured")
	}

	rec, err := adminService.DeleteDocument(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("deleting %s: %w", args[0], err)
	}

	cmd.Printf("Deleted %s (%d chunks)\n", rec.DisplayName, rec.ChunkCount)
	return nil
}
