package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage knowledge base settings",
}

var settingsProfileCmd = &cobra.Command{
	Use:   "profile [id]",
	Short: "Set the embedding profile",
	Long: `Sets the embedding profile and persists the change. Existing vectors
were produced under the old profile and are not comparable: delete and
re-ingest your documents after switching.`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsProfile,
}

var settingsBackendCmd = &cobra.Command{
	Use:   "backend [id]",
	Short: "Set the storage backend",
	Long:  `Sets the vector store backend. The change takes effect on next start.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsBackend,
}

func init() {
	settingsCmd.AddCommand(settingsProfileCmd)
	settingsCmd.AddCommand(settingsBackendCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsProfile(cmd *cobra.Command, args []string) error {
	if adminService == nil {
		return errors.New("admin service not configured")
	}

	if err := adminService.SetProfile(context.Background(), args[0]); err != nil {
		return fmt.Errorf("setting profile: %w", err)
	}
	cmd.Printf("Embedding profile set to %s. Re-ingest documents for it to take effect.\n", args[0])
	return nil
}

func runSettingsBackend(cmd *cobra.Command, args []string) error {
	if adminService == nil {
		return errors.New("admin service not configured")
	}

	if err := adminService.SetBackend(context.Background(), args[0]); err != nil {
		return fmt.Errorf("setting backend: %w", err)
	}
	cmd.Printf("Storage backend set to %s. Takes effect on next start.\n", args[0])
	return nil
}
