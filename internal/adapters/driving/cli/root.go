// Package cli is the command-line driving adapter for the kbase tool.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/kbase-cli/internal/core/ports/driving"
	"github.com/custodia-labs/kbase-cli/internal/logger"
)

// Services injected by the composition root before Execute runs.
var (
	ingestService driving.IngestService
	queryService  driving.QueryService
	adminService  driving.AdminService
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "kbase",
	Short: "Personal knowledge base with semantic retrieval",
	Long: `kbase ingests your documents into a local knowledge base and
answers questions against them with vector similarity search.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose output")
}

// SetServices wires the application services into the command tree.
func SetServices(ingest driving.IngestService, query driving.QueryService, admin driving.AdminService) {
	ingestService = ingest
	queryService = query
	adminService = admin
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
