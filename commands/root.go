package commands

import (
	"context"

	"autobid/config"
	"autobid/utils"

	"github.com/spf13/cobra"
)

// Execute runs the autobid command line. With no subcommand it serves.
func Execute() error {
	root := &cobra.Command{
		Use:   "autobid",
		Short: "Vehicle booking wizard and pricing service",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadConfig()
			utils.InitializeLogger()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
		SilenceUsage: true,
	}

	root.AddCommand(serveCmd(), quoteCmd())
	return root.ExecuteContext(context.Background())
}
