package cmd

import (
	"log"

	"staysync/core/config"
	"staysync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one reconciliation pass and exit",
	Long: `Fetches every property's feed, converges the booking platform and the
mirror calendar, publishes the availability snapshot, and exits. Intended for
cron jobs and one-off manual runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		service, err := buildService(cfg, logg)
		if err != nil {
			return err
		}

		results := service.RunAll(cmd.Context())

		for name, stats := range results {
			logg.Info("Property result",
				zap.String("property", name),
				zap.Int("created", stats.Created),
				zap.Int("cancelled", stats.Cancelled),
				zap.Int("deleted", stats.Deleted),
				zap.Int("errors", stats.Errors))
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(syncCmd)
}
