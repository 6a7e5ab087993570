package main

import (
	"github.com/spf13/cobra"

	"BillScanner/internal/app"
	"BillScanner/internal/config"
	"BillScanner/internal/logging"
)

var watchFlag bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync bills from Open States into Postgres",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		logger := logging.New(cfg.Logging.Level)

		if err := cfg.ValidateSync(); err != nil {
			logger.Error("configuration invalid", "error", err)
			return err
		}

		application, err := app.New(cmd.Context(), cfg, logger)
		if err != nil {
			logger.Error("startup failed", "error", err)
			return err
		}
		defer application.Close()

		if watchFlag {
			return application.Watch(cmd.Context())
		}

		if err := application.Sync(cmd.Context()); err != nil {
			logger.Error("sync failed", "error", err)
			return err
		}
		return nil
	},
}

func init() {
	syncCmd.Flags().BoolVar(&watchFlag, "watch", false, "keep running and re-sync on the configured interval")
	rootCmd.AddCommand(syncCmd)
}
