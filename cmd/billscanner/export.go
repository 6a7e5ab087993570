package main

import (
	"github.com/spf13/cobra"

	"BillScanner/internal/app"
	"BillScanner/internal/config"
	"BillScanner/internal/logging"
)

var exportPath string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write all bills to a JSON snapshot file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		logger := logging.New(cfg.Logging.Level)

		application, err := app.New(cmd.Context(), cfg, logger)
		if err != nil {
			logger.Error("startup failed", "error", err)
			return err
		}
		defer application.Close()

		if err := application.Export(cmd.Context(), exportPath); err != nil {
			logger.Error("export failed", "error", err)
			return err
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportPath, "out", "bills.json", "output path for the JSON snapshot")
	rootCmd.AddCommand(exportCmd)
}
