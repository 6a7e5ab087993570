package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "billscanner",
	Short:         "Track state legislature bills: sync, serve and export",
	SilenceUsage:  true,
	SilenceErrors: false,
}
