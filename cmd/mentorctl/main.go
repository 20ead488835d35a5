// Package main implements mentorctl, the operator CLI for the learning
// mentor data directory.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iliyamo/learning-mentor/internal/config"
	"github.com/iliyamo/learning-mentor/internal/logger"
)

var (
	// dataDir is the directory holding the CSV tables
	dataDir string
	// logMode selects the zap configuration
	logMode string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mentorctl",
	Short: "Operator commands for the learning mentor data store",
	Long: `mentorctl manages the CSV tables behind the learning mentor server.
It can create missing tables, print a user's activity summary and mirror
every table into MySQL for reporting.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.LoadEnvFile()
	},
}

func init() {
	def := os.Getenv("DATA_DIR")
	if def == "" {
		def = "data"
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", def, "directory holding the CSV tables")
	rootCmd.PersistentFlags().StringVar(&logMode, "log", "dev", "log mode (dev or prod)")
	rootCmd.AddCommand(initCmd, statsCmd, mirrorCmd)
}

func newLogger() (*logger.Logger, error) {
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}
