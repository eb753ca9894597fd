package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/po-tracker/internal/common"
)

var (
	inMemory bool
	logLevel string

	cfg    *common.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "po-cli",
	Short: "Purchase order OCR and extraction tools",
	Long: `po-cli runs the purchase order pipeline from the command line: OCR a single
document, classify its text, or batch-process a directory and export the
registered orders to XLSX.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = common.LoadConfig()
		if inMemory {
			cfg.Database.InMemory = true
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		logger = common.NewLogger(cfg.Log, os.Stderr)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&inMemory, "inmem", false, "use an in-memory SQLite database")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
