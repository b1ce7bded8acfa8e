// Package cmd implements the statement-normalizer command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-normalizer/internal/config"
	"github.com/insightdelivered/statement-normalizer/internal/logger"
)

var (
	cfgFile string
	envFile string
	verbose bool

	// Loaded by the root command before any subcommand runs.
	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "statement-normalizer",
	Short: "Normalize Latvian bank statement exports",
	Long: `statement-normalizer reads account exports from Latvian banks and turns
them into one normalized statement: signed amounts in EUR, categorized
transactions and the counterparty accounts seen in the export.

Supported exports:
  swedbank            Swedbank CSV (";"-separated)
  swedbank-fidavista  Swedbank FiDAViSta XML
  seb                 SEB CSV
  dnb                 DNB FiDAViSta XML
  citadele            Citadele FiDAViSta XML

Amounts in lats (LVL) are converted to euro at the fixed rate 0.702804.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command. It is called once by main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to a .env file with STMTNORM_* overrides")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func setup() error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}

	c, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg = c

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	if verbose {
		level = zerolog.DebugLevel
	}
	log = logger.New().Level(level)
	return nil
}
