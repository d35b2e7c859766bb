// =============================================================================
// Rejsekort Parser - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (rejsekort)
//   ├── processCmd (rejsekort process)
//   ├── textCmd    (rejsekort text)
//   └── versionCmd (rejsekort version)
//
// The root command owns the global flags and sets up logging before any
// subcommand runs.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/michaelloftdk/rejsekort-parser/internal/config"
	"github.com/michaelloftdk/rejsekort-parser/internal/logutils"
)

var log = logrus.StandardLogger().WithField("package", "cmd")

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose enables debug logging and DEBUG diagnostics.
var verbose bool

// logLevel overrides the configured log level.
var logLevel string

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "rejsekort",
	Short: "Rejsekort receipt parser - turn PDF receipts into a journey spreadsheet",
	Long: `rejsekort reads the PDF receipts issued by Rejsekort and extracts one
record per journey: date, departure and arrival time, origin, destination,
travellers and price. The records are written as a semicolon separated CSV
file (UTF-8 with BOM, decimal comma) that opens directly in Excel, or as an
XLSX workbook.

Receipt layouts are not fully reliable, so the parser reports what it is
unsure about instead of guessing. Fields it cannot recover are written as
"Unknown".

Example Usage:
  rejsekort process                              # All REJSEKORT_*.pdf in the current directory
  rejsekort process receipts/*.pdf -o trips.csv  # Specific files
  rejsekort process --format xlsx                # Excel output
  rejsekort text REJSEKORT_2026-01-03_x.pdf      # Show the extracted text`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging("")
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
// Ctrl-C stops receipts that have not started yet.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		config.DefaultConfigFile,
		"Path to the configuration file (optional unless given explicitly)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug output, including parser DEBUG diagnostics",
	)

	rootCmd.PersistentFlags().StringVar(
		&logLevel,
		"log-level",
		"",
		"Log level: debug, info, warn, error (overrides the configuration)",
	)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// setupLogging applies the log level. Precedence: --verbose, --log-level,
// then the configured level.
func setupLogging(configured string) {
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	switch {
	case verbose:
		logutils.SetLoggerLevel("debug")
	case logLevel != "":
		logutils.SetLoggerLevel(logLevel)
	case configured != "":
		logutils.SetLoggerLevel(configured)
	default:
		logutils.SetLoggerLevel("info")
	}
}

// loadConfig reads the configuration. The default file is optional; a file
// named with --config must exist.
func loadConfig() (*config.MainConfig, error) {
	required := rootCmd.PersistentFlags().Changed("config")
	cfg, err := config.LoadMainConfig(cfgFile, required)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	setupLogging(cfg.LogLevel)
	return cfg, nil
}
