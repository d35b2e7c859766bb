// =============================================================================
// Rejsekort Parser - Process Command
// =============================================================================
//
// This file defines the 'process' command, the main command of the tool.
//
// COMMAND USAGE:
//   rejsekort process [files...] [flags]
//
// FLAGS:
//   --output, -o : Output file name (placeholders {date}, {timestamp}, {uuid})
//   --format     : csv or xlsx
//   --dry-run    : Print the summary without writing the output file
//   --no-sort    : Keep input order instead of ordering by receipt date
//
// PROCESSING PIPELINE:
//   1. Load the configuration
//   2. Use the files given as arguments, or discover receipts in input_dir
//   3. Parse every receipt (concurrently)
//   4. Report per-file results and parser diagnostics
//   5. Print the journey summary
//   6. Write the CSV or XLSX file
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/michaelloftdk/rejsekort-parser/internal/config"
	"github.com/michaelloftdk/rejsekort-parser/internal/converter"
	"github.com/michaelloftdk/rejsekort-parser/internal/csvwriter"
	"github.com/michaelloftdk/rejsekort-parser/internal/receipt"
	"github.com/michaelloftdk/rejsekort-parser/internal/report"
	"github.com/michaelloftdk/rejsekort-parser/internal/types"
	"github.com/michaelloftdk/rejsekort-parser/internal/xlsxwriter"
	"github.com/michaelloftdk/rejsekort-parser/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	outputFile   string
	outputFormat string
	dryRun       bool
	noSort       bool
)

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

var processCmd = &cobra.Command{
	Use:   "process [files...]",
	Short: "Extract journeys from Rejsekort receipts",
	Long: `The process command parses Rejsekort PDF receipts and writes one row per
journey to a single output file.

Without arguments, the receipts matching file_pattern (default
REJSEKORT_*.pdf) in input_dir are processed.

A receipt that cannot be read is reported and skipped; the other receipts are
still processed. Warnings about suspect fields never stop processing.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file name (overrides output_file)")
	processCmd.Flags().StringVar(&outputFormat, "format", "", "Output format: csv or xlsx (overrides output_format)")
	processCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the summary without writing the output file")
	processCmd.Flags().BoolVar(&noSort, "no-sort", false, "Keep input order instead of sorting by receipt date")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runProcess(cmd *cobra.Command, args []string) error {
	startTime := time.Now()
	out := cmd.OutOrStdout()

	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if outputFile != "" {
		cfg.OutputFile = outputFile
	}
	if outputFormat != "" {
		cfg.OutputFormat = strings.ToLower(outputFormat)
		if cfg.OutputFormat != config.FormatCSV && cfg.OutputFormat != config.FormatXLSX {
			return fmt.Errorf("%w: --format %q (want csv or xlsx)", config.ErrInvalidConfig, outputFormat)
		}
	}

	patterns, err := receipt.NewPatterns(cfg.Parser)
	if err != nil {
		return fmt.Errorf("failed to build parser: %w", err)
	}
	parser := receipt.NewParser(patterns)

	// =========================================================================
	// STEP 2: DISCOVER INPUT FILES
	// =========================================================================

	fm := utils.NewFileManager(cfg.InputDir, cfg.OutputDir)

	files := args
	if len(files) == 0 {
		files, err = fm.DiscoverInputFiles(cfg.FilePattern)
		if err != nil {
			return fmt.Errorf("failed to discover input files: %w", err)
		}
	}
	if len(files) == 0 {
		fmt.Fprintf(out, "No receipts matching %s found in %s\n", cfg.FilePattern, cfg.InputDir)
		return nil
	}

	fmt.Fprintf(out, "Found %d receipt(s) to process\n", len(files))

	// =========================================================================
	// STEP 3: PARSE RECEIPTS
	// =========================================================================

	results := converter.RunBatch(cmd.Context(), files, parser, cfg.MaxConcurrency, converter.WithVerbose(verbose))

	// =========================================================================
	// STEP 4: REPORT PER-FILE RESULTS
	// =========================================================================

	var (
		records                  []types.JourneyRecord
		successCount, errorCount int
	)
	for _, result := range results {
		name := filepath.Base(result.FilePath)
		if !result.Success {
			errorCount++
			fmt.Fprintf(out, "  ✗ %s: %v\n", name, result.Error)
			continue
		}

		successCount++
		fmt.Fprintf(out, "  ✓ %s: %d journey(s), date %s\n", name, len(result.Records), result.Date)
		logDiagnostics(log.WithField("file", name), result.Diagnostics)
		records = append(records, result.Records...)
	}

	if cfg.ShouldSortByDate() && !noSort {
		sortByDate(records)
	}

	// =========================================================================
	// STEP 5: PRINT SUMMARY
	// =========================================================================

	fmt.Fprintln(out)
	if len(records) == 0 {
		fmt.Fprintln(out, "No journeys found.")
	} else if err := report.Write(out, records, parser.Patterns().Config().Currency); err != nil {
		return fmt.Errorf("failed to print summary: %w", err)
	}

	fmt.Fprintln(out, "\n=== Processing Complete ===")
	fmt.Fprintf(out, "Total files:     %d\n", len(files))
	fmt.Fprintf(out, "Successful:      %d\n", successCount)
	fmt.Fprintf(out, "Errors:          %d\n", errorCount)
	fmt.Fprintf(out, "Time elapsed:    %s\n", time.Since(startTime).Round(time.Millisecond))

	// =========================================================================
	// STEP 6: WRITE OUTPUT FILE
	// =========================================================================

	if dryRun {
		fmt.Fprintln(out, "\nDry run: no output written.")
		return nil
	}
	if len(records) == 0 {
		return nil
	}

	data, err := render(cfg.OutputFormat, records)
	if err != nil {
		return err
	}

	if err := fm.EnsureOutputDir(); err != nil {
		return err
	}
	path := fm.OutputPath(outputName(cfg.OutputFile, cfg.OutputFormat), "."+cfg.OutputFormat)
	if err := fm.WriteOutput(path, data); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nWrote %d journey(s) to %s\n", len(records), path)
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// render formats records in the requested output format.
func render(format string, records []types.JourneyRecord) ([]byte, error) {
	switch format {
	case config.FormatXLSX:
		return xlsxwriter.Format(records)
	default:
		return csvwriter.Format(records)
	}
}

// outputName drops a .csv or .xlsx extension that contradicts the format,
// so the default "rejsekort_journeys.csv" becomes "rejsekort_journeys.xlsx".
func outputName(name, format string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if (ext == ".csv" || ext == ".xlsx") && ext != "."+format {
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	return name
}

// sortByDate orders records by receipt date, then by departure time. The
// sort is stable, so records that tie keep their input order. Records
// without a date or time go after the ones that have one.
func sortByDate(records []types.JourneyRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].Date, records[j].Date
		if a.Known != b.Known {
			return a.Known
		}
		if !a.Value.Equal(b.Value) {
			return a.Value.Before(b.Value)
		}

		ta, tb := records[i].Journey.DepartureTime, records[j].Journey.DepartureTime
		if knownTime(ta) != knownTime(tb) {
			return knownTime(ta)
		}
		// HH:MM sorts correctly as a string.
		return ta < tb
	})
}

func knownTime(hhmm string) bool {
	return hhmm != "" && hhmm != types.Unknown
}

// logDiagnostics renders parser diagnostics through the logger.
func logDiagnostics(logger *logrus.Entry, diags []types.Diagnostic) {
	for _, d := range diags {
		entry := logger
		if d.Anchor != types.NoAnchor {
			entry = entry.WithField("journey", d.Anchor+1)
		}
		switch d.Level {
		case types.LevelError:
			entry.Error(d.Message)
		case types.LevelWarning:
			entry.Warn(d.Message)
		default:
			entry.Debug(d.Message)
		}
	}
}
