// =============================================================================
// Rejsekort Parser - Converter Module
// =============================================================================
//
// This module runs the pipeline for a single receipt and for batches of
// receipts. It is the only place where the pure extraction engine meets the
// file system.
//
// CONVERSION PIPELINE:
//   1. Extract the text of the PDF
//   2. Parse the text into journey records and diagnostics
//   3. Collect statistics
//
// CONCURRENCY:
//   Receipts share no mutable state, so RunBatch processes them in parallel
//   with a bounded number of workers. Results keep the input order. A receipt
//   that cannot be read fails on its own; the rest of the batch continues.
//
// =============================================================================

package converter

import (
	"context"
	"fmt"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/michaelloftdk/rejsekort-parser/internal/pdftext"
	"github.com/michaelloftdk/rejsekort-parser/internal/receipt"
	"github.com/michaelloftdk/rejsekort-parser/internal/types"
)

var log = logrus.StandardLogger().WithField("package", "converter")

// previewLength is how much text is logged when a receipt yields no journeys.
const previewLength = 500

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single receipt.
type Result struct {
	// FilePath is the path to the receipt that was processed.
	FilePath string

	// Records are the extracted journeys in document order.
	Records []types.JourneyRecord

	// Diagnostics are the parser messages for this receipt.
	Diagnostics []types.Diagnostic

	// Date is the document date shared by all records.
	Date types.DocumentDate

	// Success is false only when the receipt could not be read as text.
	// A readable receipt with warnings, or even without journeys, succeeds.
	Success bool

	// Error contains the error if processing failed.
	Error error

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// TextLength is the number of characters extracted from the PDF.
	TextLength int

	// JourneysFound is the number of price anchors, and therefore records.
	JourneysFound int

	// Warnings and Errors count the diagnostics by level.
	Warnings int
	Errors   int

	// ProcessingTime is the time taken to process the file.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// TextExtractor turns a receipt file into plain text.
type TextExtractor func(path string) (string, error)

// Converter handles a single receipt.
type Converter struct {
	// path is the receipt file.
	path string

	// parser is shared by every converter of a batch.
	parser *receipt.Parser

	// verbose keeps DEBUG diagnostics.
	verbose bool

	// extract reads the text of the receipt.
	extract TextExtractor
}

// Option configures a Converter.
type Option func(*Converter)

// WithVerbose keeps DEBUG diagnostics in the result.
func WithVerbose(verbose bool) Option {
	return func(c *Converter) {
		c.verbose = verbose
	}
}

// WithExtractor replaces the PDF text extractor.
func WithExtractor(extract TextExtractor) Option {
	return func(c *Converter) {
		c.extract = extract
	}
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a new Converter instance.
//
// PARAMETERS:
//   - path:   the receipt file.
//   - parser: the receipt parser; nil means the default parser.
//   - opts:   optional settings.
func New(path string, parser *receipt.Parser, opts ...Option) *Converter {
	if parser == nil {
		parser = receipt.NewParser(nil)
	}
	c := &Converter{
		path:    path,
		parser:  parser,
		extract: pdftext.ExtractFile,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the pipeline for the receipt.
func (c *Converter) Run() Result {
	startTime := time.Now()
	result := Result{FilePath: c.path}
	logger := log.WithField("file", filepath.Base(c.path))

	// =========================================================================
	// STEP 1: EXTRACT TEXT
	// =========================================================================

	logger.Debug("extracting text")

	text, err := c.extract(c.path)
	if err != nil {
		result.Error = fmt.Errorf("failed to extract text from %s: %w", filepath.Base(c.path), err)
		result.Stats.ProcessingTime = time.Since(startTime)
		return result
	}
	result.Stats.TextLength = utf8.RuneCountInString(text)

	// =========================================================================
	// STEP 2: PARSE
	// =========================================================================

	parsed := c.parser.Parse(text, c.path, c.verbose)
	result.Records = parsed.Records
	result.Diagnostics = parsed.Diagnostics
	result.Date = parsed.Date

	if parsed.AnchorCount == 0 || parsed.HasErrors() {
		logger.Debugf("incomplete parse; text starts with: %q", preview(text))
	}

	// =========================================================================
	// COMPLETE
	// =========================================================================

	result.Success = true
	result.Stats.JourneysFound = parsed.AnchorCount
	result.Stats.Warnings = parsed.Count(types.LevelWarning)
	result.Stats.Errors = parsed.Count(types.LevelError)
	result.Stats.ProcessingTime = time.Since(startTime)

	logger.WithFields(logrus.Fields{
		"journeys": result.Stats.JourneysFound,
		"date":     result.Date.String(),
		"elapsed":  result.Stats.ProcessingTime,
	}).Debug("receipt processed")

	return result
}

// =============================================================================
// BATCH PROCESSING
// =============================================================================

// RunBatch processes receipts concurrently with at most limit workers.
// Results are returned in the order of paths. Cancelling ctx skips the
// receipts that have not started yet; their results carry ctx.Err().
func RunBatch(ctx context.Context, paths []string, parser *receipt.Parser, limit int, opts ...Option) []Result {
	if parser == nil {
		parser = receipt.NewParser(nil)
	}
	if limit < 1 {
		limit = 1
	}

	results := make([]Result, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{FilePath: path, Error: err}
				return nil
			}
			results[i] = New(path, parser, opts...).Run()
			return nil
		})
	}

	// Workers never return errors; failures live in each Result.
	_ = g.Wait()

	return results
}

// preview returns the first previewLength characters of text.
func preview(text string) string {
	n := 0
	for i := range text {
		if n == previewLength {
			return text[:i]
		}
		n++
	}
	return text
}
