// =============================================================================
// Rejsekort Parser - File Manager Utility
// =============================================================================
//
// This module provides the file system helpers used by the CLI:
//   - Receipt discovery in the input directory
//   - Output directory management
//   - Output file naming
//   - Writing the output file
//
// The output file is the only thing the tool writes. Receipts are never
// moved or modified.
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultPattern matches receipt files downloaded from Rejsekort.
const DefaultPattern = "REJSEKORT_*.pdf"

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the CLI.
type FileManager struct {
	// InputDir is the directory scanned for receipts.
	InputDir string

	// OutputDir is the directory where the output file is written.
	OutputDir string

	// now is used for the {timestamp} and {date} placeholders.
	now func() time.Time
}

// NewFileManager creates a new FileManager with the specified directories.
func NewFileManager(inputDir, outputDir string) *FileManager {
	return &FileManager{
		InputDir:  inputDir,
		OutputDir: outputDir,
		now:       time.Now,
	}
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverInputFiles lists the receipts in the input directory.
//
// PARAMETERS:
//   - pattern: A glob pattern to match files. If empty, DefaultPattern.
//
// RETURNS:
//   - The matching regular files, sorted by name. Receipt names start with
//     the date, so this is also date order.
//   - An error if the pattern is malformed.
func (fm *FileManager) DiscoverInputFiles(pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}

	files, err := filepath.Glob(filepath.Join(fm.InputDir, pattern))
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}

	var result []string
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			continue
		}
		if info.Mode().IsRegular() {
			result = append(result, file)
		}
	}
	sort.Strings(result)

	return result, nil
}

// =============================================================================
// OUTPUT
// =============================================================================

// EnsureOutputDir creates the output directory if it doesn't exist.
func (fm *FileManager) EnsureOutputDir() error {
	if err := os.MkdirAll(fm.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.OutputDir, err)
	}
	return nil
}

// OutputPath resolves the output file name inside OutputDir.
func (fm *FileManager) OutputPath(nameFormat, extension string) string {
	name := GenerateOutputFileName(nameFormat, extension, nil, fm.now())
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(fm.OutputDir, name)
}

// WriteOutput writes data to path through a temporary file in the same
// directory, so an interrupted run never leaves a half-written file.
func (fm *FileManager) WriteOutput(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// =============================================================================
// FILE NAMING
// =============================================================================

// GenerateOutputFileName generates an output file name from a format string.
//
// PARAMETERS:
//   - format: The format string for the file name.
//     Placeholders:
//     {uuid}      - A random UUID
//     {timestamp} - Timestamp (YYYYMMDD_HHMMSS)
//     {date}      - Date (YYYYMMDD)
//   - extension: The extension to enforce, e.g. ".csv".
//   - params: Extra placeholder values.
//   - now: The time used for {timestamp} and {date}.
//
// EXAMPLE:
//
//	format: "journeys_{date}"
//	output: "journeys_20260103.csv"
func GenerateOutputFileName(format, extension string, params map[string]string, now time.Time) string {
	replacements := map[string]string{
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
	}
	if strings.Contains(format, "{uuid}") {
		replacements["{uuid}"] = uuid.New().String()
	}
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if extension != "" && !strings.EqualFold(filepath.Ext(result), extension) {
		result += extension
	}

	return result
}
