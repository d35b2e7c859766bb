// =============================================================================
// Rejsekort Parser - Configuration Module
// =============================================================================
//
// This module loads and validates the application configuration. A single
// YAML file holds two groups of settings:
//   1. Main settings: where receipts are found and where output is written
//   2. Parser settings: markers and thresholds used by the extraction engine
//
// The configuration file is optional. When the default file is absent the
// built-in defaults are used; an explicitly requested file must exist.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the file looked up when --config is not given.
const DefaultConfigFile = "rejsekort.yaml"

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Output formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// INPUT SETTINGS
	// =========================================================================

	// InputDir is scanned for receipts when no files are given on the
	// command line.
	// Default: "."
	InputDir string `yaml:"input_dir"`

	// FilePattern is the glob used inside InputDir.
	// Default: "REJSEKORT_*.pdf"
	FilePattern string `yaml:"file_pattern"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputDir is where the rendered file is written.
	// Default: "."
	OutputDir string `yaml:"output_dir"`

	// OutputFile is the output file name. Placeholders:
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {date}      - Current date (YYYYMMDD)
	// Default: "rejsekort_journeys.csv"
	OutputFile string `yaml:"output_file"`

	// OutputFormat is "csv" or "xlsx".
	// Default: "csv"
	OutputFormat string `yaml:"output_format"`

	// SortByDate orders records of different receipts by document date.
	// Records of the same receipt always keep document order.
	// Default: true
	SortByDate *bool `yaml:"sort_by_date"`

	// =========================================================================
	// LOGGING / PROCESSING SETTINGS
	// =========================================================================

	// LogLevel controls logrus verbosity: "debug", "info", "warn", "error".
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// MaxConcurrency is the maximum number of receipts parsed at once.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`

	// Parser holds the extraction engine settings.
	Parser ParserConfig `yaml:"parser"`
}

// =============================================================================
// PARSER CONFIGURATION STRUCTURE
// =============================================================================

// ParserConfig tunes the extraction engine. Every field has a default that
// matches the receipts issued by Rejsekort.
type ParserConfig struct {
	// SectionHeader marks the start of the journeys list.
	SectionHeader string `yaml:"section_header"`

	// SectionEndMarkers terminate the journeys list. The first one found
	// after the header wins.
	SectionEndMarkers []string `yaml:"section_end_markers"`

	// FareClasses are the ticket-class tokens that precede a price.
	FareClasses []string `yaml:"fare_classes"`

	// Currency is the currency code between fare class and amount.
	Currency string `yaml:"currency"`

	// LookbackWindow bounds the backward journey scan, in bytes.
	LookbackWindow int `yaml:"lookback_window"`

	// TravellerDistanceWarning is the anchor-to-"Travellers" distance
	// above which a warning is emitted.
	TravellerDistanceWarning int `yaml:"traveller_distance_warning"`

	// MinLocationLength and MaxLocationLength bound location names, in runes.
	MinLocationLength int `yaml:"min_location_length"`
	MaxLocationLength int `yaml:"max_location_length"`

	// MaxSpecialCharRatio is the share of unusual characters above which a
	// location is flagged.
	MaxSpecialCharRatio float64 `yaml:"max_special_char_ratio"`

	// MinYear is the earliest plausible receipt year.
	MinYear int `yaml:"min_year"`
}

// DefaultParserConfig returns the parser settings for standard receipts.
func DefaultParserConfig() ParserConfig {
	var c ParserConfig
	applyParserDefaults(&c)
	return c
}

// DefaultMainConfig returns the configuration used when no file is present.
func DefaultMainConfig() *MainConfig {
	var c MainConfig
	applyMainConfigDefaults(&c)
	return &c
}

// ShouldSortByDate reports the effective sort_by_date value.
func (c *MainConfig) ShouldSortByDate() bool {
	return c.SortByDate == nil || *c.SortByDate
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads the configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//   - required:   When false, a missing file yields the defaults.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read, parsed or validated.
func LoadMainConfig(configPath string, required bool) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return DefaultMainConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseMainConfig(data)
}

// ParseMainConfig parses YAML bytes, applies defaults and validates.
func ParseMainConfig(data []byte) (*MainConfig, error) {
	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.InputDir == "" {
		config.InputDir = "."
	}
	if config.FilePattern == "" {
		config.FilePattern = "REJSEKORT_*.pdf"
	}
	if config.OutputDir == "" {
		config.OutputDir = "."
	}
	if config.OutputFile == "" {
		config.OutputFile = "rejsekort_journeys.csv"
	}
	if config.OutputFormat == "" {
		config.OutputFormat = FormatCSV
	}
	config.OutputFormat = strings.ToLower(config.OutputFormat)
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 4
	}
	applyParserDefaults(&config.Parser)
}

func applyParserDefaults(p *ParserConfig) {
	if p.SectionHeader == "" {
		p.SectionHeader = "Journeys"
	}
	if len(p.SectionEndMarkers) == 0 {
		p.SectionEndMarkers = []string{"Subtotal"}
	}
	if len(p.FareClasses) == 0 {
		p.FareClasses = []string{"Standard"}
	}
	if p.Currency == "" {
		p.Currency = "DKK"
	}
	if p.LookbackWindow == 0 {
		p.LookbackWindow = 400
	}
	if p.TravellerDistanceWarning == 0 {
		p.TravellerDistanceWarning = 500
	}
	if p.MinLocationLength == 0 {
		p.MinLocationLength = 3
	}
	if p.MaxLocationLength == 0 {
		p.MaxLocationLength = 100
	}
	if p.MaxSpecialCharRatio == 0 {
		p.MaxSpecialCharRatio = 0.3
	}
	if p.MinYear == 0 {
		p.MinYear = 2020
	}
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	switch config.OutputFormat {
	case FormatCSV, FormatXLSX:
	default:
		return fmt.Errorf("%w: output_format %q (want csv or xlsx)", ErrInvalidConfig, config.OutputFormat)
	}
	if config.MaxConcurrency < 0 {
		return fmt.Errorf("%w: max_concurrency must be positive", ErrInvalidConfig)
	}
	return ValidateParserConfig(config.Parser)
}

// ValidateParserConfig checks that the parser settings are usable.
func ValidateParserConfig(p ParserConfig) error {
	if strings.TrimSpace(p.SectionHeader) == "" {
		return fmt.Errorf("%w: parser.section_header is empty", ErrInvalidConfig)
	}
	for _, fc := range p.FareClasses {
		if strings.TrimSpace(fc) == "" {
			return fmt.Errorf("%w: parser.fare_classes contains an empty entry", ErrInvalidConfig)
		}
	}
	if p.LookbackWindow < 0 || p.TravellerDistanceWarning < 0 {
		return fmt.Errorf("%w: parser window sizes must be positive", ErrInvalidConfig)
	}
	if p.MinLocationLength > p.MaxLocationLength {
		return fmt.Errorf("%w: parser.min_location_length exceeds max_location_length", ErrInvalidConfig)
	}
	if p.MaxSpecialCharRatio < 0 || p.MaxSpecialCharRatio > 1 {
		return fmt.Errorf("%w: parser.max_special_char_ratio must be within [0, 1]", ErrInvalidConfig)
	}
	return nil
}
