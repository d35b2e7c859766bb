// Package receipt is the extraction engine. It recovers journey records from
// the text of a Rejsekort receipt using price entries as anchors.
//
// The engine is pure: it never logs and never fails on readable text.
// Everything it is unsure about is reported as a types.Diagnostic next to
// the records.
package receipt

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/michaelloftdk/rejsekort-parser/internal/config"
	"github.com/michaelloftdk/rejsekort-parser/internal/validation"
)

// TravellersMarker introduces the traveller list of a journey.
const TravellersMarker = "Travellers"

// Patterns holds every compiled matcher used by the engine. It is built once
// from a ParserConfig and is read-only afterwards, so one value can be
// shared by any number of parsers and goroutines.
type Patterns struct {
	cfg config.ParserConfig

	// anchor matches "<fare class> <currency> 32.20".
	anchor *regexp.Regexp

	// journey matches "HH:MM origin → destination HH:MM" at the start of a
	// collapsed string.
	journey *regexp.Regexp

	arrow        *regexp.Regexp
	clock        *regexp.Regexp
	leadingClock *regexp.Regexp
	journeyStart *regexp.Regexp
	whitespace   *regexp.Regexp

	// travellerLine splits "<name> <type token>" and bare type tokens.
	travellerLine *regexp.Regexp

	validator *validation.Validator
	dates     []DateStrategy
}

var arrows = []string{"→", "->", "⟶", "➔"}

// NewPatterns compiles the matchers for cfg.
func NewPatterns(cfg config.ParserConfig) (*Patterns, error) {
	if err := config.ValidateParserConfig(cfg); err != nil {
		return nil, err
	}

	fareClasses := make([]string, 0, len(cfg.FareClasses))
	for _, fc := range cfg.FareClasses {
		fareClasses = append(fareClasses, regexp.QuoteMeta(strings.TrimSpace(fc)))
	}

	arrowAlternatives := make([]string, 0, len(arrows))
	for _, a := range arrows {
		arrowAlternatives = append(arrowAlternatives, regexp.QuoteMeta(a))
	}
	arrow := "(?:" + strings.Join(arrowAlternatives, "|") + ")"

	anchor, err := regexp.Compile(fmt.Sprintf(`(?:%s)\s+%s\s+(\d+\.\d{2})`,
		strings.Join(fareClasses, "|"), regexp.QuoteMeta(cfg.Currency)))
	if err != nil {
		return nil, fmt.Errorf("compile anchor pattern: %w", err)
	}

	p := &Patterns{
		cfg:    cfg,
		anchor: anchor,
		journey: regexp.MustCompile(`^(\d{2}:\d{2})\s+([^→⟶➔]+?)\s*` + arrow +
			`\s*([^→⟶➔]+?)\s*(\d{2}:\d{2})(?:\D|$)`),
		arrow:         regexp.MustCompile(arrow),
		clock:         regexp.MustCompile(`\b\d{2}:\d{2}\b`),
		leadingClock:  regexp.MustCompile(`^\d{2}:\d{2}\s+`),
		journeyStart:  regexp.MustCompile(`(?m)^[ \t]*\d{2}:\d{2}\s+\S`),
		whitespace:    regexp.MustCompile(`\s+`),
		travellerLine: regexp.MustCompile(`(?i)^(?:(.*?\S)\s+)?(` + travellerTokenPattern() + `)$`),
		validator:     validation.NewValidator(validation.RulesFromConfig(cfg)),
	}
	p.dates = p.buildDateStrategies()

	return p, nil
}

// DefaultPatterns builds the matchers for standard Rejsekort receipts.
func DefaultPatterns() *Patterns {
	p, err := NewPatterns(config.DefaultParserConfig())
	if err != nil {
		panic(fmt.Sprintf("receipt: default patterns: %v", err))
	}
	return p
}

// Config returns the settings the patterns were built from.
func (p *Patterns) Config() config.ParserConfig {
	return p.cfg
}

// collapse turns every whitespace run into a single space.
func (p *Patterns) collapse(s string) string {
	return strings.TrimSpace(p.whitespace.ReplaceAllString(s, " "))
}
