// =============================================================================
// Rejsekort Parser - Field Validator
// =============================================================================
//
// This module scores extracted location strings for plausibility. It never
// changes a value; it only returns a verdict that the caller turns into a
// diagnostic.
//
// RULES (applied in order, the first failing rule decides):
//   1. Length below the minimum          -> Reject ("too short")
//   2. Length above the maximum          -> Reject ("too long")
//   3. Too many unusual characters       -> Warn   ("too many special characters")
//
// Lengths count runes, so "Åbyhøj" is six characters long.
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/michaelloftdk/rejsekort-parser/internal/config"
)

// =============================================================================
// VERDICT
// =============================================================================

// Status is the outcome of a validation.
type Status int

const (
	// Accept means the value looks like a location.
	Accept Status = iota

	// Warn means the value is kept but suspect.
	Warn

	// Reject means the value must not be used.
	Reject
)

func (s Status) String() string {
	switch s {
	case Accept:
		return "accept"
	case Warn:
		return "warn"
	case Reject:
		return "reject"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Verdict is the result of validating one value.
type Verdict struct {
	Status Status

	// Reason is empty for Accept.
	Reason string

	// Value is the validated value, unchanged.
	Value string
}

// Usable reports whether the caller may keep the value.
func (v Verdict) Usable() bool {
	return v.Status != Reject
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Rules are the thresholds used by a Validator.
type Rules struct {
	MinLength       int
	MaxLength       int
	MaxSpecialRatio float64
}

// DefaultRules returns the thresholds for receipt locations.
func DefaultRules() Rules {
	return RulesFromConfig(config.DefaultParserConfig())
}

// RulesFromConfig copies the thresholds out of the parser configuration.
func RulesFromConfig(c config.ParserConfig) Rules {
	return Rules{
		MinLength:       c.MinLocationLength,
		MaxLength:       c.MaxLocationLength,
		MaxSpecialRatio: c.MaxSpecialCharRatio,
	}
}

// Validator validates location candidates. It is safe for concurrent use.
type Validator struct {
	rules Rules
}

// NewValidator creates a Validator with the given rules.
func NewValidator(rules Rules) *Validator {
	return &Validator{rules: rules}
}

// Validate applies the rules to value.
func (v *Validator) Validate(value string) Verdict {
	length := utf8.RuneCountInString(value)

	if length < v.rules.MinLength {
		return Verdict{
			Status: Reject,
			Reason: fmt.Sprintf("too short (%d < %d characters)", length, v.rules.MinLength),
			Value:  value,
		}
	}

	if length > v.rules.MaxLength {
		return Verdict{
			Status: Reject,
			Reason: fmt.Sprintf("too long (%d > %d characters)", length, v.rules.MaxLength),
			Value:  value,
		}
	}

	if ratio := SpecialCharRatio(value); ratio > v.rules.MaxSpecialRatio {
		return Verdict{
			Status: Warn,
			Reason: fmt.Sprintf("too many special characters (%.0f%%)", ratio*100),
			Value:  value,
		}
	}

	return Verdict{Status: Accept, Value: value}
}

// commonPunctuation is accepted inside station and street names.
const commonPunctuation = ".,-'/()&:"

// SpecialCharRatio returns the share of runes that are neither letters
// (diacritics included), digits, spaces nor common punctuation.
func SpecialCharRatio(value string) float64 {
	total := 0
	special := 0
	for _, r := range value {
		total++
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsSpace(r):
		case unicode.Is(unicode.Mn, r):
		case strings.ContainsRune(commonPunctuation, r):
		default:
			special++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(special) / float64(total)
}
