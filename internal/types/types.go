// =============================================================================
// Rejsekort Parser - Shared Types
// =============================================================================
//
// This package contains the data model shared by the extraction engine, the
// output writers and the CLI. Types defined here are used by:
//   - receipt     (produces anchors, fragments, travellers, records)
//   - csvwriter   (renders records)
//   - xlsxwriter  (renders records)
//   - converter   (carries records and diagnostics per file)
//
// =============================================================================

package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Unknown is the explicit marker for a field that could not be extracted.
// It is never replaced by a guessed value.
const Unknown = "Unknown"

// TravellerSeparator joins multiple travellers of one journey.
const TravellerSeparator = " + "

// DateLayout is the rendering of a resolved document date.
const DateLayout = "2006-01-02"

// =============================================================================
// ANCHORS
// =============================================================================

// Anchor is a located price entry ("Standard DKK 32.20"). It is the only
// high-confidence landmark in the receipt text.
type Anchor struct {
	// Offset is the byte position of the match in the normalized document.
	Offset int

	// End is the byte position right after the match.
	End int

	// Amount is the price, taken verbatim from the matched text.
	Amount decimal.Decimal

	// Raw is the matched text, kept for diagnostics.
	Raw string
}

// =============================================================================
// JOURNEY FRAGMENT
// =============================================================================

// JourneyFragment is the route/time part of a record recovered by scanning
// backwards from an anchor. Absent fields hold Unknown.
type JourneyFragment struct {
	DepartureTime string
	ArrivalTime   string
	Origin        string
	Destination   string
}

// UnknownFragment returns a fragment with every field marked Unknown.
func UnknownFragment() JourneyFragment {
	return JourneyFragment{
		DepartureTime: Unknown,
		ArrivalTime:   Unknown,
		Origin:        Unknown,
		Destination:   Unknown,
	}
}

// Missing lists the names of the fields that are Unknown, in column order.
func (f JourneyFragment) Missing() []string {
	var missing []string
	if f.DepartureTime == Unknown {
		missing = append(missing, "departure_time")
	}
	if f.ArrivalTime == Unknown {
		missing = append(missing, "arrival_time")
	}
	if f.Origin == Unknown {
		missing = append(missing, "origin")
	}
	if f.Destination == Unknown {
		missing = append(missing, "destination")
	}
	return missing
}

// Complete reports whether every field was extracted.
func (f JourneyFragment) Complete() bool {
	return len(f.Missing()) == 0
}

// =============================================================================
// TRAVELLERS
// =============================================================================

// TravellerType is the fare category of one traveller.
type TravellerType int

const (
	TravellerUnknown TravellerType = iota
	TravellerYoungPerson
	TravellerAdult
	TravellerChild
	TravellerSenior
)

// String returns the display name used in the output columns.
func (t TravellerType) String() string {
	switch t {
	case TravellerYoungPerson:
		return "Young person"
	case TravellerAdult:
		return "Adult"
	case TravellerChild:
		return "Child"
	case TravellerSenior:
		return "Senior"
	default:
		return Unknown
	}
}

// TravellerEntry is one traveller listed under a journey.
// An empty Name means the name was not captured.
type TravellerEntry struct {
	Name string
	Type TravellerType
}

// =============================================================================
// DOCUMENT DATE
// =============================================================================

// DocumentDate is the single date resolved for a whole receipt.
type DocumentDate struct {
	// Value is the resolved date. Zero when Known is false.
	Value time.Time

	// Known is false when every resolution strategy failed.
	Known bool

	// Source names the strategy that produced the date.
	Source string
}

// String renders the date as YYYY-MM-DD, or Unknown.
func (d DocumentDate) String() string {
	if !d.Known {
		return Unknown
	}
	return d.Value.Format(DateLayout)
}

// =============================================================================
// JOURNEY RECORD
// =============================================================================

// JourneyRecord is the assembled output unit, one per anchor.
type JourneyRecord struct {
	Date       DocumentDate
	Journey    JourneyFragment
	Travellers []TravellerEntry

	// Price always comes from the anchor.
	Price decimal.Decimal
}

// TravellerNames joins the traveller names in appearance order.
//
// Uncaptured names are rendered as Unknown so that the i-th name keeps
// matching the i-th type. Trailing uncaptured names are dropped: a bare
// fare-type line after a named traveller adds a type but no name.
func (r JourneyRecord) TravellerNames() string {
	last := -1
	for i, t := range r.Travellers {
		if t.Name != "" {
			last = i
		}
	}
	if last < 0 {
		return Unknown
	}

	names := make([]string, 0, last+1)
	for _, t := range r.Travellers[:last+1] {
		if t.Name == "" {
			names = append(names, Unknown)
			continue
		}
		names = append(names, t.Name)
	}
	return strings.Join(names, TravellerSeparator)
}

// TravellerTypes joins the traveller types in the same order as the names.
func (r JourneyRecord) TravellerTypes() string {
	if len(r.Travellers) == 0 {
		return Unknown
	}
	types := make([]string, 0, len(r.Travellers))
	for _, t := range r.Travellers {
		types = append(types, t.Type.String())
	}
	return strings.Join(types, TravellerSeparator)
}

// Route renders "origin → destination".
func (r JourneyRecord) Route() string {
	return fmt.Sprintf("%s → %s", r.Journey.Origin, r.Journey.Destination)
}

// =============================================================================
// DIAGNOSTICS
// =============================================================================

// Level is the severity of a Diagnostic.
type Level int

const (
	// LevelDebug is informational detail (counts, offsets), shown only when verbose.
	LevelDebug Level = iota

	// LevelWarning means data was extracted but is suspect.
	LevelWarning

	// LevelError means a document-wide property could not be determined.
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// NoAnchor marks a diagnostic that concerns the whole document.
const NoAnchor = -1

// Diagnostic is a structured message about extraction confidence.
type Diagnostic struct {
	Level   Level
	Message string

	// Anchor is the index of the anchor the message is about, or NoAnchor.
	Anchor int
}

func (d Diagnostic) String() string {
	if d.Anchor == NoAnchor {
		return fmt.Sprintf("%s: %s", d.Level, d.Message)
	}
	return fmt.Sprintf("%s: journey %d: %s", d.Level, d.Anchor+1, d.Message)
}
