package receipt

import (
	"time"

	"github.com/michaelloftdk/rejsekort-parser/internal/types"
)

// Result is everything Parse learned about one document.
type Result struct {
	// Records holds one record per anchor, in document order.
	Records []types.JourneyRecord

	// Diagnostics are in the order they were produced. DEBUG entries are
	// present only for verbose parses.
	Diagnostics []types.Diagnostic

	Date        types.DocumentDate
	AnchorCount int
	Section     Section
}

// HasErrors reports whether any diagnostic is an ERROR.
func (r Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Level == types.LevelError {
			return true
		}
	}
	return false
}

// Count returns the number of diagnostics at the given level.
func (r Result) Count(level types.Level) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Level == level {
			n++
		}
	}
	return n
}

// Parser runs the extraction pipeline on receipt text.
type Parser struct {
	patterns *Patterns
	now      func() time.Time
}

// NewParser returns a parser using p. A nil p means DefaultPatterns.
func NewParser(p *Patterns) *Parser {
	if p == nil {
		p = DefaultPatterns()
	}
	return &Parser{patterns: p, now: time.Now}
}

// WithClock returns a copy of the parser that uses now for the date range
// check.
func (ps *Parser) WithClock(now func() time.Time) *Parser {
	cp := *ps
	cp.now = now
	return &cp
}

// Patterns returns the matchers used by the parser.
func (ps *Parser) Patterns() *Patterns {
	return ps.patterns
}

// Parse extracts the journey records of one receipt.
//
// PARAMETERS:
//   - text:         raw text recovered from the PDF
//   - filenameHint: the receipt file name, used as the last date fallback;
//     may be empty
//   - verbose:      keep DEBUG diagnostics in the result
//
// RETURNS:
//   - Result with one record per price anchor. Parse never fails on readable
//     text; problems are reported as diagnostics.
func (ps *Parser) Parse(text, filenameHint string, verbose bool) Result {
	p := ps.patterns
	var result Result
	add := func(anchor int, diags ...types.Diagnostic) {
		for _, d := range diags {
			if d.Level == types.LevelDebug && !verbose {
				continue
			}
			d.Anchor = anchor
			result.Diagnostics = append(result.Diagnostics, d)
		}
	}

	text = Normalize(text)

	// =========================================================================
	// SECTION
	// =========================================================================
	sec := p.BoundSection(text)
	result.Section = sec
	if !sec.Found {
		add(types.NoAnchor, warnf("%s section not found; scanning whole document", p.cfg.SectionHeader))
	}
	add(types.NoAnchor, debugf("section %d-%d (%d bytes, terminated=%t)", sec.Start, sec.End, sec.Len(), sec.Terminated))

	// =========================================================================
	// DATE
	// =========================================================================
	date, dateDiags := p.ResolveDate(text, filenameHint, ps.now())
	result.Date = date
	add(types.NoAnchor, dateDiags...)

	// =========================================================================
	// ANCHORS
	// =========================================================================
	anchors := p.LocateAnchors(text, sec)
	result.AnchorCount = len(anchors)
	add(types.NoAnchor, debugf("found %d price entries", len(anchors)))
	if len(anchors) == 0 {
		add(types.NoAnchor, warnf("No journeys extracted"))
		return result
	}

	// =========================================================================
	// PER-ANCHOR EXTRACTION
	// =========================================================================
	result.Records = make([]types.JourneyRecord, 0, len(anchors))
	for i, a := range anchors {
		lo := max(sec.Start, a.Offset-p.cfg.LookbackWindow)
		if i > 0 {
			lo = max(lo, anchors[i-1].End)
		}
		fragment, journeyDiags := p.ExtractJourney(text, lo, a.Offset)
		add(i, journeyDiags...)

		to := sec.End
		if i+1 < len(anchors) {
			to = anchors[i+1].Offset
		}
		travellers := p.ExtractTravellers(text, a.End, to)
		add(i, travellers.Diagnostics...)

		result.Records = append(result.Records, Assemble(date, fragment, travellers.Entries, a))
	}

	return result
}
