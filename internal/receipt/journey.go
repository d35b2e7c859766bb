package receipt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/michaelloftdk/rejsekort-parser/internal/types"
	"github.com/michaelloftdk/rejsekort-parser/internal/validation"
)

// routeMatch is the outcome of one route matcher on a collapsed window.
type routeMatch struct {
	fragment types.JourneyFragment
	ok       bool
}

// ExtractJourney recovers the route and times that precede a price.
//
// PARAMETERS:
//   - text: the normalized document.
//   - lo:   the first byte the scan may look at.
//   - hi:   the anchor offset; the scan never reads past it.
//
// The window is whitespace-collapsed, then matched with the full route
// matcher; the closest complete route wins. When no complete route exists
// the partial matcher keeps whatever side of the last arrow is bounded by a
// time. Location candidates are checked by the Field Validator.
func (p *Patterns) ExtractJourney(text string, lo, hi int) (types.JourneyFragment, []types.Diagnostic) {
	var diags []types.Diagnostic
	lo = clampToRune(text, lo, hi)
	window := p.collapse(text[lo:hi])

	diags = append(diags, debugf("journey window %d-%d (%d bytes)", lo, hi, hi-lo))

	m := p.matchFullRoute(window)
	if !m.ok {
		m = p.matchPartialRoute(window)
	}
	fragment := m.fragment

	var verdictDiags []types.Diagnostic
	fragment.Origin, verdictDiags = p.checkLocation("origin", fragment.Origin)
	diags = append(diags, verdictDiags...)
	fragment.Destination, verdictDiags = p.checkLocation("destination", fragment.Destination)
	diags = append(diags, verdictDiags...)

	if missing := fragment.Missing(); len(missing) > 0 {
		diags = append(diags, warnf("journey details incomplete: missing %s", strings.Join(missing, ", ")))
	}

	return fragment, diags
}

// matchFullRoute returns the complete "HH:MM origin → destination HH:MM"
// that starts closest to the end of the window. Every time in the window is
// tried as a departure, last first, so an earlier leg without an arrival
// time cannot swallow the route that follows it.
func (p *Patterns) matchFullRoute(window string) routeMatch {
	clocks := p.clock.FindAllStringIndex(window, -1)
	for i := len(clocks) - 1; i >= 0; i-- {
		m := p.journey.FindStringSubmatch(window[clocks[i][0]:])
		if m == nil {
			continue
		}

		destination := p.leadingClock.ReplaceAllString(strings.TrimSpace(m[3]), "")
		return routeMatch{
			fragment: types.JourneyFragment{
				DepartureTime: m[1],
				ArrivalTime:   m[4],
				Origin:        orUnknown(strings.TrimSpace(m[2])),
				Destination:   orUnknown(destination),
			},
			ok: true,
		}
	}
	return routeMatch{fragment: types.UnknownFragment()}
}

// matchPartialRoute splits the window at its last arrow. A side is kept only
// when a time bounds it on the outside, so no location is ever taken from
// unrelated text.
func (p *Patterns) matchPartialRoute(window string) routeMatch {
	fragment := types.UnknownFragment()

	arrowsFound := p.arrow.FindAllStringIndex(window, -1)
	if len(arrowsFound) == 0 {
		return routeMatch{fragment: fragment}
	}
	arrowAt := arrowsFound[len(arrowsFound)-1]
	left := window[:arrowAt[0]]
	right := window[arrowAt[1]:]

	if clocks := p.clock.FindAllStringIndex(left, -1); len(clocks) > 0 {
		c := clocks[len(clocks)-1]
		fragment.DepartureTime = left[c[0]:c[1]]
		fragment.Origin = orUnknown(strings.TrimSpace(left[c[1]:]))
	}

	right = strings.TrimSpace(right)
	right = p.leadingClock.ReplaceAllString(right, "")
	if c := p.clock.FindStringIndex(right); c != nil {
		fragment.ArrivalTime = right[c[0]:c[1]]
		fragment.Destination = orUnknown(strings.TrimSpace(right[:c[0]]))
	}

	return routeMatch{fragment: fragment}
}

// checkLocation runs the Field Validator on a location candidate. Rejected
// values become Unknown; suspect values are kept with a warning.
func (p *Patterns) checkLocation(field, value string) (string, []types.Diagnostic) {
	if value == types.Unknown {
		return value, nil
	}

	v := p.validator.Validate(value)
	if !v.Usable() {
		return types.Unknown, []types.Diagnostic{warnf("%s %q rejected: %s", field, value, v.Reason)}
	}
	if v.Status == validation.Warn {
		return value, []types.Diagnostic{warnf("%s %q looks wrong: %s", field, value, v.Reason)}
	}
	return value, nil
}

func orUnknown(s string) string {
	if s == "" {
		return types.Unknown
	}
	return s
}

// clampToRune moves lo forward to the start of a UTF-8 sequence.
func clampToRune(text string, lo, hi int) int {
	if lo < 0 {
		lo = 0
	}
	for lo < hi && !utf8.RuneStart(text[lo]) {
		lo++
	}
	return lo
}

func debugf(format string, args ...any) types.Diagnostic {
	return types.Diagnostic{Level: types.LevelDebug, Message: fmt.Sprintf(format, args...), Anchor: types.NoAnchor}
}

func warnf(format string, args ...any) types.Diagnostic {
	return types.Diagnostic{Level: types.LevelWarning, Message: fmt.Sprintf(format, args...), Anchor: types.NoAnchor}
}

func errorf(format string, args ...any) types.Diagnostic {
	return types.Diagnostic{Level: types.LevelError, Message: fmt.Sprintf(format, args...), Anchor: types.NoAnchor}
}
