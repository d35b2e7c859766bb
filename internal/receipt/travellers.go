package receipt

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/michaelloftdk/rejsekort-parser/internal/types"
)

// travellerTokens maps the lower-cased fare-type synonyms printed on
// receipts, English and Danish, to the traveller type.
var travellerTokens = map[string]types.TravellerType{
	"young person": types.TravellerYoungPerson,
	"youth":        types.TravellerYoungPerson,
	"ungdom":       types.TravellerYoungPerson,
	"ungdomskort":  types.TravellerYoungPerson,
	"adult":        types.TravellerAdult,
	"voksen":       types.TravellerAdult,
	"child":        types.TravellerChild,
	"barn":         types.TravellerChild,
	"senior":       types.TravellerSenior,
	"pensionist":   types.TravellerSenior,
}

// travellerTokenPattern returns the regexp alternation of all tokens,
// longest first so that "ungdomskort" is preferred over "ungdom".
func travellerTokenPattern() string {
	tokens := make([]string, 0, len(travellerTokens))
	for token := range travellerTokens {
		tokens = append(tokens, strings.ReplaceAll(token, " ", `\s+`))
	}
	sort.Slice(tokens, func(i, j int) bool {
		if len(tokens[i]) != len(tokens[j]) {
			return len(tokens[i]) > len(tokens[j])
		}
		return tokens[i] < tokens[j]
	})
	return strings.Join(tokens, "|")
}

// ParseTravellerType maps a fare-type token to its type. Matching ignores
// case and repeated spaces; anything unrecognized is TravellerUnknown.
func ParseTravellerType(token string) types.TravellerType {
	key := strings.ToLower(strings.Join(strings.Fields(token), " "))
	if t, ok := travellerTokens[key]; ok {
		return t
	}
	return types.TravellerUnknown
}

// TravellerResult is the outcome of a forward traveller scan.
type TravellerResult struct {
	Entries []types.TravellerEntry

	// MarkerDistance is the number of characters between the anchor and
	// the "Travellers" marker, or -1 when no marker was found.
	MarkerDistance int

	Diagnostics []types.Diagnostic
}

// ExtractTravellers parses the traveller list that follows a price.
//
// PARAMETERS:
//   - text: the normalized document.
//   - from: the end of the anchor.
//   - to:   the next anchor offset, or the end of the section.
//
// The span is cut at the first line that opens the next journey
// ("HH:MM ..."). Two layouts are recognized after the marker:
//
//	Eleven Young person          name and type on one line
//	Lucas Sinclair               name on one line,
//	Young person                 type on the next
//
// A bare type line with no pending name is a further traveller whose name
// was not captured.
func (p *Patterns) ExtractTravellers(text string, from, to int) TravellerResult {
	result := TravellerResult{MarkerDistance: -1}
	if from > to {
		from = to
	}

	span := text[from:to]
	if loc := p.journeyStart.FindStringIndex(span); loc != nil {
		span = span[:loc[0]]
	}
	result.Diagnostics = append(result.Diagnostics, debugf("traveller span: %d characters", utf8.RuneCountInString(span)))

	idx := strings.Index(span, TravellersMarker)
	if idx < 0 {
		result.Diagnostics = append(result.Diagnostics, warnf("no %s section found after price", TravellersMarker))
		return result
	}

	result.MarkerDistance = utf8.RuneCountInString(span[:idx])
	if result.MarkerDistance > p.cfg.TravellerDistanceWarning {
		result.Diagnostics = append(result.Diagnostics,
			warnf("%s section is suspiciously far from the price (%d > %d characters)",
				TravellersMarker, result.MarkerDistance, p.cfg.TravellerDistanceWarning))
	}

	result.Entries = p.parseTravellerLines(span[idx+len(TravellersMarker):])
	if len(result.Entries) == 0 {
		result.Diagnostics = append(result.Diagnostics, warnf("%s section is empty", TravellersMarker))
	} else {
		result.Diagnostics = append(result.Diagnostics, debugf("found %d traveller(s)", len(result.Entries)))
	}
	return result
}

// parseTravellerLines classifies each line of the traveller block.
func (p *Patterns) parseTravellerLines(block string) []types.TravellerEntry {
	var (
		entries []types.TravellerEntry
		pending string
	)
	flush := func() {
		if pending != "" {
			entries = append(entries, types.TravellerEntry{Name: pending, Type: types.TravellerUnknown})
			pending = ""
		}
	}

	for _, raw := range strings.Split(block, "\n") {
		line := strings.Join(strings.Fields(raw), " ")
		if line == "" {
			continue
		}
		if p.endsTravellerBlock(line) {
			break
		}

		m := p.travellerLine.FindStringSubmatch(line)
		switch {
		case m == nil:
			flush()
			pending = line
		case m[1] != "":
			flush()
			entries = append(entries, types.TravellerEntry{Name: m[1], Type: ParseTravellerType(m[2])})
		case pending != "":
			entries = append(entries, types.TravellerEntry{Name: pending, Type: ParseTravellerType(m[2])})
			pending = ""
		default:
			entries = append(entries, types.TravellerEntry{Type: ParseTravellerType(m[2])})
		}
	}
	flush()

	return entries
}

// endsTravellerBlock reports lines that cannot belong to a traveller list:
// prices, amounts, times and page furniture all carry digits.
func (p *Patterns) endsTravellerBlock(line string) bool {
	if strings.ContainsFunc(line, unicode.IsDigit) {
		return true
	}
	if strings.Contains(line, p.cfg.Currency) {
		return true
	}
	for _, fc := range p.cfg.FareClasses {
		if strings.Contains(line, fc) {
			return true
		}
	}
	for _, m := range p.cfg.SectionEndMarkers {
		if m != "" && strings.Contains(line, m) {
			return true
		}
	}
	return false
}
