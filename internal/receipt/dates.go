package receipt

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/michaelloftdk/rejsekort-parser/internal/types"
)

// DateStrategy is one way of finding the receipt date. Resolve must be pure.
type DateStrategy struct {
	Name    string
	Resolve func(text, filename string) (time.Time, bool)
}

var englishMonths = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

var danishMonths = map[string]time.Month{
	"januar": time.January, "jan": time.January,
	"februar": time.February, "feb": time.February,
	"marts": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"maj":  time.May,
	"juni": time.June, "jun": time.June,
	"juli": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"oktober": time.October, "okt": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

// dayMonthYear is the "DD MonthName YYYY" tail shared by the text strategies.
// The year may run straight into the following word.
const dayMonthYear = `(\d{1,2})\.?\s+(\p{L}+)\.?\s+(\d{4})(?:\D|$)`

var filenameDate = regexp.MustCompile(`REJSEKORT_(\d{4})-(\d{2})-(\d{2})_`)

// DateStrategies returns the resolution strategies in priority order. The
// first strategy that yields a valid calendar date wins.
func (p *Patterns) DateStrategies() []DateStrategy {
	out := make([]DateStrategy, len(p.dates))
	copy(out, p.dates)
	return out
}

func (p *Patterns) buildDateStrategies() []DateStrategy {
	return []DateStrategy{
		textDateStrategy("invoice-en", `Invoice\s*[–—-]\s*`, englishMonths),
		textDateStrategy("overview-en", `Overview\s+`, englishMonths),
		textDateStrategy("invoice-da", `(?:Invoice|Faktura)\s*[–—-]\s*`, danishMonths),
		textDateStrategy("overview-da", `(?:Overview|Oversigt)\s+`, danishMonths),
		{Name: "filename", Resolve: resolveFilenameDate},
	}
}

// textDateStrategy matches "<label> DD MonthName YYYY" with the given month
// names. Matches with an unknown month or an impossible day are skipped.
func textDateStrategy(name, label string, months map[string]time.Month) DateStrategy {
	re := regexp.MustCompile(`(?i)` + label + dayMonthYear)
	return DateStrategy{
		Name: name,
		Resolve: func(text, _ string) (time.Time, bool) {
			for _, m := range re.FindAllStringSubmatch(text, -1) {
				month, ok := months[strings.ToLower(m[2])]
				if !ok {
					continue
				}
				if t, ok := calendarDate(m[3], month, m[1]); ok {
					return t, true
				}
			}
			return time.Time{}, false
		},
	}
}

func resolveFilenameDate(_, filename string) (time.Time, bool) {
	if filename == "" {
		return time.Time{}, false
	}
	m := filenameDate.FindStringSubmatch(filepath.Base(filename))
	if m == nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(m[2])
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, false
	}
	return calendarDate(m[1], time.Month(month), m[3])
}

// calendarDate builds a UTC date and rejects values time.Date would
// normalize, such as 31 February.
func calendarDate(yearStr string, month time.Month, dayStr string) (time.Time, bool) {
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// ResolveDate runs the strategies in order and range-checks the result.
// A date outside [MinYear, now+1] is kept with a warning; no date at all is
// an error because every record of the document depends on it.
func (p *Patterns) ResolveDate(text, filename string, now time.Time) (types.DocumentDate, []types.Diagnostic) {
	for _, s := range p.dates {
		t, ok := s.Resolve(text, filename)
		if !ok {
			continue
		}

		date := types.DocumentDate{Value: t, Known: true, Source: s.Name}
		diags := []types.Diagnostic{debugf("date %s resolved by %s", date, s.Name)}

		maxYear := now.Year() + 1
		if t.Year() < p.cfg.MinYear || t.Year() > maxYear {
			diags = append(diags, warnf("suspicious date %s: outside %d-%d", date, p.cfg.MinYear, maxYear))
		}
		return date, diags
	}

	return types.DocumentDate{}, []types.Diagnostic{
		errorf("document date could not be resolved; every journey is dated %s", types.Unknown),
	}
}
