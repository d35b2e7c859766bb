// Package report prints the journey summary shown after processing.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/michaelloftdk/rejsekort-parser/internal/types"
)

// Column limits of the summary table.
const (
	RouteWidth = 40
	TypeWidth  = 20
)

// Total sums the prices of records.
func Total(records []types.JourneyRecord) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Price)
	}
	return total
}

// Write prints records as an aligned table followed by a total line.
// Unknown values are printed as they are; nothing is hidden from the user.
func Write(w io.Writer, records []types.JourneyRecord, currency string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "Date\tTime\tRoute\tTraveller\tType\tPrice")
	fmt.Fprintln(tw, "----\t----\t-----\t---------\t----\t-----")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s-%s\t%s\t%s\t%s\t%s %s\n",
			r.Date,
			r.Journey.DepartureTime, r.Journey.ArrivalTime,
			Truncate(r.Route(), RouteWidth),
			r.TravellerNames(),
			Truncate(r.TravellerTypes(), TypeWidth),
			currency, r.Price.StringFixed(2),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\nTotal: %d journey(s), %s %s\n", len(records), currency, Total(records).StringFixed(2))
	return err
}

// Truncate shortens s to at most width characters, marking the cut with "...".
func Truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	if width <= 3 {
		return string([]rune(s)[:width])
	}
	return string([]rune(s)[:width-3]) + "..."
}
