// =============================================================================
// Rejsekort Parser - CSV Writer Module
// =============================================================================
//
// This module renders journey records as the CSV file handed to spreadsheet
// users. The format is fixed:
//   - UTF-8 with a leading byte-order mark
//   - ';' as field delimiter
//   - ',' as decimal separator, always two fraction digits ("32,20")
//   - Columns: date, departure_time, arrival_time, origin, destination,
//     traveller_name, traveller_type, price
//
// Read is the inverse of Format and is used to check written files.
//
// =============================================================================

package csvwriter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/michaelloftdk/rejsekort-parser/internal/types"
)

// Delimiter separates fields.
const Delimiter = ';'

// DecimalSeparator separates the price fraction.
const DecimalSeparator = ","

// ErrInvalidPrice is returned by ParsePrice.
var ErrInvalidPrice = errors.New("invalid price")

// Columns lists the header in output order.
var Columns = []string{
	"date",
	"departure_time",
	"arrival_time",
	"origin",
	"destination",
	"traveller_name",
	"traveller_type",
	"price",
}

// =============================================================================
// ROW STRUCTURE
// =============================================================================

// Row is one rendered record. Field order defines column order.
type Row struct {
	Date          string `csv:"date"`
	DepartureTime string `csv:"departure_time"`
	ArrivalTime   string `csv:"arrival_time"`
	Origin        string `csv:"origin"`
	Destination   string `csv:"destination"`
	TravellerName string `csv:"traveller_name"`
	TravellerType string `csv:"traveller_type"`
	Price         string `csv:"price"`
}

// NewRow renders one record.
func NewRow(r types.JourneyRecord) Row {
	return Row{
		Date:          r.Date.String(),
		DepartureTime: r.Journey.DepartureTime,
		ArrivalTime:   r.Journey.ArrivalTime,
		Origin:        r.Journey.Origin,
		Destination:   r.Journey.Destination,
		TravellerName: r.TravellerNames(),
		TravellerType: r.TravellerTypes(),
		Price:         FormatPrice(r.Price),
	}
}

// =============================================================================
// PRICES
// =============================================================================

// FormatPrice renders a price with two fraction digits and a decimal comma.
func FormatPrice(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", DecimalSeparator, 1)
}

// ParsePrice is the inverse of FormatPrice.
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ".") {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}
	d, err := decimal.NewFromString(strings.Replace(s, DecimalSeparator, ".", 1))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}
	return d, nil
}

// =============================================================================
// WRITE / READ
// =============================================================================

// Format renders records to CSV bytes. An empty input still yields the
// header row.
func Format(records []types.JourneyRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write renders records to w.
func Write(w io.Writer, records []types.JourneyRecord) error {
	bom := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())

	cw := csv.NewWriter(bom)
	cw.Comma = Delimiter
	sw := gocsv.NewSafeCSVWriter(cw)

	rows := make([]Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, NewRow(r))
	}

	if len(rows) == 0 {
		// Header only.
		if err := sw.Write(Columns); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
	} else if err := gocsv.MarshalCSV(&rows, sw); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}

	sw.Flush()
	if err := sw.Error(); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	if err := bom.Close(); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

// Read parses a file written by Format back into rows. The byte-order mark
// is optional.
func Read(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(transform.NewReader(r, unicode.UTF8BOM.NewDecoder()))
	cr.Comma = Delimiter

	var rows []Row
	if err := gocsv.UnmarshalCSV(cr, &rows); err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return rows, nil
}
