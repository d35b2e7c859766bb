// =============================================================================
// Rejsekort Parser - XLSX Writer Module
// =============================================================================
//
// This module renders journey records as an Excel workbook with a single
// "Journeys" sheet. Columns match the CSV output; the price column is numeric
// with a two-decimal number format, so totals can be computed in the sheet.
//
// =============================================================================

package xlsxwriter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/michaelloftdk/rejsekort-parser/internal/csvwriter"
	"github.com/michaelloftdk/rejsekort-parser/internal/types"
)

// SheetName is the name of the only worksheet.
const SheetName = "Journeys"

// numFmtTwoDecimals is the built-in "0.00" number format.
const numFmtTwoDecimals = 2

// Format renders records to XLSX bytes.
func Format(records []types.JourneyRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, 0, len(csvwriter.Columns))
	for _, c := range csvwriter.Columns {
		header = append(header, c)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(csvwriter.Columns))
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", bold); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	price, err := f.NewStyle(&excelize.Style{NumFmt: numFmtTwoDecimals})
	if err != nil {
		return nil, fmt.Errorf("failed to create price style: %w", err)
	}

	for i, r := range records {
		row := i + 2
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, err
		}
		values := []interface{}{
			r.Date.String(),
			r.Journey.DepartureTime,
			r.Journey.ArrivalTime,
			r.Journey.Origin,
			r.Journey.Destination,
			r.TravellerNames(),
			r.TravellerTypes(),
			r.Price.InexactFloat64(),
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", row, err)
		}

		priceCell := fmt.Sprintf("%s%d", lastCol, row)
		if err := f.SetCellStyle(SheetName, priceCell, priceCell, price); err != nil {
			return nil, fmt.Errorf("failed to style row %d: %w", row, err)
		}
	}

	if err := f.SetColWidth(SheetName, "A", lastCol, 18); err != nil {
		return nil, fmt.Errorf("failed to size columns: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
