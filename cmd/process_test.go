package cmd

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelloftdk/rejsekort-parser/internal/types"
)

func dated(day int, price string) types.JourneyRecord {
	r := types.JourneyRecord{Price: decimal.RequireFromString(price)}
	if day > 0 {
		r.Date = types.DocumentDate{Value: time.Date(2026, 1, day, 0, 0, 0, 0, time.UTC), Known: true}
	}
	return r
}

func TestSortByDate(t *testing.T) {
	records := []types.JourneyRecord{
		dated(5, "1.00"),
		dated(0, "2.00"),
		dated(3, "3.00"),
		dated(5, "4.00"),
		dated(3, "5.00"),
	}
	sortByDate(records)

	var prices []string
	for _, r := range records {
		prices = append(prices, r.Price.StringFixed(2))
	}
	assert.Equal(t, []string{"3.00", "5.00", "1.00", "4.00", "2.00"}, prices)
}

func TestSortByDate_DepartureTimeBreaksTies(t *testing.T) {
	departing := func(day int, price, departure string) types.JourneyRecord {
		r := dated(day, price)
		r.Journey = types.UnknownFragment()
		r.Journey.DepartureTime = departure
		return r
	}

	// Two receipts for the same day, each in document order.
	records := []types.JourneyRecord{
		departing(3, "1.00", "16:40"),
		departing(3, "2.00", types.Unknown),
		departing(3, "3.00", "08:05"),
		departing(3, "4.00", "12:15"),
		departing(2, "5.00", "23:59"),
	}
	sortByDate(records)

	var prices []string
	for _, r := range records {
		prices = append(prices, r.Price.StringFixed(2))
	}
	assert.Equal(t, []string{"5.00", "3.00", "4.00", "1.00", "2.00"}, prices)
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "rejsekort_journeys.csv", outputName("rejsekort_journeys.csv", "csv"))
	assert.Equal(t, "rejsekort_journeys", outputName("rejsekort_journeys.csv", "xlsx"))
	assert.Equal(t, "trips", outputName("trips.xlsx", "csv"))
	assert.Equal(t, "trips.2026", outputName("trips.2026", "csv"))
}

func TestLogDiagnostics(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	logDiagnostics(logrus.NewEntry(logger), []types.Diagnostic{
		{Level: types.LevelDebug, Message: "found 1 price entries", Anchor: types.NoAnchor},
		{Level: types.LevelWarning, Message: "journey details incomplete", Anchor: 0},
		{Level: types.LevelError, Message: "document date could not be resolved", Anchor: types.NoAnchor},
	})

	entries := hook.AllEntries()
	require.Len(t, entries, 3)
	assert.Equal(t, logrus.DebugLevel, entries[0].Level)
	assert.Equal(t, logrus.WarnLevel, entries[1].Level)
	assert.Equal(t, 1, entries[1].Data["journey"])
	assert.Equal(t, logrus.ErrorLevel, entries[2].Level)
	assert.NotContains(t, entries[2].Data, "journey")
}

func TestRender(t *testing.T) {
	records := []types.JourneyRecord{dated(3, "23.00")}

	data, err := render("csv", records)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, data[:3])

	data, err = render("xlsx", records)
	require.NoError(t, err)
	assert.Equal(t, "PK", string(data[:2]))
}
