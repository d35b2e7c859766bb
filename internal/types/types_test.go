package types

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestJourneyFragment_Missing(t *testing.T) {
	f := UnknownFragment()
	assert.Equal(t, []string{"departure_time", "arrival_time", "origin", "destination"}, f.Missing())
	assert.False(t, f.Complete())

	f.DepartureTime = "12:15"
	f.Origin = "Mirkwood Forest"
	assert.Equal(t, []string{"arrival_time", "destination"}, f.Missing())
}

func TestJourneyRecord_Travellers(t *testing.T) {
	t.Run("no travellers", func(t *testing.T) {
		r := JourneyRecord{}
		assert.Equal(t, Unknown, r.TravellerNames())
		assert.Equal(t, Unknown, r.TravellerTypes())
	})

	t.Run("trailing uncaptured name is dropped", func(t *testing.T) {
		r := JourneyRecord{Travellers: []TravellerEntry{
			{Name: "Lucas Sinclair", Type: TravellerYoungPerson},
			{Type: TravellerChild},
		}}
		assert.Equal(t, "Lucas Sinclair", r.TravellerNames())
		assert.Equal(t, "Young person + Child", r.TravellerTypes())
	})

	t.Run("leading uncaptured name keeps alignment", func(t *testing.T) {
		r := JourneyRecord{Travellers: []TravellerEntry{
			{Type: TravellerChild},
			{Name: "Max Mayfield", Type: TravellerAdult},
		}}
		names := strings.Split(r.TravellerNames(), TravellerSeparator)
		types := strings.Split(r.TravellerTypes(), TravellerSeparator)
		assert.Equal(t, []string{Unknown, "Max Mayfield"}, names)
		assert.Equal(t, []string{"Child", "Adult"}, types)
	})
}

func TestDocumentDate_String(t *testing.T) {
	assert.Equal(t, Unknown, DocumentDate{}.String())
	d := DocumentDate{Value: time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC), Known: true}
	assert.Equal(t, "2026-01-03", d.String())
}

func TestDiagnostic_String(t *testing.T) {
	assert.Equal(t, "ERROR: date unknown", Diagnostic{Level: LevelError, Message: "date unknown", Anchor: NoAnchor}.String())
	assert.Equal(t, "WARNING: journey 2: far", Diagnostic{Level: LevelWarning, Message: "far", Anchor: 1}.String())
}

func TestJourneyRecord_Route(t *testing.T) {
	r := JourneyRecord{
		Journey: JourneyFragment{Origin: "Mirkwood Forest", Destination: "The Lab"},
		Price:   decimal.RequireFromString("23.00"),
	}
	assert.Equal(t, "Mirkwood Forest → The Lab", r.Route())
}
