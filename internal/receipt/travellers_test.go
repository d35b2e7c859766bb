package receipt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelloftdk/rejsekort-parser/internal/types"
)

func TestParseTravellerType(t *testing.T) {
	tests := map[string]types.TravellerType{
		"Young person":  types.TravellerYoungPerson,
		"young   PERSON": types.TravellerYoungPerson,
		"Ungdomskort":   types.TravellerYoungPerson,
		"Youth":         types.TravellerYoungPerson,
		"Adult":         types.TravellerAdult,
		"VOKSEN":        types.TravellerAdult,
		"Child":         types.TravellerChild,
		"barn":          types.TravellerChild,
		"Senior":        types.TravellerSenior,
		"Pensionist":    types.TravellerSenior,
		"Ghost":         types.TravellerUnknown,
		"":              types.TravellerUnknown,
	}
	for token, want := range tests {
		assert.Equal(t, want, ParseTravellerType(token), token)
	}
}

func extractTravellers(span string) TravellerResult {
	return DefaultPatterns().ExtractTravellers(span, 0, len(span))
}

func TestExtractTravellers_Layouts(t *testing.T) {
	tests := []struct {
		name string
		span string
		want []types.TravellerEntry
	}{
		{
			name: "name and type on one line",
			span: "\nTravellers\nEleven Young person\n",
			want: []types.TravellerEntry{{Name: "Eleven", Type: types.TravellerYoungPerson}},
		},
		{
			name: "name and type on two lines",
			span: "\nTravellers\nLucas Sinclair\nYoung person\n",
			want: []types.TravellerEntry{{Name: "Lucas Sinclair", Type: types.TravellerYoungPerson}},
		},
		{
			name: "bare type after a complete entry",
			span: "\nTravellers\nLucas Sinclair Young person\nBarn\n",
			want: []types.TravellerEntry{
				{Name: "Lucas Sinclair", Type: types.TravellerYoungPerson},
				{Name: "", Type: types.TravellerChild},
			},
		},
		{
			name: "mixed layouts keep order",
			span: "\nTravellers\nJoyce Byers Voksen\nWill Byers\nbarn\nJim Hopper adult\n",
			want: []types.TravellerEntry{
				{Name: "Joyce Byers", Type: types.TravellerAdult},
				{Name: "Will Byers", Type: types.TravellerChild},
				{Name: "Jim Hopper", Type: types.TravellerAdult},
			},
		},
		{
			name: "unrecognized type",
			span: "\nTravellers\nMax Mayfield\n",
			want: []types.TravellerEntry{{Name: "Max Mayfield", Type: types.TravellerUnknown}},
		},
		{
			name: "entries on the marker line",
			span: " Travellers Eleven Adult\n",
			want: []types.TravellerEntry{{Name: "Eleven", Type: types.TravellerAdult}},
		},
		{
			name: "stops at page furniture",
			span: "\nTravellers\nEleven Adult\nPage 1 of 2\nRejsekort A/S\n",
			want: []types.TravellerEntry{{Name: "Eleven", Type: types.TravellerAdult}},
		},
		{
			name: "stops at the next journey",
			span: "\nTravellers\nEleven Adult\n13:02 The Lab →\nHawkins Middle School 13:20\n",
			want: []types.TravellerEntry{{Name: "Eleven", Type: types.TravellerAdult}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := extractTravellers(tt.span)
			assert.Equal(t, tt.want, res.Entries)
			assert.Empty(t, messages(res.Diagnostics, types.LevelWarning))
		})
	}
}

func TestExtractTravellers_Warnings(t *testing.T) {
	t.Run("no marker", func(t *testing.T) {
		res := extractTravellers("\nEleven Adult\n")
		assert.Empty(t, res.Entries)
		assert.Equal(t, -1, res.MarkerDistance)
		assert.Equal(t, []string{"no Travellers section found after price"}, messages(res.Diagnostics, types.LevelWarning))
	})

	t.Run("empty section", func(t *testing.T) {
		res := extractTravellers("\nTravellers\n")
		assert.Empty(t, res.Entries)
		assert.Equal(t, []string{"Travellers section is empty"}, messages(res.Diagnostics, types.LevelWarning))
	})

	t.Run("suspiciously far", func(t *testing.T) {
		span := "\n" + strings.Repeat("filler ", 90) + "\nTravellers\nEleven Adult\n"
		res := extractTravellers(span)

		require.Len(t, res.Entries, 1)
		assert.Equal(t, "Eleven", res.Entries[0].Name)
		assert.Equal(t, 632, res.MarkerDistance)
		assert.Equal(t, []string{"Travellers section is suspiciously far from the price (632 > 500 characters)"},
			messages(res.Diagnostics, types.LevelWarning))
	})

	t.Run("distance counts characters", func(t *testing.T) {
		span := strings.Repeat("ø", 450) + "\nTravellers\nEleven Adult\n"
		res := extractTravellers(span)
		assert.Equal(t, 451, res.MarkerDistance)
		assert.Empty(t, messages(res.Diagnostics, types.LevelWarning))
	})
}
