package receipt

import (
	"github.com/michaelloftdk/rejsekort-parser/internal/types"
)

// Assemble combines the pieces extracted for one anchor into a record.
// It does not validate anything; the price is always the anchor amount.
func Assemble(date types.DocumentDate, fragment types.JourneyFragment, travellers []types.TravellerEntry, anchor types.Anchor) types.JourneyRecord {
	entries := make([]types.TravellerEntry, len(travellers))
	copy(entries, travellers)

	return types.JourneyRecord{
		Date:       date,
		Journey:    fragment,
		Travellers: entries,
		Price:      anchor.Amount,
	}
}
