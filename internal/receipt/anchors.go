package receipt

import (
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/michaelloftdk/rejsekort-parser/internal/types"
)

// LocateAnchors returns every price entry inside sec, in document order.
// Offsets are relative to text, not to the section. An entry may touch the
// words around it, but an amount with more than two decimals is not a price.
func (p *Patterns) LocateAnchors(text string, sec Section) []types.Anchor {
	region := text[sec.Start:sec.End]

	var anchors []types.Anchor
	for _, m := range p.anchor.FindAllStringSubmatchIndex(region, -1) {
		if next, _ := utf8.DecodeRuneInString(region[m[1]:]); unicode.IsDigit(next) {
			continue
		}
		amount, err := decimal.NewFromString(region[m[2]:m[3]])
		if err != nil {
			// The pattern only admits digits, so this cannot happen.
			continue
		}
		anchors = append(anchors, types.Anchor{
			Offset: sec.Start + m[0],
			End:    sec.Start + m[1],
			Amount: amount,
			Raw:    region[m[0]:m[1]],
		})
	}
	return anchors
}
