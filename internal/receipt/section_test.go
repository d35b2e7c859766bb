package receipt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "Standard DKK 23.00", Normalize("Standard\u00a0DKK\u202f23.00"))
	assert.Equal(t, "a\nb\nc", Normalize("a\r\nb\rc"))
	assert.Equal(t, "\u00c5byh\u00f8j", Normalize("A\u030abyh\u00f8j"))

	once := Normalize("x\u00a0y\r\n")
	assert.Equal(t, once, Normalize(once))
}

func TestBoundSection(t *testing.T) {
	p := DefaultPatterns()

	t.Run("header and end marker", func(t *testing.T) {
		text := "Subtotal DKK 0.00\nJourneys\nStandard DKK 1.00\nSubtotal DKK 1.00\nFooter"
		sec := p.BoundSection(text)
		assert.True(t, sec.Found)
		assert.True(t, sec.Terminated)
		assert.Equal(t, "Journeys\nStandard DKK 1.00\n", text[sec.Start:sec.End])
	})

	t.Run("header without end marker", func(t *testing.T) {
		text := "Header\nJourneys\nStandard DKK 1.00"
		sec := p.BoundSection(text)
		assert.True(t, sec.Found)
		assert.False(t, sec.Terminated)
		assert.Equal(t, len(text), sec.End)
	})

	t.Run("no header", func(t *testing.T) {
		text := "Standard DKK 1.00\nSubtotal"
		sec := p.BoundSection(text)
		assert.False(t, sec.Found)
		assert.Equal(t, Section{Start: 0, End: len(text)}, sec)
		assert.Equal(t, len(text), sec.Len())
	})
}

func TestLocateAnchors(t *testing.T) {
	p := DefaultPatterns()
	text := "Total Standard DKK 99.99\nJourneys\nStandard DKK 23.00\nStandard  DKK\n32.20\nStandard DKK 7.5\nStandard DKK 1.001\nSubtotal\nStandard DKK 1.00"
	sec := p.BoundSection(text)

	anchors := p.LocateAnchors(text, sec)
	require.Len(t, anchors, 2)

	assert.Equal(t, "23.00", anchors[0].Amount.StringFixed(2))
	assert.Equal(t, "Standard DKK 23.00", anchors[0].Raw)
	assert.Equal(t, "32.20", anchors[1].Amount.StringFixed(2))
	for _, a := range anchors {
		assert.Equal(t, a.Raw, text[a.Offset:a.End])
	}
	assert.Less(t, anchors[0].End, anchors[1].Offset)
}

func TestLocateAnchors_GluedText(t *testing.T) {
	p := DefaultPatterns()
	text := "Journeys\n12:15 Mirkwood Forest → The Lab 12:19Standard DKK 23.00Travellers\nStandard DKK 1.001"
	sec := p.BoundSection(text)

	anchors := p.LocateAnchors(text, sec)
	require.Len(t, anchors, 1)
	assert.Equal(t, "Standard DKK 23.00", anchors[0].Raw)
	assert.Equal(t, "23.00", anchors[0].Amount.StringFixed(2))
}
