package receipt

import (
	"strings"
)

// Section is the byte range of the journeys list inside a document.
type Section struct {
	Start int
	End   int

	// Found is false when the header was missing and the whole document
	// is scanned instead.
	Found bool

	// Terminated is true when an end marker closed the section.
	Terminated bool
}

// Len returns the section length in bytes.
func (s Section) Len() int {
	return s.End - s.Start
}

// BoundSection locates the journeys list. The section starts at the first
// occurrence of the section header and ends at the nearest end marker after
// it, or at the end of the text. Without a header the whole text is used.
func (p *Patterns) BoundSection(text string) Section {
	start := strings.Index(text, p.cfg.SectionHeader)
	if start < 0 {
		return Section{Start: 0, End: len(text)}
	}

	sec := Section{Start: start, End: len(text), Found: true}
	searchFrom := start + len(p.cfg.SectionHeader)
	for _, marker := range p.cfg.SectionEndMarkers {
		if marker == "" {
			continue
		}
		if idx := strings.Index(text[searchFrom:], marker); idx >= 0 && searchFrom+idx < sec.End {
			sec.End = searchFrom + idx
			sec.Terminated = true
		}
	}
	return sec
}
