package receipt

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

var spaceReplacer = strings.NewReplacer(
	"\u00a0", " ", // no-break space
	"\u202f", " ", // narrow no-break space
	"\u2007", " ", // figure space
	"\r\n", "\n",
	"\r", "\n",
)

// Normalize prepares extracted PDF text for parsing: non-breaking spaces
// become plain spaces, line endings become "\n", and the text is composed
// to NFC so that "å" written as "a" plus a combining ring matches "å".
// Normalize is idempotent.
func Normalize(text string) string {
	return norm.NFC.String(spaceReplacer.Replace(text))
}
