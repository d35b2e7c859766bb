// Package pdftext turns receipt PDFs into plain text for the parser.
package pdftext

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/dslipak/pdf"
	"github.com/sirupsen/logrus"
)

var log = logrus.StandardLogger().WithField("package", "pdftext")

// ErrNoText is returned for documents without an extractable text layer,
// such as scanned receipts.
var ErrNoText = errors.New("no extractable text")

// wordGap is the horizontal gap, as a fraction of the font size, above
// which two glyphs on the same row are separated by a space.
const wordGap = 0.2

// Extract returns the plain text of a PDF document. Glyphs are grouped into
// rows by their baseline, top to bottom, and each row becomes one line.
func Extract(data []byte) (text string, err error) {
	// The decoder panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("failed to decode PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var buf strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		for _, line := range pageLines(page.Content().Text) {
			buf.WriteString(line)
			buf.WriteByte('\n')
		}
	}

	text = buf.String()
	log.WithField("pages", r.NumPage()).Debugf("extracted %d bytes of text", len(text))

	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}
	return text, nil
}

// pageLines rebuilds the text lines of one page.
func pageLines(glyphs []pdf.Text) []string {
	rows := make(map[float64][]pdf.Text)
	for _, g := range glyphs {
		y := math.Round(g.Y)
		rows[y] = append(rows[y], g)
	}

	ys := make([]float64, 0, len(rows))
	for y := range rows {
		ys = append(ys, y)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(ys)))

	lines := make([]string, 0, len(ys))
	for _, y := range ys {
		lines = append(lines, joinRow(rows[y]))
	}
	return lines
}

// joinRow concatenates the glyphs of a row left to right. Glyphs drawn
// apart without a space character get one inserted between them.
func joinRow(row []pdf.Text) string {
	sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })

	var sb strings.Builder
	for i, g := range row {
		if i > 0 {
			prev := row[i-1]
			gap := g.X - (prev.X + prev.W)
			if gap > wordGap*g.FontSize && !strings.HasSuffix(prev.S, " ") && !strings.HasPrefix(g.S, " ") {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(g.S)
	}
	return sb.String()
}

// ExtractFile reads and extracts the PDF at path.
func ExtractFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return Extract(data)
}
