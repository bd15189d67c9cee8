package pdfgeom

import (
	"fmt"
	"sort"
	"strings"

	dpdf "github.com/dslipak/pdf"
	"golang.org/x/text/unicode/norm"
)

// rowTolerance is the baseline y-delta within which positioned text runs are
// treated as belonging to the same visual row during word assembly.
const rowTolerance = 2.0

// wordGapFactor scales the font size into the maximum horizontal gap that
// still joins two runs into one word. Half an em splits at normal
// inter-word spacing while keeping tight CJK glyph runs together.
const wordGapFactor = 0.5

// fallbackFontSize stands in when the PDF reports no size for a text run.
const fallbackFontSize = 10.0

// collectPageWords merges the page's positioned text runs into word boxes in
// top-left coordinates. The underlying library panics on some malformed
// content streams, so the scan is fenced.
func collectPageWords(reader *dpdf.Reader, pageNum int, pageH float64) (words []WordBox, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed content on page %d: %v", pageNum, r)
		}
	}()

	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return nil, fmt.Errorf("page %d is null", pageNum)
	}

	content := page.Content()
	rows := groupIntoRows(content.Text)

	for _, row := range rows {
		words = append(words, mergeRowWords(row, pageNum-1, pageH)...)
	}
	return words, nil
}

// groupIntoRows buckets text runs by baseline y. Runs whose baselines differ
// by less than rowTolerance share a row.
func groupIntoRows(texts []dpdf.Text) [][]dpdf.Text {
	runs := make([]dpdf.Text, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		runs = append(runs, t)
	}
	if len(runs) == 0 {
		return nil
	}

	sort.SliceStable(runs, func(i, j int) bool {
		if runs[i].Y != runs[j].Y {
			return runs[i].Y > runs[j].Y // PDF space: larger y is higher on the page
		}
		return runs[i].X < runs[j].X
	})

	var rows [][]dpdf.Text
	current := []dpdf.Text{runs[0]}
	refY := runs[0].Y
	for _, t := range runs[1:] {
		if refY-t.Y < rowTolerance {
			current = append(current, t)
			continue
		}
		rows = append(rows, current)
		current = []dpdf.Text{t}
		refY = t.Y
	}
	rows = append(rows, current)
	return rows
}

// mergeRowWords joins adjacent runs of one row into words, splitting where
// the horizontal gap exceeds wordGapFactor times the font size.
func mergeRowWords(row []dpdf.Text, pageIdx int, pageH float64) []WordBox {
	sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })

	var words []WordBox
	var sb strings.Builder
	var x0, xEnd, baseY, size float64

	flush := func() {
		text := strings.TrimSpace(norm.NFC.String(sb.String()))
		sb.Reset()
		if text == "" {
			return
		}
		y1 := pageH - baseY
		words = append(words, WordBox{
			Page: pageIdx,
			X0:   x0,
			Y0:   y1 - size,
			X1:   xEnd,
			Y1:   y1,
			Text: text,
		})
	}

	for i, t := range row {
		fs := t.FontSize
		if fs <= 0 {
			fs = fallbackFontSize
		}
		if i == 0 || t.X-xEnd > fs*wordGapFactor {
			if i > 0 {
				flush()
			}
			x0 = t.X
			xEnd = t.X
			baseY = t.Y
			size = fs
		}
		if fs > size {
			size = fs
		}
		sb.WriteString(t.S)
		if end := t.X + t.W; end > xEnd {
			xEnd = end
		}
	}
	flush()
	return words
}
