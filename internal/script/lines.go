package script

import (
	"sort"
	"strings"

	"github.com/adflow-io/adflow/internal/pdfgeom"
)

// TextLine is a visual line reconstructed from word boxes by y-proximity.
// The PDF library's own line/paragraph structure is deliberately ignored; it
// is unreliable for mixed Korean/Latin AD scripts.
type TextLine struct {
	Page       int
	Y          float64
	Text       string
	Underlined bool
}

// lineYThreshold is the y0 distance below which a word still belongs to the
// current line cluster.
const lineYThreshold = 8.0

// underlineMaxGap bounds how far below a word's baseline an underline stroke
// may sit and still count as underlining that word.
const underlineMaxGap = 5.0

// GroupLines clusters words into visual lines. Words are sorted by
// (page, y0, x0) and walked once: a word joins the current cluster when it is
// on the same page and its y0 lies within lineYThreshold of the cluster's
// reference y (the first word's y0); otherwise the cluster is closed. Line
// text joins the cluster's words in x-order with single spaces. A line is
// underlined when ANY of its words is; underline strokes are drawn
// per-phrase, not per-character.
func GroupLines(words []pdfgeom.WordBox, underlines []pdfgeom.UnderlineSegment) []TextLine {
	if len(words) == 0 {
		return nil
	}

	sorted := make([]pdfgeom.WordBox, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Page != sorted[j].Page {
			return sorted[i].Page < sorted[j].Page
		}
		if sorted[i].Y0 != sorted[j].Y0 {
			return sorted[i].Y0 < sorted[j].Y0
		}
		return sorted[i].X0 < sorted[j].X0
	})

	byPage := make(map[int][]pdfgeom.UnderlineSegment, 8)
	for _, u := range underlines {
		byPage[u.Page] = append(byPage[u.Page], u)
	}

	var lines []TextLine
	var cluster []pdfgeom.WordBox
	refY := sorted[0].Y0
	refPage := sorted[0].Page

	flush := func() {
		if len(cluster) == 0 {
			return
		}
		lines = append(lines, closeLine(cluster, byPage[refPage]))
		cluster = cluster[:0]
	}

	for _, w := range sorted {
		if w.Page != refPage || abs(w.Y0-refY) >= lineYThreshold {
			flush()
			refY = w.Y0
			refPage = w.Page
		}
		cluster = append(cluster, w)
	}
	flush()
	return lines
}

// closeLine finalizes one cluster into a TextLine.
func closeLine(cluster []pdfgeom.WordBox, underlines []pdfgeom.UnderlineSegment) TextLine {
	line := TextLine{
		Page: cluster[0].Page,
		Y:    cluster[0].Y0,
	}

	ordered := make([]pdfgeom.WordBox, len(cluster))
	copy(ordered, cluster)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].X0 < ordered[j].X0 })

	parts := make([]string, 0, len(ordered))
	for _, w := range ordered {
		parts = append(parts, w.Text)
		if !line.Underlined && wordUnderlined(w, underlines) {
			line.Underlined = true
		}
	}
	line.Text = strings.Join(parts, " ")
	return line
}

// wordUnderlined reports whether a stroke sits directly below the word: the
// stroke's y must fall strictly between 0 and underlineMaxGap below the
// word's bottom edge, with any horizontal overlap.
func wordUnderlined(w pdfgeom.WordBox, underlines []pdfgeom.UnderlineSegment) bool {
	for _, u := range underlines {
		gap := u.Y - w.Y1
		if gap > 0 && gap < underlineMaxGap && w.X0 < u.X1 && w.X1 > u.X0 {
			return true
		}
	}
	return false
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
