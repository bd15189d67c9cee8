package script

import (
	"math"
	"sort"
	"strings"

	"github.com/adflow-io/adflow/internal/pdfgeom"
	"github.com/adflow-io/adflow/internal/timecode"
)

// Anchor is a validated timecode found at a specific page position. Anchors
// delimit the script regions a page is cut into.
type Anchor struct {
	Raw  string
	TC   timecode.Timecode
	Page int
	Y    float64
	X    float64
}

// anchorDedupBand is the y-granularity at which near-duplicate anchors on the
// same page collapse into one. A timecode label rendered as two adjacent word
// fragments would otherwise be detected twice.
const anchorDedupBand = 10.0

// DetectAnchors scans all words for bare 4-6 digit runs that validate as
// timecodes, orders them by (page, y, x) and collapses near-duplicates.
// Digit runs that fail range validation are coincidental numbers and are
// skipped silently.
func DetectAnchors(words []pdfgeom.WordBox) []Anchor {
	var anchors []Anchor
	for _, w := range words {
		raw := strings.TrimSpace(w.Text)
		if len(raw) < 4 || len(raw) > 6 {
			continue
		}
		tc, ok := timecode.ParseDigits(raw)
		if !ok {
			continue
		}
		anchors = append(anchors, Anchor{Raw: raw, TC: tc, Page: w.Page, Y: w.Y0, X: w.X0})
	}

	sort.SliceStable(anchors, func(i, j int) bool {
		if anchors[i].Page != anchors[j].Page {
			return anchors[i].Page < anchors[j].Page
		}
		if anchors[i].Y != anchors[j].Y {
			return anchors[i].Y < anchors[j].Y
		}
		return anchors[i].X < anchors[j].X
	})

	type bandKey struct {
		page int
		band int
	}
	seen := make(map[bandKey]bool, len(anchors))
	deduped := anchors[:0]
	for _, a := range anchors {
		key := bandKey{page: a.Page, band: int(math.Round(a.Y / anchorDedupBand))}
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, a)
	}
	return deduped
}
