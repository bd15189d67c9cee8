package script

import (
	"math"
	"regexp"
	"strings"
)

// soundKeywords is the denylist of sound-effect terms. A leading parenthetical
// containing any of these is an effect cue for the mixer, not a narration
// instruction, and must not surface in the output.
var soundKeywords = []string{
	"소리", "울음", "웃음", "효과음", "천둥", "한숨", "비명", "신음",
}

// regionPadding widens each region upward so that the anchor's own line, whose
// words may sit a few units above the detected anchor word, is still caught.
const regionPadding = 5.0

var (
	timecodePrefixRe = regexp.MustCompile(`^\d{4,6}\s*`)
	leadingParenRe   = regexp.MustCompile(`^\(([^)]+)\)\s*(.*)$`)
	anyParenRe       = regexp.MustCompile(`\([^)]*\)\s*`)
)

// region is the per-anchor accumulation of instruction and narration text.
type region struct {
	anchor       Anchor
	instructions []string
	narration    []string
}

// assignRegions cuts the grouped lines into per-anchor regions. Region i spans
// [anchor[i].Y - padding, anchor[i+1].Y - padding) when the next anchor is on
// the same page, and to the end of the page otherwise. Content never crosses a
// page boundary: narration that physically continues onto the next page ahead
// of its next anchor is lost here; the validator's independent syllable check
// surfaces the loss.
func assignRegions(anchors []Anchor, lines []TextLine) []region {
	regions := make([]region, 0, len(anchors))

	for i, a := range anchors {
		top := a.Y - regionPadding
		bottom := math.Inf(1)
		if i+1 < len(anchors) && anchors[i+1].Page == a.Page {
			bottom = anchors[i+1].Y - regionPadding
		}

		r := region{anchor: a}
		for _, ln := range lines {
			if ln.Page != a.Page || ln.Y < top || ln.Y >= bottom {
				continue
			}
			collectLine(&r, ln)
		}
		regions = append(regions, r)
	}
	return regions
}

// collectLine feeds one line into a region. Every line may contribute a
// leading parenthetical as an instruction; only underlined lines contribute
// their residual text as narration.
func collectLine(r *region, ln TextLine) {
	text := timecodePrefixRe.ReplaceAllString(ln.Text, "")

	if m := leadingParenRe.FindStringSubmatch(text); m != nil {
		if !containsSoundKeyword(m[1]) {
			r.instructions = append(r.instructions, m[1])
		}
		text = m[2]
	}

	if ln.Underlined {
		if t := strings.TrimSpace(text); t != "" {
			r.narration = append(r.narration, t)
		}
	}
}

func containsSoundKeyword(s string) bool {
	for _, kw := range soundKeywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// underlinedText derives the validation ground truth: the text of every
// underlined line in document order, with timecode prefixes and all
// parenthetical groups stripped. This walk intentionally ignores region
// assignment so the validator can catch region bugs instead of echoing them.
func underlinedText(lines []TextLine) string {
	var parts []string
	for _, ln := range lines {
		if !ln.Underlined {
			continue
		}
		t := timecodePrefixRe.ReplaceAllString(ln.Text, "")
		t = anyParenRe.ReplaceAllString(t, "")
		if t = strings.TrimSpace(t); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
