package script

import (
	"math"
	"testing"

	"github.com/adflow-io/adflow/internal/pdfgeom"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestLineClusteringProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("two words share a line exactly when their y distance is under the threshold",
		prop.ForAll(
			func(base int, delta int) bool {
				y0 := float64(base)
				y1 := y0 + float64(delta)/10.0
				words := []pdfgeom.WordBox{
					{Page: 0, X0: 72, Y0: y0, X1: 110, Y1: y0 + 12, Text: "남자가"},
					{Page: 0, X0: 120, Y0: y1, X1: 160, Y1: y1 + 12, Text: "걸어간다"},
				}
				lines := GroupLines(words, nil)
				if math.Abs(y1-y0) < lineYThreshold {
					return len(lines) == 1
				}
				return len(lines) == 2
			},
			gen.IntRange(50, 700),
			gen.IntRange(0, 300),
		))

	properties.Property("every input word lands in exactly one line",
		prop.ForAll(
			func(ys []int) bool {
				words := make([]pdfgeom.WordBox, len(ys))
				for i, y := range ys {
					words[i] = pdfgeom.WordBox{
						Page: 0,
						X0:   72, Y0: float64(y),
						X1: 110, Y1: float64(y) + 12,
						Text: "가",
					}
				}
				lines := GroupLines(words, nil)
				// Each source word is a single syllable, so counting the
				// non-space runes of every joined line recovers the word count.
				total := 0
				for _, ln := range lines {
					for _, r := range ln.Text {
						if r != ' ' {
							total++
						}
					}
				}
				return total == len(words)
			},
			gen.SliceOf(gen.IntRange(50, 700)),
		))

	properties.Property("lines come out ordered by page then y",
		prop.ForAll(
			func(ys []int) bool {
				words := make([]pdfgeom.WordBox, len(ys))
				for i, y := range ys {
					words[i] = pdfgeom.WordBox{
						Page: i % 2,
						X0:   72, Y0: float64(y),
						X1: 110, Y1: float64(y) + 12,
						Text: "가",
					}
				}
				lines := GroupLines(words, nil)
				for i := 1; i < len(lines); i++ {
					if lines[i].Page < lines[i-1].Page {
						return false
					}
					if lines[i].Page == lines[i-1].Page && lines[i].Y < lines[i-1].Y {
						return false
					}
				}
				return true
			},
			gen.SliceOf(gen.IntRange(50, 700)),
		))

	properties.TestingRun(t)
}
