package timecode

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestParseDigitsProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("every valid MMSS run decodes to minutes*60+seconds", prop.ForAll(
		func(minutes, seconds int) bool {
			tc, ok := ParseDigits(fmt.Sprintf("%02d%02d", minutes, seconds))
			if !ok {
				return false
			}
			return tc.Milliseconds() == int64(minutes*60+seconds)*1000
		},
		gen.IntRange(0, 99),
		gen.IntRange(0, 59),
	))

	properties.Property("seconds field above 59 is always rejected", prop.ForAll(
		func(minutes, seconds int) bool {
			_, ok := ParseDigits(fmt.Sprintf("%02d%02d", minutes, seconds))
			return !ok
		},
		gen.IntRange(0, 99),
		gen.IntRange(60, 99),
	))

	properties.Property("HHMMSS decoding agrees with the re-rendered digit form", prop.ForAll(
		func(hours, minutes, seconds int) bool {
			tc, ok := ParseDigits(fmt.Sprintf("%02d%02d%02d", hours, minutes, seconds))
			if !ok {
				return false
			}
			return tc == Timecode{Hours: hours, Minutes: minutes, Seconds: seconds}
		},
		gen.IntRange(0, 99),
		gen.IntRange(0, 59),
		gen.IntRange(0, 59),
	))

	properties.TestingRun(t)
}

func TestConversionProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("timecode render/parse round-trips within one frame", prop.ForAll(
		func(ms int64) bool {
			parsed, err := Parse(ToTimecode(ms, DefaultFPS), DefaultFPS)
			if err != nil {
				return false
			}
			diff := ms - parsed
			return diff >= 0 && diff <= 1000/DefaultFPS+1
		},
		gen.Int64Range(0, 359_999_000),
	))

	properties.Property("frame count round-trip never gains time", prop.ForAll(
		func(ms int64) bool {
			back := FromFrames(ToFrames(ms, DefaultFPS), DefaultFPS)
			return back <= ms && ms-back < 1000/DefaultFPS+1
		},
		gen.Int64Range(0, 359_999_000),
	))

	properties.TestingRun(t)
}
