// Package timecode converts between millisecond offsets, frame counts and
// HH:MM:SS:FF timecode strings as used by AD scripts and editorial exports.
package timecode

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultFPS is the frame rate assumed when none is configured.
// AD delivery specs in this workflow are 24 fps.
const DefaultFPS = 24

// Timecode is a wall-clock position with second precision. Script PDFs encode
// timecodes as bare digit runs without a frames field, so frames are always
// rendered as "00".
type Timecode struct {
	Hours   int
	Minutes int
	Seconds int
}

// ParseDigits interprets a bare 4-6 digit run as a timecode and validates its
// numeric ranges. The encoding depends on length:
//
//	4 digits: MMSS, minutes 0-99
//	5 digits: HMMSS, single hour digit
//	6 digits: HHMMSS, hours 0-99
//
// The boolean is false when the run is not a plausible timecode (for example
// "9960", whose seconds field is out of range); callers treat such runs as
// ordinary numbers, not as errors.
func ParseDigits(s string) (Timecode, bool) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return Timecode{}, false
		}
	}

	switch len(s) {
	case 4:
		mm, _ := strconv.Atoi(s[:2])
		ss, _ := strconv.Atoi(s[2:])
		if mm > 99 || ss > 59 {
			return Timecode{}, false
		}
		return Timecode{Hours: mm / 60, Minutes: mm % 60, Seconds: ss}, true
	case 5:
		h, _ := strconv.Atoi(s[:1])
		mm, _ := strconv.Atoi(s[1:3])
		ss, _ := strconv.Atoi(s[3:])
		if mm > 59 || ss > 59 {
			return Timecode{}, false
		}
		return Timecode{Hours: h, Minutes: mm, Seconds: ss}, true
	case 6:
		hh, _ := strconv.Atoi(s[:2])
		mm, _ := strconv.Atoi(s[2:4])
		ss, _ := strconv.Atoi(s[4:])
		if hh > 99 || mm > 59 || ss > 59 {
			return Timecode{}, false
		}
		return Timecode{Hours: hh, Minutes: mm, Seconds: ss}, true
	default:
		return Timecode{}, false
	}
}

// Milliseconds returns the absolute offset of the timecode.
func (t Timecode) Milliseconds() int64 {
	return int64(t.Hours*3600+t.Minutes*60+t.Seconds) * 1000
}

// String renders the timecode as "HH:MM:SS:00". The frames field is always
// zero because script timecodes carry no sub-second component.
func (t Timecode) String() string {
	return fmt.Sprintf("%02d:%02d:%02d:00", t.Hours, t.Minutes, t.Seconds)
}

// Digits renders a millisecond offset in the raw 4-digit MMSS form used by
// script PDFs, with total minutes in the minutes field (so 1h10m becomes
// "7000"). Offsets beyond 99 minutes widen the minutes field.
func Digits(ms int64) string {
	return fmt.Sprintf("%02d%02d", ms/60000, ms%60000/1000)
}

// ToTimecode renders a millisecond offset as "HH:MM:SS:FF" at the given frame
// rate.
func ToTimecode(ms int64, fps int) string {
	if fps <= 0 {
		fps = DefaultFPS
	}
	totalSeconds := ms / 1000
	h := totalSeconds / 3600
	m := totalSeconds % 3600 / 60
	s := totalSeconds % 60
	f := ms % 1000 * int64(fps) / 1000
	return fmt.Sprintf("%02d:%02d:%02d:%02d", h, m, s, f)
}

// ToFilename renders a millisecond offset as a filesystem-safe timecode,
// "HH_MM_SS_FF". TTS output files are named this way after their start offset.
func ToFilename(ms int64, fps int) string {
	return strings.ReplaceAll(ToTimecode(ms, fps), ":", "_")
}

// ToFrames converts a millisecond offset to a frame count at the given rate.
func ToFrames(ms int64, fps int) int64 {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return ms * int64(fps) / 1000
}

// FromFrames converts a frame count back to milliseconds.
func FromFrames(frames int64, fps int) int64 {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return frames * 1000 / int64(fps)
}

// FramesToTimecode renders a frame count as "HH:MM:SS:FF".
func FramesToTimecode(frames int64, fps int) string {
	if fps <= 0 {
		fps = DefaultFPS
	}
	r := int64(fps)
	h := frames / (3600 * r)
	m := frames % (3600 * r) / (60 * r)
	s := frames % (60 * r) / r
	f := frames % r
	return fmt.Sprintf("%02d:%02d:%02d:%02d", h, m, s, f)
}

// Parse converts an "HH:MM:SS:FF" string (drop-frame ";" separators are
// tolerated) to a millisecond offset.
func Parse(tc string, fps int) (int64, error) {
	if fps <= 0 {
		fps = DefaultFPS
	}
	parts := strings.Split(strings.ReplaceAll(tc, ";", ":"), ":")
	if len(parts) != 4 {
		return 0, fmt.Errorf("invalid timecode %q: expected HH:MM:SS:FF", tc)
	}
	vals := make([]int64, 4)
	for i, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid timecode %q: %w", tc, err)
		}
		if v < 0 {
			return 0, fmt.Errorf("invalid timecode %q: negative field", tc)
		}
		vals[i] = v
	}
	return (vals[0]*3600+vals[1]*60+vals[2])*1000 + vals[3]*1000/int64(fps), nil
}

// ParseFilename converts a "HH_MM_SS_FF" file stem (optionally with an
// extension) to a millisecond offset.
func ParseFilename(name string, fps int) (int64, error) {
	stem := name
	if i := strings.LastIndex(stem, "."); i >= 0 {
		stem = stem[:i]
	}
	return Parse(strings.ReplaceAll(stem, "_", ":"), fps)
}

// FormatDuration renders a millisecond duration in a short human-readable
// Korean form, e.g. "2.5초", "1분 12.0초", "1시간 5분".
func FormatDuration(ms int64) string {
	seconds := float64(ms) / 1000
	switch {
	case seconds < 60:
		return fmt.Sprintf("%.1f초", seconds)
	case seconds < 3600:
		m := int(seconds) / 60
		return fmt.Sprintf("%d분 %.1f초", m, seconds-float64(m*60))
	default:
		h := int(seconds) / 3600
		m := int(seconds) % 3600 / 60
		return fmt.Sprintf("%d시간 %d분", h, m)
	}
}
