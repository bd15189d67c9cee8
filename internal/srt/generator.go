// Package srt renders script entries as SubRip subtitle files and reads them
// back. Generated files follow the house cue conventions: a cue runs until
// the next cue starts, and the last cue gets a fixed default duration.
package srt

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/adflow-io/adflow/internal/script"
)

// defaultDurationMS is how long the final cue stays on screen when no
// following cue bounds it.
const defaultDurationMS = 5000

var (
	bracketRe    = regexp.MustCompile(`\([^)]*\)`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	periodRe     = regexp.MustCompile(`\.\s+`)
)

// GenerateOptions control cue text layout and timing.
type GenerateOptions struct {
	// MaxCharsPerLine wraps cue lines that grow past this many characters.
	MaxCharsPerLine int
	// BreakOnPeriod starts a new cue line after each sentence end.
	BreakOnPeriod bool
	// RemoveBrackets strips parenthesized instructions from the cue text.
	RemoveBrackets bool
	// DefaultDurationMS bounds the final cue; zero falls back to 5000.
	DefaultDurationMS int64
}

// DefaultGenerateOptions returns the layout used for delivery files.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		MaxCharsPerLine:   40,
		BreakOnPeriod:     true,
		RemoveBrackets:    true,
		DefaultDurationMS: defaultDurationMS,
	}
}

// Generate renders the entries as one SRT document. Each cue ends where the
// next one begins; the final cue gets the default duration.
func Generate(entries []script.Entry, opts GenerateOptions) string {
	lastDuration := opts.DefaultDurationMS
	if lastDuration <= 0 {
		lastDuration = defaultDurationMS
	}

	blocks := make([]string, 0, len(entries))
	for i, entry := range entries {
		startMS := entry.TimecodeMS
		endMS := startMS + lastDuration
		if i+1 < len(entries) {
			endMS = entries[i+1].TimecodeMS
		}

		text := entry.Text
		if opts.RemoveBrackets {
			text = bracketRe.ReplaceAllString(text, "")
			text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
		}
		text = formatText(text, opts.MaxCharsPerLine, opts.BreakOnPeriod)

		var b strings.Builder
		fmt.Fprintf(&b, "%d\n", entry.Index)
		fmt.Fprintf(&b, "%s --> %s\n", Timestamp(startMS), Timestamp(endMS))
		fmt.Fprintf(&b, "%s\n", text)
		blocks = append(blocks, b.String())
	}

	return strings.Join(blocks, "\n")
}

// GenerateTimed renders cues that already carry their own end times, as the
// sync pipeline produces them.
func GenerateTimed(entries []Entry) string {
	blocks := make([]string, 0, len(entries))
	for _, entry := range entries {
		var b strings.Builder
		fmt.Fprintf(&b, "%d\n", entry.Index)
		fmt.Fprintf(&b, "%s --> %s\n", Timestamp(entry.StartMS), Timestamp(entry.EndMS))
		fmt.Fprintf(&b, "%s\n", entry.Text)
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n")
}

// formatText applies sentence breaks and line wrapping. Wrapped lines break
// at the first space or comma once they reach the limit.
func formatText(text string, maxChars int, breakOnPeriod bool) string {
	if breakOnPeriod {
		text = periodRe.ReplaceAllString(text, ".\n")
	}

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		runes := []rune(line)
		if maxChars <= 0 || len(runes) <= maxChars {
			lines = append(lines, line)
			continue
		}

		var current []rune
		for _, r := range runes {
			current = append(current, r)
			if len(current) >= maxChars && (r == ' ' || r == ',') {
				lines = append(lines, strings.TrimSpace(string(current)))
				current = current[:0]
			}
		}
		if rest := strings.TrimSpace(string(current)); rest != "" {
			lines = append(lines, rest)
		}
	}

	return strings.Join(lines, "\n")
}

// Timestamp renders milliseconds in SRT time notation.
func Timestamp(ms int64) string {
	hours := ms / 3600000
	minutes := (ms % 3600000) / 60000
	seconds := (ms % 60000) / 1000
	millis := ms % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}

// Save writes SRT content in the given encoding. Supported encodings are
// utf-8 (the default for an empty name), cp949 and euc-kr.
func Save(path, content, encoding string) error {
	data, err := encodeText(content, encoding)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write SRT file: %w", err)
	}
	return nil
}
