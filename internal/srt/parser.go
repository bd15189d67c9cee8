package srt

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Entry is one parsed subtitle cue.
type Entry struct {
	Index   int    `json:"index"`
	StartMS int64  `json:"start_ms"`
	EndMS   int64  `json:"end_ms"`
	Text    string `json:"text"`
}

// Duration returns the cue length in milliseconds.
func (e Entry) Duration() int64 {
	return e.EndMS - e.StartMS
}

var (
	timingRe    = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2}),(\d{3})\s*-->\s*(\d{2}):(\d{2}):(\d{2}),(\d{3})\s*$`)
	indexLineRe = regexp.MustCompile(`^\d+$`)
)

// Parse reads and parses an SRT file, accepting UTF-8 with or without a BOM
// as well as the CP949/EUC-KR files older Korean tooling produces. A file
// yielding no cues at all is an error; the sync and export flows have nothing
// to work with and silently empty results hide a wrong input path.
func Parse(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read SRT file: %w", err)
	}
	entries := ParseText(DecodeText(data))
	if len(entries) == 0 {
		return nil, fmt.Errorf("no subtitle cues found in %s", path)
	}
	return entries, nil
}

// ParseText parses SRT content. Cues are an index line, a timing line and one
// or more text lines; a blank line or the next index line ends the cue. Lines
// that fit no cue are skipped rather than treated as errors, since subtitle
// files in the wild carry stray headers and trailing junk.
func ParseText(content string) []Entry {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	lines := strings.Split(content, "\n")

	var entries []Entry
	i := 0
	for i < len(lines) {
		if !startsCue(lines, i) {
			trimmed := strings.TrimSpace(lines[i])
			if indexLineRe.MatchString(trimmed) && i+1 < len(lines) && strings.TrimSpace(lines[i+1]) != "" {
				slog.Warn("skipping malformed cue", "line", i+1, "index", trimmed)
			}
			i++
			continue
		}

		index, _ := strconv.Atoi(strings.TrimSpace(lines[i]))
		m := timingRe.FindStringSubmatch(strings.TrimSpace(lines[i+1]))
		i += 2

		var text []string
		for i < len(lines) {
			trimmed := strings.TrimSpace(lines[i])
			if trimmed == "" {
				i++
				break
			}
			if startsCue(lines, i) {
				break
			}
			text = append(text, trimmed)
			i++
		}

		entries = append(entries, Entry{
			Index:   index,
			StartMS: fieldsToMS(m[1], m[2], m[3], m[4]),
			EndMS:   fieldsToMS(m[5], m[6], m[7], m[8]),
			Text:    strings.Join(text, " "),
		})
	}
	return entries
}

// startsCue reports whether line i is an index line directly followed by a
// timing line.
func startsCue(lines []string, i int) bool {
	if !indexLineRe.MatchString(strings.TrimSpace(lines[i])) {
		return false
	}
	return i+1 < len(lines) && timingRe.MatchString(strings.TrimSpace(lines[i+1]))
}

func fieldsToMS(h, m, s, ms string) int64 {
	hv, _ := strconv.ParseInt(h, 10, 64)
	mv, _ := strconv.ParseInt(m, 10, 64)
	sv, _ := strconv.ParseInt(s, 10, 64)
	msv, _ := strconv.ParseInt(ms, 10, 64)
	return hv*3600000 + mv*60000 + sv*1000 + msv
}

// TotalDuration returns the end time of the latest-ending cue.
func TotalDuration(entries []Entry) int64 {
	var max int64
	for _, e := range entries {
		if e.EndMS > max {
			max = e.EndMS
		}
	}
	return max
}

// TotalTextLength returns the combined cue text length in runes.
func TotalTextLength(entries []Entry) int {
	total := 0
	for _, e := range entries {
		total += len([]rune(e.Text))
	}
	return total
}
