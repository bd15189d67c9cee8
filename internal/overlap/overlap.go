// Package overlap checks whether rendered TTS takes fit inside the time
// slots their cues allow. A take that runs past its slot talks over the next
// cue or over program audio, so every overrun is a delivery blocker.
package overlap

import (
	"fmt"
	"os"
	"strings"

	"github.com/adflow-io/adflow/internal/audio"
	"github.com/adflow-io/adflow/internal/srt"
	"github.com/adflow-io/adflow/internal/timecode"
)

// Status classifies one cue's take against its slot.
type Status string

const (
	// StatusOK means the take fits its slot.
	StatusOK Status = "OK"
	// StatusOver means the take runs past its slot.
	StatusOver Status = "OVER"
	// StatusMissing means no take exists for the cue.
	StatusMissing Status = "MISSING"
)

// maxReportTextLen caps cue text in reports so one long narration line does
// not drown the listing.
const maxReportTextLen = 50

// UnboundedSlot is the AvailableDurationMS value for the final cue, whose
// slot no following cue limits.
const UnboundedSlot int64 = -1

// Result is the verdict for one cue.
type Result struct {
	Index               int    `json:"index"`
	Timecode            string `json:"timecode"`
	Text                string `json:"text"`
	TTSDurationMS       int64  `json:"tts_duration_ms"`
	AvailableDurationMS int64  `json:"available_duration_ms"`
	DiffMS              int64  `json:"diff_ms"`
	Status              Status `json:"status"`
	WAVPath             string `json:"wav_path,omitempty"`
}

// Over reports whether this cue's take overruns its slot.
func (r Result) Over() bool {
	return r.Status == StatusOver
}

// Checker runs the slot check at a fixed frame rate.
type Checker struct {
	fps int
}

// NewChecker returns a checker, falling back to the house frame rate for
// non-positive values.
func NewChecker(fps int) *Checker {
	if fps <= 0 {
		fps = timecode.DefaultFPS
	}
	return &Checker{fps: fps}
}

// Take is one rendered clip, keyed in a take map by the cue start it
// belongs to.
type Take struct {
	Path       string
	DurationMS int64
}

// LoadTakes indexes the clips under wavDir by start time. Unreadable clips
// are dropped, the same as the sync pipeline treats them.
func (c *Checker) LoadTakes(wavDir string) (map[int64]Take, error) {
	clips, err := audio.ScanDir(wavDir, c.fps)
	if err != nil {
		return nil, err
	}

	takes := make(map[int64]Take, len(clips))
	for _, clip := range clips {
		if d := audio.Duration(clip.Path); d > 0 {
			takes[clip.StartMS] = Take{Path: clip.Path, DurationMS: d}
		}
	}
	return takes, nil
}

// Check matches each cue's take against its slot. A cue's slot runs from its
// start to the next cue's start; the final cue's slot is unbounded.
func (c *Checker) Check(cues []srt.Entry, takes map[int64]Take) []Result {
	results := make([]Result, 0, len(cues))

	for i, cue := range cues {
		slot := UnboundedSlot
		if i+1 < len(cues) {
			slot = cues[i+1].StartMS - cue.StartMS
		}

		r := Result{
			Index:               cue.Index,
			Timecode:            timecode.ToTimecode(cue.StartMS, c.fps),
			Text:                truncate(cue.Text),
			AvailableDurationMS: slot,
			Status:              StatusMissing,
		}

		if take, ok := takes[cue.StartMS]; ok {
			r.TTSDurationMS = take.DurationMS
			r.WAVPath = take.Path
			r.Status = StatusOK
			if slot != UnboundedSlot {
				r.DiffMS = take.DurationMS - slot
				if r.DiffMS > 0 {
					r.Status = StatusOver
				}
			}
		}

		results = append(results, r)
	}
	return results
}

// CheckFile parses the SRT file, scans wavDir, and runs the check.
func (c *Checker) CheckFile(srtPath, wavDir string) ([]Result, error) {
	cues, err := srt.Parse(srtPath)
	if err != nil {
		return nil, err
	}
	takes, err := c.LoadTakes(wavDir)
	if err != nil {
		return nil, err
	}
	return c.Check(cues, takes), nil
}

// Issues filters the overruns out of a result list.
func Issues(results []Result) []Result {
	var issues []Result
	for _, r := range results {
		if r.Over() {
			issues = append(issues, r)
		}
	}
	return issues
}

// Summary aggregates one check run.
type Summary struct {
	Total       int   `json:"total"`
	OK          int   `json:"ok"`
	Over        int   `json:"over"`
	Missing     int   `json:"missing"`
	TotalOverMS int64 `json:"total_over_ms"`
	HasIssues   bool  `json:"has_issues"`
}

// Summarize tallies the results.
func Summarize(results []Result) Summary {
	var s Summary
	s.Total = len(results)
	for _, r := range results {
		switch r.Status {
		case StatusOK:
			s.OK++
		case StatusOver:
			s.Over++
			s.TotalOverMS += r.DiffMS
		case StatusMissing:
			s.Missing++
		}
	}
	s.HasIssues = s.Over > 0 || s.Missing > 0
	return s
}

// Report renders the check as the delivery-review text report.
func Report(results []Result) string {
	summary := Summarize(results)
	issues := Issues(results)
	rule := strings.Repeat("=", 50)

	lines := []string{rule, "AD TTS 분량 검사 리포트", rule, ""}

	if len(issues) > 0 {
		lines = append(lines, fmt.Sprintf("⚠️ 문제 구간: %d개", len(issues)), "")
		for _, item := range issues {
			lines = append(lines,
				fmt.Sprintf("[%s] #%d", item.Timecode, item.Index),
				fmt.Sprintf("  내용: %s", item.Text),
				fmt.Sprintf("  TTS: %.1f초", float64(item.TTSDurationMS)/1000),
				fmt.Sprintf("  가용: %.1f초", float64(item.AvailableDurationMS)/1000),
				fmt.Sprintf("  초과: %.1f초", float64(item.DiffMS)/1000),
				"",
			)
		}
	} else {
		lines = append(lines, "모든 구간 정상", "")
	}

	lines = append(lines,
		strings.Repeat("-", 50),
		fmt.Sprintf("총 %d개 구간", summary.Total),
		fmt.Sprintf("  - 정상: %d개", summary.OK),
		fmt.Sprintf("  - 초과: %d개", summary.Over),
		fmt.Sprintf("  - 누락: %d개", summary.Missing),
	)
	if summary.TotalOverMS > 0 {
		lines = append(lines, fmt.Sprintf("  - 총 초과 시간: %.1f초", float64(summary.TotalOverMS)/1000))
	}
	lines = append(lines, rule)

	return strings.Join(lines, "\n")
}

// SaveReport writes the text report.
func SaveReport(path string, results []Result) error {
	if err := os.WriteFile(path, []byte(Report(results)), 0o644); err != nil {
		return fmt.Errorf("failed to write overlap report: %w", err)
	}
	return nil
}

// truncate shortens long cue text for report listings.
func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxReportTextLen {
		return s
	}
	return string(runes[:maxReportTextLen]) + "..."
}
