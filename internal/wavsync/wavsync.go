// Package wavsync aligns subtitle cue lengths with the rendered TTS takes on
// disk. Each cue expects a clip named after its start timecode; the analyzer
// compares the clip's real length against the cue's slot and retimes cue ends
// to match what was actually voiced.
package wavsync

import (
	"fmt"
	"os"
	"strings"

	"github.com/adflow-io/adflow/internal/audio"
	"github.com/adflow-io/adflow/internal/srt"
	"github.com/adflow-io/adflow/internal/timecode"
)

// Status classifies one cue against its clip.
type Status string

const (
	// StatusSynced means the clip fits the cue slot within tolerance.
	StatusSynced Status = "synced"
	// StatusShorter means the clip leaves unused room in the slot.
	StatusShorter Status = "shorter"
	// StatusLonger means the clip runs past the slot.
	StatusLonger Status = "longer"
	// StatusMissing means no clip exists for the cue.
	StatusMissing Status = "missing"
)

// syncToleranceMS is the absolute clip/slot difference still counted as
// synced.
const syncToleranceMS = 100

// Entry is the sync verdict for one cue.
type Entry struct {
	Index         int    `json:"index"`
	StartMS       int64  `json:"start_ms"`
	OriginalEndMS int64  `json:"original_end_ms"`
	WAVDurationMS int64  `json:"wav_duration_ms"`
	SyncedEndMS   int64  `json:"synced_end_ms"`
	Text          string `json:"text"`
	WAVFilename   string `json:"wav_filename"`
	Status        Status `json:"status"`
	DiffMS        int64  `json:"diff_ms"`
}

// Analyzer matches cues to clips at a fixed frame rate. The frame rate
// matters because clip filenames carry frame-precise timecodes.
type Analyzer struct {
	fps       int
	tolerance int64
}

// NewAnalyzer returns an analyzer for the given frame rate, falling back to
// the house default for non-positive values.
func NewAnalyzer(fps int) *Analyzer {
	return NewAnalyzerWithTolerance(fps, syncToleranceMS)
}

// NewAnalyzerWithTolerance is NewAnalyzer with an explicit synced
// threshold in milliseconds. Negative tolerances fall back to the
// default.
func NewAnalyzerWithTolerance(fps int, toleranceMS int64) *Analyzer {
	if fps <= 0 {
		fps = timecode.DefaultFPS
	}
	if toleranceMS < 0 {
		toleranceMS = syncToleranceMS
	}
	return &Analyzer{fps: fps, tolerance: toleranceMS}
}

// Analyze parses the SRT file and checks each cue against the clips in
// wavDir.
func (a *Analyzer) Analyze(srtPath, wavDir string) ([]Entry, error) {
	cues, err := srt.Parse(srtPath)
	if err != nil {
		return nil, err
	}
	return a.AnalyzeEntries(cues, wavDir), nil
}

// AnalyzeEntries checks already-parsed cues against the clips in wavDir.
func (a *Analyzer) AnalyzeEntries(cues []srt.Entry, wavDir string) []Entry {
	entries := make([]Entry, 0, len(cues))

	for _, cue := range cues {
		clipPath := audio.ClipPath(wavDir, cue.StartMS, a.fps)
		e := Entry{
			Index:         cue.Index,
			StartMS:       cue.StartMS,
			OriginalEndMS: cue.EndMS,
			SyncedEndMS:   cue.EndMS,
			Text:          cue.Text,
			WAVFilename:   timecode.ToFilename(cue.StartMS, a.fps) + ".wav",
			Status:        StatusMissing,
		}

		if info, err := audio.ReadInfo(clipPath); err == nil {
			diff := info.DurationMS - cue.Duration()
			e.WAVDurationMS = info.DurationMS
			e.SyncedEndMS = cue.StartMS + info.DurationMS
			e.DiffMS = diff
			switch {
			case diff <= -a.tolerance:
				e.Status = StatusShorter
			case diff >= a.tolerance:
				e.Status = StatusLonger
			default:
				e.Status = StatusSynced
			}
		}

		entries = append(entries, e)
	}
	return entries
}

// Unmatched lists the clips in wavDir that no cue starts at. Stray takes
// usually mean a cue was retimed or deleted after rendering.
func (a *Analyzer) Unmatched(entries []Entry, wavDir string) ([]audio.Clip, error) {
	clips, err := audio.ScanDir(wavDir, a.fps)
	if err != nil {
		return nil, err
	}

	starts := make(map[int64]bool, len(entries))
	for _, e := range entries {
		starts[e.StartMS] = true
	}

	var extra []audio.Clip
	for _, clip := range clips {
		if !starts[clip.StartMS] {
			extra = append(extra, clip)
		}
	}
	return extra, nil
}

// SyncedSRT renders the cue list with clip-accurate end times. Cues without
// a clip keep their original timing.
func SyncedSRT(entries []Entry) string {
	cues := make([]srt.Entry, 0, len(entries))
	for _, e := range entries {
		end := e.SyncedEndMS
		if e.Status == StatusMissing {
			end = e.OriginalEndMS
		}
		cues = append(cues, srt.Entry{
			Index:   e.Index,
			StartMS: e.StartMS,
			EndMS:   end,
			Text:    e.Text,
		})
	}
	return srt.GenerateTimed(cues)
}

// SaveSyncedSRT writes the retimed SRT file.
func SaveSyncedSRT(path string, entries []Entry) error {
	if err := os.WriteFile(path, []byte(SyncedSRT(entries)), 0o644); err != nil {
		return fmt.Errorf("failed to write synced SRT: %w", err)
	}
	return nil
}

// Summary counts entries per status.
type Summary struct {
	Total   int `json:"total"`
	Synced  int `json:"synced"`
	Shorter int `json:"shorter"`
	Longer  int `json:"longer"`
	Missing int `json:"missing"`
}

// Summarize tallies the analysis.
func Summarize(entries []Entry) Summary {
	s := Summary{Total: len(entries)}
	for _, e := range entries {
		switch e.Status {
		case StatusSynced:
			s.Synced++
		case StatusShorter:
			s.Shorter++
		case StatusLonger:
			s.Longer++
		case StatusMissing:
			s.Missing++
		}
	}
	return s
}

// statusLabel maps a status to its Korean report label.
func statusLabel(s Status) string {
	switch s {
	case StatusSynced:
		return "OK"
	case StatusShorter:
		return "여유"
	case StatusLonger:
		return "초과"
	case StatusMissing:
		return "누락"
	}
	return string(s)
}

// Report renders the plain-text sync report.
func (a *Analyzer) Report(entries []Entry) string {
	lines := []string{"동기화 리포트", strings.Repeat("=", 50), ""}

	for _, e := range entries {
		lines = append(lines,
			fmt.Sprintf("#%d [%s] %s", e.Index, timecode.ToTimecode(e.StartMS, a.fps), statusLabel(e.Status)),
			fmt.Sprintf("  원본: %dms, WAV: %dms, 차이: %dms",
				e.OriginalEndMS-e.StartMS, e.WAVDurationMS, e.DiffMS),
			"",
		)
	}

	s := Summarize(entries)
	lines = append(lines,
		strings.Repeat("=", 50),
		fmt.Sprintf("총계: %d개", s.Total),
		fmt.Sprintf("  OK: %d, 여유: %d, 초과: %d, 누락: %d", s.Synced, s.Shorter, s.Longer, s.Missing),
	)
	return strings.Join(lines, "\n")
}

// SaveReport writes the plain-text sync report.
func (a *Analyzer) SaveReport(path string, entries []Entry) error {
	if err := os.WriteFile(path, []byte(a.Report(entries)), 0o644); err != nil {
		return fmt.Errorf("failed to write sync report: %w", err)
	}
	return nil
}
