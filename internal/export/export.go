// Package export renders converted scripts and their TTS takes into
// postproduction exchange formats: XLSX review sheets, FCPXML timelines for
// DaVinci Resolve and CMX 3600 EDLs.
package export

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/adflow-io/adflow/internal/audio"
	"github.com/adflow-io/adflow/internal/srt"
	"github.com/adflow-io/adflow/internal/timecode"
)

// ErrNoClips means no cue had a matching WAV take, leaving nothing to place
// on a timeline.
var ErrNoClips = errors.New("no audio clips found for any cue")

// clip is one placeable take with its resolved media info.
type clip struct {
	filename   string
	path       string
	startMS    int64
	durationMS int64
	sampleRate int
}

// collectClips resolves each cue's take in wavDir. Cues without a readable
// take are skipped; timeline exports only place media that exists.
func collectClips(cues []srt.Entry, wavDir string, fps int) ([]clip, error) {
	absDir, err := filepath.Abs(wavDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve clip directory: %w", err)
	}

	var clips []clip
	for _, cue := range cues {
		name := timecode.ToFilename(cue.StartMS, fps) + ".wav"
		info, err := audio.ReadInfo(filepath.Join(wavDir, name))
		if err != nil {
			continue
		}
		clips = append(clips, clip{
			filename:   name,
			path:       filepath.Join(absDir, name),
			startMS:    cue.StartMS,
			durationMS: info.DurationMS,
			sampleRate: info.SampleRate,
		})
	}

	if len(clips) == 0 {
		return nil, ErrNoClips
	}
	return clips, nil
}
