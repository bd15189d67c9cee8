// Package audio reads WAV clip metadata. The sync and overlap checks only
// need clip lengths and the timecode encoded in each clip's filename; sample
// data is never decoded.
package audio

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-audio/wav"

	"github.com/adflow-io/adflow/internal/timecode"
)

// Info describes one WAV file's format and length.
type Info struct {
	DurationMS int64 `json:"duration_ms"`
	SampleRate int   `json:"sample_rate"`
	Channels   int   `json:"channels"`
	BitDepth   int   `json:"bit_depth"`
}

// ReadInfo reads the format header of a WAV file without decoding samples.
func ReadInfo(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("failed to open WAV file: %w", err)
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	d.ReadInfo()
	if err := d.Err(); err != nil {
		return Info{}, fmt.Errorf("failed to read WAV header %q: %w", path, err)
	}

	dur, err := d.Duration()
	if err != nil {
		return Info{}, fmt.Errorf("failed to read WAV duration %q: %w", path, err)
	}

	return Info{
		DurationMS: dur.Milliseconds(),
		SampleRate: int(d.SampleRate),
		Channels:   int(d.NumChans),
		BitDepth:   int(d.BitDepth),
	}, nil
}

// Duration returns the clip length in milliseconds, or 0 when the file is
// missing or unreadable. The sync pipeline treats an unreadable clip exactly
// like an absent one.
func Duration(path string) int64 {
	info, err := ReadInfo(path)
	if err != nil {
		return 0
	}
	return info.DurationMS
}

// IsValid reports whether path is a readable WAV file carrying audio data.
func IsValid(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return false
	}
	dur, err := d.Duration()
	return err == nil && dur > 0
}

// Clip is one TTS take on disk, named by the timecode it starts at.
type Clip struct {
	Path    string `json:"path"`
	StartMS int64  `json:"start_ms"`
}

// ScanDir lists the HH_MM_SS_FF.wav clips directly under dir, ordered by
// start time. Files with other extensions or unparseable names are ignored;
// a take directory routinely holds scratch files next to the real clips.
func ScanDir(dir string, fps int) ([]Clip, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read clip directory: %w", err)
	}

	var clips []Clip
	for _, de := range dirEntries {
		if de.IsDir() || !strings.EqualFold(filepath.Ext(de.Name()), ".wav") {
			continue
		}
		ms, err := timecode.ParseFilename(de.Name(), fps)
		if err != nil {
			slog.Debug("skipping clip with unparseable name", "file", de.Name())
			continue
		}
		clips = append(clips, Clip{Path: filepath.Join(dir, de.Name()), StartMS: ms})
	}

	sort.Slice(clips, func(i, j int) bool { return clips[i].StartMS < clips[j].StartMS })
	return clips, nil
}

// ClipPath returns where the clip for a cue starting at ms lives under dir.
func ClipPath(dir string, ms int64, fps int) string {
	return filepath.Join(dir, timecode.ToFilename(ms, fps)+".wav")
}
