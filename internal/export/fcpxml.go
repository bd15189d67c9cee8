package export

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adflow-io/adflow/internal/srt"
	"github.com/adflow-io/adflow/internal/timecode"
)

// fcpxmlVersion is the schema version DaVinci Resolve imports reliably.
const fcpxmlVersion = "1.9"

type fcpXML struct {
	XMLName   xml.Name     `xml:"fcpxml"`
	Version   string       `xml:"version,attr"`
	Resources fcpResources `xml:"resources"`
	Library   fcpLibrary   `xml:"library"`
}

type fcpResources struct {
	Format fcpFormat  `xml:"format"`
	Assets []fcpAsset `xml:"asset"`
}

type fcpFormat struct {
	ID            string `xml:"id,attr"`
	Name          string `xml:"name,attr"`
	FrameDuration string `xml:"frameDuration,attr"`
	Width         int    `xml:"width,attr"`
	Height        int    `xml:"height,attr"`
}

type fcpAsset struct {
	ID            string `xml:"id,attr"`
	Name          string `xml:"name,attr"`
	Src           string `xml:"src,attr"`
	Start         string `xml:"start,attr"`
	Duration      string `xml:"duration,attr"`
	HasAudio      int    `xml:"hasAudio,attr"`
	AudioSources  int    `xml:"audioSources,attr"`
	AudioChannels int    `xml:"audioChannels,attr"`
	AudioRate     int    `xml:"audioRate,attr"`
}

type fcpLibrary struct {
	Event fcpEvent `xml:"event"`
}

type fcpEvent struct {
	Name    string     `xml:"name,attr"`
	Project fcpProject `xml:"project"`
}

type fcpProject struct {
	Name     string      `xml:"name,attr"`
	Sequence fcpSequence `xml:"sequence"`
}

type fcpSequence struct {
	Format      string   `xml:"format,attr"`
	Duration    string   `xml:"duration,attr"`
	TCStart     string   `xml:"tcStart,attr"`
	TCFormat    string   `xml:"tcFormat,attr"`
	AudioLayout string   `xml:"audioLayout,attr"`
	AudioRate   string   `xml:"audioRate,attr"`
	Spine       fcpSpine `xml:"spine"`
}

type fcpSpine struct {
	Gap fcpGap `xml:"gap"`
}

type fcpGap struct {
	Name     string     `xml:"name,attr"`
	Offset   string     `xml:"offset,attr"`
	Duration string     `xml:"duration,attr"`
	Start    string     `xml:"start,attr"`
	Audio    []fcpAudio `xml:"audio"`
}

type fcpAudio struct {
	Name     string `xml:"name,attr"`
	Ref      string `xml:"ref,attr"`
	Lane     int    `xml:"lane,attr"`
	Offset   string `xml:"offset,attr"`
	Duration string `xml:"duration,attr"`
	Start    string `xml:"start,attr"`
	Role     string `xml:"role,attr"`
}

// WriteFCPXML builds a one-track audio timeline placing every cue's take at
// its cue start, and writes it to outputPath. Takes are referenced at their
// absolute paths so the XML imports from anywhere.
func WriteFCPXML(cues []srt.Entry, wavDir, outputPath string, fps int) error {
	if fps <= 0 {
		fps = timecode.DefaultFPS
	}

	clips, err := collectClips(cues, wavDir, fps)
	if err != nil {
		return err
	}

	var maxEndFrame int64
	for _, c := range clips {
		end := timecode.ToFrames(c.startMS, fps) + timecode.ToFrames(c.durationMS, fps)
		if end > maxEndFrame {
			maxEndFrame = end
		}
	}
	// Pad the timeline ten seconds past the last clip.
	timelineFrames := maxEndFrame + int64(fps)*10

	doc := fcpXML{
		Version: fcpxmlVersion,
		Resources: fcpResources{
			Format: fcpFormat{
				ID:            "r1",
				Name:          fmt.Sprintf("FFVideoFormat1080p%d", fps),
				FrameDuration: fmt.Sprintf("1/%ds", fps),
				Width:         1920,
				Height:        1080,
			},
		},
		Library: fcpLibrary{
			Event: fcpEvent{
				Name: "AD_TTS_Import",
				Project: fcpProject{
					Name: "AD_Timeline",
					Sequence: fcpSequence{
						Format:      "r1",
						Duration:    fmt.Sprintf("%d/%ds", timelineFrames, fps),
						TCStart:     fmt.Sprintf("0/%ds", fps),
						TCFormat:    "NDF",
						AudioLayout: "stereo",
						AudioRate:   "48k",
						Spine: fcpSpine{
							Gap: fcpGap{
								Name:     "Gap",
								Offset:   fmt.Sprintf("0/%ds", fps),
								Duration: fmt.Sprintf("%d/%ds", timelineFrames, fps),
								Start:    fmt.Sprintf("0/%ds", fps),
							},
						},
					},
				},
			},
		},
	}

	for i, c := range clips {
		samples := c.durationMS * int64(c.sampleRate) / 1000
		sampleDur := fmt.Sprintf("%d/%ds", samples, c.sampleRate)
		ref := fmt.Sprintf("r%d", i+2)

		doc.Resources.Assets = append(doc.Resources.Assets, fcpAsset{
			ID:            ref,
			Name:          c.filename,
			Src:           "file://" + c.path,
			Start:         "0s",
			Duration:      sampleDur,
			HasAudio:      1,
			AudioSources:  1,
			AudioChannels: 1,
			AudioRate:     c.sampleRate,
		})
		doc.Library.Event.Project.Sequence.Spine.Gap.Audio = append(
			doc.Library.Event.Project.Sequence.Spine.Gap.Audio,
			fcpAudio{
				Name:     c.filename,
				Ref:      ref,
				Lane:     1,
				Offset:   fmt.Sprintf("%d/%ds", timecode.ToFrames(c.startMS, fps), fps),
				Duration: sampleDur,
				Start:    "0s",
				Role:     "dialogue",
			})
	}

	body, err := xml.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal FCPXML: %w", err)
	}

	content := xml.Header + "<!DOCTYPE fcpxml>\n" + string(body) + "\n"
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(outputPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write FCPXML: %w", err)
	}
	return nil
}
