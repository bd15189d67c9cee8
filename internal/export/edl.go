package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/adflow-io/adflow/internal/srt"
	"github.com/adflow-io/adflow/internal/timecode"
)

// WriteEDL writes a CMX 3600 edit decision list placing every cue's take at
// its cue start. Each event cuts the whole take (source in at zero) onto the
// record timeline, with the source file noted in comments the way Resolve
// and Premiere expect.
func WriteEDL(cues []srt.Entry, wavDir, outputPath string, fps int) error {
	if fps <= 0 {
		fps = timecode.DefaultFPS
	}

	clips, err := collectClips(cues, wavDir, fps)
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("TITLE: AD_TTS_IMPORT\n")
	b.WriteString("FCM: NON-DROP FRAME\n\n")

	for i, c := range clips {
		editNum := i + 1
		tcIn := timecode.ToTimecode(c.startMS, fps)
		tcOut := timecode.ToTimecode(c.startMS+c.durationMS, fps)
		srcOut := timecode.ToTimecode(c.durationMS, fps)

		// Reel names stay within the classic eight-character limit.
		fmt.Fprintf(&b, "%03d  AD%04d  AA     C        ", editNum, editNum)
		fmt.Fprintf(&b, "00:00:00:00 %s %s %s\n", srcOut, tcIn, tcOut)
		fmt.Fprintf(&b, "* FROM CLIP NAME: %s\n", c.filename)
		fmt.Fprintf(&b, "* SOURCE FILE: %s\n", c.path)
		b.WriteString("* AUDIO LEVEL AT 00:00:00:00 IS 0.00 DB\n")
		b.WriteString("\n")
	}

	if err := os.WriteFile(outputPath, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write EDL: %w", err)
	}
	return nil
}
