package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adflow-io/adflow/internal/export"
	"github.com/adflow-io/adflow/internal/srt"
	"github.com/spf13/cobra"
)

// exportCmd represents the export command.
var exportCmd = &cobra.Command{
	Use:   "export <srt-file>",
	Short: "Export an editorial timeline from subtitles and TTS takes",
	Long: `Export the subtitle cues and their rendered WAV takes as an editorial
timeline for an NLE.

FCPXML places every take as an audio clip on one timeline at its cue
start; EDL emits one AX event per take with frame-accurate record times.
Takes are matched by filename, the same 00_00_10_00.wav convention the
sync command uses; cues without a take are skipped.

Examples:
  adflow export episode01.srt --format fcpxml --wav-dir takes/
  adflow export episode01.srt --format edl --wav-dir takes/ -o ep01.edl
  adflow export episode01.srt --format fcpxml --wav-dir takes/ --fps 30`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("format", "f", "fcpxml", "timeline format (fcpxml, edl)")
	exportCmd.Flags().String("wav-dir", "", "directory holding the rendered WAV takes (required)")
	exportCmd.Flags().StringP("output", "o", "", "output file (default: <srt-name>.<format extension>)")
	exportCmd.Flags().Int("fps", 0, "timeline frame rate (default: srt.fps from config)")

	_ = exportCmd.MarkFlagRequired("wav-dir")
}

func runExport(cmd *cobra.Command, args []string) error {
	srtPath := args[0]
	centralCfg := GetConfig()

	format, _ := cmd.Flags().GetString("format")
	wavDir, _ := cmd.Flags().GetString("wav-dir")
	output, _ := cmd.Flags().GetString("output")
	fps, _ := cmd.Flags().GetInt("fps")
	if fps <= 0 {
		fps = centralCfg.SRT.FPS
	}

	if format != "fcpxml" && format != "edl" {
		return fmt.Errorf("invalid timeline format: %s (must be one of: fcpxml, edl)", format)
	}
	if output == "" {
		base := strings.TrimSuffix(srtPath, filepath.Ext(srtPath))
		output = base + "." + format
	}

	cues, err := srt.Parse(srtPath)
	if err != nil {
		return err
	}

	switch format {
	case "edl":
		err = export.WriteEDL(cues, wavDir, output, fps)
	default:
		err = export.WriteFCPXML(cues, wavDir, output, fps)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d cues)\n", output, len(cues))
	return nil
}
