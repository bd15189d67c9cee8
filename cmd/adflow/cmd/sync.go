package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adflow-io/adflow/internal/wavsync"
	"github.com/spf13/cobra"
)

// syncCmd represents the sync command.
var syncCmd = &cobra.Command{
	Use:   "sync <srt-file> <wav-directory>",
	Short: "Retime subtitle cues against rendered TTS clips",
	Long: `Compare each subtitle cue against the recorded WAV clip for its start
timecode and retime the cue ends to the real clip lengths.

Clips are matched by filename: a cue starting at 00:00:10,000 expects
<wav-directory>/00_00_10_00.wav. A retimed copy of the subtitle file is
written next to the input as <name>_synced.srt, and a report lists every
cue as OK, shorter, longer, or missing.

Examples:
  adflow sync episode01.srt takes/
  adflow sync episode01.srt takes/ --tolerance 250
  adflow sync episode01.srt takes/ --format xlsx -o ep01_sync.xlsx`,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE:         runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().Int64("tolerance", 100, "clip/slot difference in ms still counted as synced")
	syncCmd.Flags().StringP("format", "f", "text", "report format (text, xlsx)")
	syncCmd.Flags().StringP("output", "o", "", "report file (default: stdout for text)")
}

func runSync(cmd *cobra.Command, args []string) error {
	srtPath, wavDir := args[0], args[1]
	centralCfg := GetConfig()

	tolerance := centralCfg.Sync.ToleranceMS
	if cmd.Flags().Changed("tolerance") {
		tolerance, _ = cmd.Flags().GetInt64("tolerance")
	}
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	if format != "text" && format != "xlsx" {
		return fmt.Errorf("invalid report format: %s (must be one of: text, xlsx)", format)
	}

	analyzer := wavsync.NewAnalyzerWithTolerance(centralCfg.SRT.FPS, tolerance)
	entries, err := analyzer.Analyze(srtPath, wavDir)
	if err != nil {
		return err
	}

	syncedPath := syncSiblingPath(srtPath, "_synced.srt")
	if err := wavsync.SaveSyncedSRT(syncedPath, entries); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", syncedPath)

	switch {
	case format == "xlsx":
		if output == "" {
			output = syncSiblingPath(srtPath, "_sync.xlsx")
		}
		if err := analyzer.SaveReportXLSX(output, entries); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
	case output != "":
		if err := analyzer.SaveReport(output, entries); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
	default:
		fmt.Fprintln(cmd.OutOrStdout(), analyzer.Report(entries))
	}

	s := wavsync.Summarize(entries)
	fmt.Fprintf(cmd.OutOrStdout(), "Checked %d cues: %d synced, %d shorter, %d longer, %d missing\n",
		s.Total, s.Synced, s.Shorter, s.Longer, s.Missing)

	if extra, err := analyzer.Unmatched(entries, wavDir); err == nil && len(extra) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Clips with no matching cue:")
		for _, clip := range extra {
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", filepath.Base(clip.Path))
		}
	}
	return nil
}

// syncSiblingPath places a derived file next to the source SRT.
func syncSiblingPath(srtPath, suffix string) string {
	base := strings.TrimSuffix(srtPath, filepath.Ext(srtPath))
	return base + suffix
}
