package cmd

import (
	"fmt"

	"github.com/adflow-io/adflow/internal/overlap"
	"github.com/spf13/cobra"
)

// checkCmd represents the check command.
var checkCmd = &cobra.Command{
	Use:   "check <srt-file> <wav-directory>",
	Short: "Check TTS takes against their subtitle slots",
	Long: `Check every rendered TTS take against the time available for its cue.

The slot for a cue runs from its start to the start of the next cue; the
final cue's slot is unbounded. A take longer than its slot will overlap
the following narration during playback; the report lists each overrun
with the excess in seconds.

The command exits with an error when any take overruns its slot, so it
can gate a delivery pipeline.

Examples:
  adflow check episode01.srt takes/
  adflow check episode01.srt takes/ -o ep01_check.txt`,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE:         runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringP("output", "o", "", "report file (default: stdout)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	srtPath, wavDir := args[0], args[1]
	centralCfg := GetConfig()

	checker := overlap.NewChecker(centralCfg.SRT.FPS)
	results, err := checker.CheckFile(srtPath, wavDir)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if output != "" {
		if err := overlap.SaveReport(output, results); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), overlap.Report(results))
	}

	if issues := overlap.Issues(results); len(issues) > 0 {
		return fmt.Errorf("%d of %d cues overrun their slots", len(issues), len(results))
	}
	return nil
}
