package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/adflow-io/adflow/internal/config"
	"github.com/adflow-io/adflow/internal/tts"
	"github.com/spf13/cobra"
)

// voicesCmd represents the voices command.
var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List available TTS voices",
	Long: `List the voices of every registered TTS engine plus any cloned
voices from the per-user profile store (~/.adflow/custom_voices.json).

The voice selected in the configuration is marked with an asterisk.
Engines without working credentials still list their voices; the header
notes why the engine is not ready.

Examples:
  adflow voices
  adflow voices --engine clova
  adflow voices --format json`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runVoices,
}

func init() {
	rootCmd.AddCommand(voicesCmd)

	voicesCmd.Flags().String("engine", "", "only list voices of this engine")
	voicesCmd.Flags().StringP("format", "f", "text", "output format (text, json)")
}

// buildVoiceRegistry assembles the voice registry from configuration: the
// CLOVA engine plus cloned profiles from the per-user store. An unreadable
// store is logged and skipped so listings still work.
func buildVoiceRegistry(centralCfg *config.Config) *tts.Registry {
	var store *tts.ProfileStore
	if path, err := tts.DefaultProfilePath(); err == nil {
		s, err := tts.OpenProfileStore(path)
		if err != nil {
			slog.Warn("Ignoring unreadable voice profile store", "path", path, "error", err)
		} else {
			store = s
		}
	}

	registry := tts.NewRegistry(store)
	registry.Register(tts.NewClovaEngine(centralCfg.TTS.Clova.ClientID, centralCfg.TTS.Clova.ClientSecret))
	registry.SetSettings(centralCfg.TTSSettings())
	if err := registry.SetDefaultEngine(centralCfg.TTS.DefaultEngine); err != nil {
		slog.Warn("Configured default TTS engine is not registered", "engine", centralCfg.TTS.DefaultEngine)
	}
	return registry
}

func runVoices(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	engineID, _ := cmd.Flags().GetString("engine")

	if format != "text" && format != "json" {
		return fmt.Errorf("invalid output format: %s (must be one of: text, json)", format)
	}

	registry := buildVoiceRegistry(GetConfig())

	profiles := registry.Profiles()
	if engineID != "" {
		if _, ok := registry.Get(engineID); !ok {
			return fmt.Errorf("unknown engine: %s", engineID)
		}
		profiles = registry.ProfilesByEngine(engineID)
	}

	if format == "json" {
		data, err := json.MarshalIndent(profiles, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format voices: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	out := cmd.OutOrStdout()
	selected, _ := registry.CurrentProfile()

	fmt.Fprintf(out, "Voices (%d):\n", len(profiles))
	for _, engine := range registry.Engines() {
		if engineID != "" && engine.ID() != engineID {
			continue
		}
		fmt.Fprintf(out, "\n%s [%s]", engine.Name(), engine.ID())
		if ok, reason := engine.Available(); !ok {
			fmt.Fprintf(out, " (not ready: %s)", reason)
		}
		fmt.Fprintln(out)

		for _, p := range registry.ProfilesByEngine(engine.ID()) {
			if p.IsCloned {
				continue
			}
			printVoiceLine(out, p, p.ID == selected.ID)
		}
	}

	cloned := clonedProfiles(profiles)
	if len(cloned) > 0 {
		fmt.Fprintln(out, "\nCloned voices:")
		for _, p := range cloned {
			printVoiceLine(out, p, p.ID == selected.ID)
		}
	}
	return nil
}

func printVoiceLine(out io.Writer, p tts.Profile, selected bool) {
	marker := " "
	if selected {
		marker = "*"
	}
	line := fmt.Sprintf("%s %-16s %s", marker, p.ID, p.DisplayName())
	if info := p.ShortInfo(); info != "" {
		line += "  " + info
	}
	fmt.Fprintln(out, line)
}

func clonedProfiles(profiles []tts.Profile) []tts.Profile {
	var cloned []tts.Profile
	for _, p := range profiles {
		if p.IsCloned {
			cloned = append(cloned, p)
		}
	}
	return cloned
}
