package config

import (
	"fmt"
	"strings"

	"github.com/adflow-io/adflow/internal/script"
	"github.com/adflow-io/adflow/internal/srt"
	"github.com/adflow-io/adflow/internal/timecode"
	"github.com/adflow-io/adflow/internal/tts"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Verbose:  false,
		LogLevel: "info",
		Parser:   ParserConfig{},
		SRT: SRTConfig{
			FPS:               timecode.DefaultFPS,
			DefaultDurationMS: 5000,
			MaxCharsPerLine:   0,
			RemoveBrackets:    false,
		},
		Sync: SyncConfig{
			ToleranceMS: 100,
		},
		TTS: TTSConfig{
			DefaultEngine:   tts.DefaultEngineID,
			Voice:           "clova.vdain",
			Speed:           0,
			Pitch:           0,
			Volume:          0,
			Emotion:         0,
			EmotionStrength: 1,
		},
		Output: OutputConfig{
			Format:    "srt",
			Overwrite: false,
		},
		Server: ServerConfig{
			Host:               "localhost",
			Port:               8080,
			CORSOrigin:         "*",
			MaxUploadMB:        50,
			TimeoutSec:         30,
			ShutdownTimeoutSec: 10,
		},
	}
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	validFormats := []string{"srt", "xlsx", "json", "text"}
	if c.Output.Format != "" && !contains(validFormats, c.Output.Format) {
		return fmt.Errorf("invalid output format: %s (must be one of: %s)", c.Output.Format, strings.Join(validFormats, ", "))
	}

	if c.SRT.FPS <= 0 {
		return fmt.Errorf("invalid fps: %d (must be positive)", c.SRT.FPS)
	}
	if c.SRT.DefaultDurationMS <= 0 {
		return fmt.Errorf("invalid default duration: %d (must be positive)", c.SRT.DefaultDurationMS)
	}
	if c.SRT.MaxCharsPerLine < 0 {
		return fmt.Errorf("invalid max chars per line: %d (must not be negative)", c.SRT.MaxCharsPerLine)
	}

	if c.Sync.ToleranceMS < 0 {
		return fmt.Errorf("invalid sync tolerance: %d (must not be negative)", c.Sync.ToleranceMS)
	}

	if err := validateLevel(c.TTS.Speed, "tts.speed"); err != nil {
		return err
	}
	if err := validateLevel(c.TTS.Pitch, "tts.pitch"); err != nil {
		return err
	}
	if err := validateLevel(c.TTS.Volume, "tts.volume"); err != nil {
		return err
	}
	if c.TTS.Emotion < 0 || c.TTS.Emotion > 2 {
		return fmt.Errorf("invalid tts.emotion: %d (must be between 0 and 2)", c.TTS.Emotion)
	}
	if c.TTS.EmotionStrength < 0 || c.TTS.EmotionStrength > 2 {
		return fmt.Errorf("invalid tts.emotion_strength: %d (must be between 0 and 2)", c.TTS.EmotionStrength)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("invalid max upload size: %d (must be positive)", c.Server.MaxUploadMB)
	}
	if c.Server.TimeoutSec <= 0 {
		return fmt.Errorf("invalid timeout: %d (must be positive)", c.Server.TimeoutSec)
	}
	if c.Server.ShutdownTimeoutSec <= 0 {
		return fmt.Errorf("invalid shutdown timeout: %d (must be positive)", c.Server.ShutdownTimeoutSec)
	}

	return nil
}

// ParseOptions converts the parser section to script parse options.
func (c *Config) ParseOptions() script.Options {
	return script.Options{
		RemoveSlashes:   c.Parser.RemoveSlashes,
		RemovePeriods:   c.Parser.RemovePeriods,
		IncludeBrackets: c.Parser.IncludeBrackets,
	}
}

// GenerateOptions converts the srt section to generator options.
func (c *Config) GenerateOptions() srt.GenerateOptions {
	return srt.GenerateOptions{
		MaxCharsPerLine:   c.SRT.MaxCharsPerLine,
		BreakOnPeriod:     true,
		RemoveBrackets:    c.SRT.RemoveBrackets,
		DefaultDurationMS: c.SRT.DefaultDurationMS,
	}
}

// TTSSettings converts the tts section to registry settings.
func (c *Config) TTSSettings() tts.Settings {
	return tts.Settings{
		VoiceID:         c.TTS.Voice,
		Speed:           c.TTS.Speed,
		Pitch:           c.TTS.Pitch,
		Volume:          c.TTS.Volume,
		Emotion:         c.TTS.Emotion,
		EmotionStrength: c.TTS.EmotionStrength,
	}
}

// Helper functions

// contains checks if a slice contains a string.
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// validateLevel validates a CLOVA-style tuning value (-5 to +5).
func validateLevel(value int, name string) error {
	if value < -5 || value > 5 {
		return fmt.Errorf("invalid %s: %d (must be between -5 and 5)", name, value)
	}
	return nil
}
