package config

import (
	"testing"
)

const (
	infoLevel  = "info"
	debugLevel = "debug"
)

// TestDefaultConfig verifies that DefaultConfig returns expected values.
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Global settings
	if cfg.LogLevel != infoLevel {
		t.Errorf("Expected log_level '%s', got %s", infoLevel, cfg.LogLevel)
	}
	if cfg.Verbose {
		t.Error("Expected verbose to be false")
	}

	// Parser defaults
	if cfg.Parser.RemoveSlashes || cfg.Parser.RemovePeriods || cfg.Parser.IncludeBrackets {
		t.Error("Expected all parser toggles to be off by default")
	}

	// SRT defaults
	if cfg.SRT.FPS != 24 {
		t.Errorf("Expected fps 24, got %d", cfg.SRT.FPS)
	}
	if cfg.SRT.DefaultDurationMS != 5000 {
		t.Errorf("Expected default_duration_ms 5000, got %d", cfg.SRT.DefaultDurationMS)
	}
	if cfg.SRT.MaxCharsPerLine != 0 {
		t.Errorf("Expected max_chars_per_line 0, got %d", cfg.SRT.MaxCharsPerLine)
	}

	// Sync defaults
	if cfg.Sync.ToleranceMS != 100 {
		t.Errorf("Expected tolerance_ms 100, got %d", cfg.Sync.ToleranceMS)
	}

	// TTS defaults
	if cfg.TTS.DefaultEngine != "clova" {
		t.Errorf("Expected default engine 'clova', got %s", cfg.TTS.DefaultEngine)
	}
	if cfg.TTS.Voice != "clova.vdain" {
		t.Errorf("Expected voice 'clova.vdain', got %s", cfg.TTS.Voice)
	}
	if cfg.TTS.EmotionStrength != 1 {
		t.Errorf("Expected emotion_strength 1, got %d", cfg.TTS.EmotionStrength)
	}
	if cfg.TTS.Clova.ClientID != "" || cfg.TTS.Clova.ClientSecret != "" {
		t.Error("Expected empty CLOVA credentials by default")
	}

	// Output defaults
	if cfg.Output.Format != "srt" {
		t.Errorf("Expected output format 'srt', got %s", cfg.Output.Format)
	}

	// Server defaults
	if cfg.Server.Host != "localhost" {
		t.Errorf("Expected server host 'localhost', got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Expected server port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.CORSOrigin != "*" {
		t.Errorf("Expected cors_origin '*', got %s", cfg.Server.CORSOrigin)
	}
	if cfg.Server.ShutdownTimeoutSec != 10 {
		t.Errorf("Expected shutdown_timeout_sec 10, got %d", cfg.Server.ShutdownTimeoutSec)
	}
}

// TestDefaultConfigValidates verifies the defaults pass validation.
func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() unexpected error: %v", err)
	}
}

// TestValidate verifies each validation rule rejects bad values.
func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"invalid log level", func(c *Config) { c.LogLevel = "trace" }},
		{"invalid output format", func(c *Config) { c.Output.Format = "csv" }},
		{"zero fps", func(c *Config) { c.SRT.FPS = 0 }},
		{"negative fps", func(c *Config) { c.SRT.FPS = -24 }},
		{"zero default duration", func(c *Config) { c.SRT.DefaultDurationMS = 0 }},
		{"negative max chars", func(c *Config) { c.SRT.MaxCharsPerLine = -1 }},
		{"negative tolerance", func(c *Config) { c.Sync.ToleranceMS = -1 }},
		{"speed too low", func(c *Config) { c.TTS.Speed = -6 }},
		{"speed too high", func(c *Config) { c.TTS.Speed = 6 }},
		{"pitch out of range", func(c *Config) { c.TTS.Pitch = 10 }},
		{"volume out of range", func(c *Config) { c.TTS.Volume = -10 }},
		{"emotion too high", func(c *Config) { c.TTS.Emotion = 3 }},
		{"emotion negative", func(c *Config) { c.TTS.Emotion = -1 }},
		{"emotion strength too high", func(c *Config) { c.TTS.EmotionStrength = 3 }},
		{"port zero", func(c *Config) { c.Server.Port = 0 }},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }},
		{"zero upload limit", func(c *Config) { c.Server.MaxUploadMB = 0 }},
		{"zero timeout", func(c *Config) { c.Server.TimeoutSec = 0 }},
		{"zero shutdown timeout", func(c *Config) { c.Server.ShutdownTimeoutSec = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("Validate() expected error for %s, got nil", tt.name)
			}
		})
	}
}

// TestValidateAcceptsBoundaries verifies boundary values pass.
func TestValidateAcceptsBoundaries(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TTS.Speed = -5
	cfg.TTS.Pitch = 5
	cfg.TTS.Volume = 5
	cfg.TTS.Emotion = 2
	cfg.TTS.EmotionStrength = 0
	cfg.Sync.ToleranceMS = 0
	cfg.Server.Port = 65535

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() unexpected error for boundary values: %v", err)
	}
}

// TestParseOptions verifies conversion to script options.
func TestParseOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Parser.RemoveSlashes = true
	cfg.Parser.IncludeBrackets = true

	opts := cfg.ParseOptions()
	if !opts.RemoveSlashes {
		t.Error("Expected RemoveSlashes to carry over")
	}
	if opts.RemovePeriods {
		t.Error("Expected RemovePeriods to stay off")
	}
	if !opts.IncludeBrackets {
		t.Error("Expected IncludeBrackets to carry over")
	}
}

// TestGenerateOptions verifies conversion to srt generator options.
func TestGenerateOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SRT.MaxCharsPerLine = 40
	cfg.SRT.RemoveBrackets = true
	cfg.SRT.DefaultDurationMS = 4000

	opts := cfg.GenerateOptions()
	if opts.MaxCharsPerLine != 40 {
		t.Errorf("Expected MaxCharsPerLine 40, got %d", opts.MaxCharsPerLine)
	}
	if !opts.BreakOnPeriod {
		t.Error("Expected BreakOnPeriod to default on")
	}
	if !opts.RemoveBrackets {
		t.Error("Expected RemoveBrackets to carry over")
	}
	if opts.DefaultDurationMS != 4000 {
		t.Errorf("Expected DefaultDurationMS 4000, got %d", opts.DefaultDurationMS)
	}
}

// TestTTSSettings verifies conversion to registry settings.
func TestTTSSettings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TTS.Voice = "clova.nara"
	cfg.TTS.Speed = -2
	cfg.TTS.Emotion = 1

	s := cfg.TTSSettings()
	if s.VoiceID != "clova.nara" {
		t.Errorf("Expected voice 'clova.nara', got %s", s.VoiceID)
	}
	if s.Speed != -2 {
		t.Errorf("Expected speed -2, got %d", s.Speed)
	}
	if s.Emotion != 1 {
		t.Errorf("Expected emotion 1, got %d", s.Emotion)
	}
	if s.EmotionStrength != 1 {
		t.Errorf("Expected emotion strength 1, got %d", s.EmotionStrength)
	}
}

// TestValidateLevel verifies the CLOVA tuning range helper.
func TestValidateLevel(t *testing.T) {
	for _, v := range []int{-5, 0, 5} {
		if err := validateLevel(v, "test"); err != nil {
			t.Errorf("validateLevel(%d) unexpected error: %v", v, err)
		}
	}
	for _, v := range []int{-6, 6, 100} {
		if err := validateLevel(v, "test"); err == nil {
			t.Errorf("validateLevel(%d) expected error, got nil", v)
		}
	}
}
