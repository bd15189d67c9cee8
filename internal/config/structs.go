package config

// Config represents the complete configuration for the adflow application.
// It includes settings for all commands (convert, sync, check, export,
// voices, serve) and supports loading from configuration files, environment
// variables, and command-line flags.
type Config struct {
	// Global settings
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`

	// Script parsing configuration
	Parser ParserConfig `mapstructure:"parser" yaml:"parser" json:"parser"`

	// SRT generation configuration
	SRT SRTConfig `mapstructure:"srt" yaml:"srt" json:"srt"`

	// WAV sync configuration
	Sync SyncConfig `mapstructure:"sync" yaml:"sync" json:"sync"`

	// TTS engine configuration
	TTS TTSConfig `mapstructure:"tts" yaml:"tts" json:"tts"`

	// Output configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Server configuration (for serve command)
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`
}

// ParserConfig contains script text extraction settings.
type ParserConfig struct {
	RemoveSlashes   bool `mapstructure:"remove_slashes" yaml:"remove_slashes" json:"remove_slashes"`
	RemovePeriods   bool `mapstructure:"remove_periods" yaml:"remove_periods" json:"remove_periods"`
	IncludeBrackets bool `mapstructure:"include_brackets" yaml:"include_brackets" json:"include_brackets"`
}

// SRTConfig contains subtitle generation settings.
type SRTConfig struct {
	FPS               int   `mapstructure:"fps" yaml:"fps" json:"fps"`
	DefaultDurationMS int64 `mapstructure:"default_duration_ms" yaml:"default_duration_ms" json:"default_duration_ms"`
	MaxCharsPerLine   int   `mapstructure:"max_chars_per_line" yaml:"max_chars_per_line" json:"max_chars_per_line"`
	RemoveBrackets    bool  `mapstructure:"remove_brackets" yaml:"remove_brackets" json:"remove_brackets"`
}

// SyncConfig contains WAV synchronization settings.
type SyncConfig struct {
	ToleranceMS int64 `mapstructure:"tolerance_ms" yaml:"tolerance_ms" json:"tolerance_ms"`
}

// TTSConfig contains text-to-speech settings.
type TTSConfig struct {
	DefaultEngine   string      `mapstructure:"default_engine" yaml:"default_engine" json:"default_engine"`
	Voice           string      `mapstructure:"voice" yaml:"voice" json:"voice"`
	Speed           int         `mapstructure:"speed" yaml:"speed" json:"speed"`
	Pitch           int         `mapstructure:"pitch" yaml:"pitch" json:"pitch"`
	Volume          int         `mapstructure:"volume" yaml:"volume" json:"volume"`
	Emotion         int         `mapstructure:"emotion" yaml:"emotion" json:"emotion"`
	EmotionStrength int         `mapstructure:"emotion_strength" yaml:"emotion_strength" json:"emotion_strength"`
	Clova           ClovaConfig `mapstructure:"clova" yaml:"clova" json:"clova"`
}

// ClovaConfig contains NAVER CLOVA API credentials.
type ClovaConfig struct {
	ClientID     string `mapstructure:"client_id" yaml:"client_id" json:"client_id"`
	ClientSecret string `mapstructure:"client_secret" yaml:"client_secret" json:"client_secret"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	Format    string `mapstructure:"format" yaml:"format" json:"format"`
	Overwrite bool   `mapstructure:"overwrite" yaml:"overwrite" json:"overwrite"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host               string `mapstructure:"host" yaml:"host" json:"host"`
	Port               int    `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigin         string `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
	MaxUploadMB        int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb"`
	TimeoutSec         int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeoutSec int    `mapstructure:"shutdown_timeout_sec" yaml:"shutdown_timeout_sec" json:"shutdown_timeout_sec"`
}
