package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the base name for configuration files (without extension).
	ConfigFileName = ".adflow"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "ADFLOW"
)

// Loader handles loading configuration from various sources.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	// Use the global viper instance to ensure flag bindings work
	return &Loader{v: viper.GetViper()}
}

// Load loads configuration from files, environment variables, and sets
// defaults. The result is validated.
func (l *Loader) Load() (*Config, error) {
	cfg, err := l.load("")
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadWithoutValidation is Load without the validation step.
func (l *Loader) LoadWithoutValidation() (*Config, error) {
	return l.load("")
}

// LoadWithFile loads configuration from a specific file path.
func (l *Loader) LoadWithFile(configFile string) (*Config, error) {
	if configFile == "" {
		return l.Load()
	}
	cfg, err := l.load(configFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadWithFileWithoutValidation is LoadWithFile without the validation step.
func (l *Loader) LoadWithFileWithoutValidation(configFile string) (*Config, error) {
	if configFile == "" {
		return l.LoadWithoutValidation()
	}
	return l.load(configFile)
}

// load reads configuration into a Config. With an empty configFile the
// standard search paths apply and a missing file is fine; with an
// explicit file, the file must exist.
func (l *Loader) load(configFile string) (*Config, error) {
	if configFile == "" {
		l.v.SetConfigName(ConfigFileName)
		l.v.SetConfigType("yaml")
		l.addConfigPaths()
	} else {
		if _, err := os.Stat(configFile); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", configFile)
		}
		l.v.SetConfigFile(configFile)
	}

	l.setupEnvironmentVariables()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file found is OK, continue with defaults and env vars
	}

	var config Config
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// Get returns a value from the configuration.
func (l *Loader) Get(key string) interface{} {
	return l.v.Get(key)
}

// GetString returns a string value from the configuration.
func (l *Loader) GetString(key string) string {
	return l.v.GetString(key)
}

// Set sets a value in the configuration.
func (l *Loader) Set(key string, value interface{}) {
	l.v.Set(key, value)
}

// GetConfigFileUsed returns the path of the config file used.
func (l *Loader) GetConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// GetViper returns the underlying viper instance for advanced usage.
func (l *Loader) GetViper() *viper.Viper {
	return l.v
}

// GetResolvedConfig returns the current resolved configuration for debugging.
func (l *Loader) GetResolvedConfig() map[string]interface{} {
	return l.v.AllSettings()
}

// addConfigPaths adds the standard configuration search paths.
func (l *Loader) addConfigPaths() {
	// Current directory
	l.v.AddConfigPath(".")

	// User's home directory, plus the adflow config dir
	if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(home)
		l.v.AddConfigPath(filepath.Join(home, ".adflow"))
	}

	// XDG config directory
	if configDir, exists := os.LookupEnv("XDG_CONFIG_HOME"); exists {
		l.v.AddConfigPath(filepath.Join(configDir, "adflow"))
	} else if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(filepath.Join(home, ".config", "adflow"))
	}
}

// setupEnvironmentVariables configures environment variable handling.
func (l *Loader) setupEnvironmentVariables() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.AutomaticEnv()

	// Replace dots and dashes with underscores in env var names
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

// setDefaults sets default values for all configuration options.
func (l *Loader) setDefaults() {
	defaults := DefaultConfig()

	// Global settings
	l.v.SetDefault("verbose", defaults.Verbose)
	l.v.SetDefault("log_level", defaults.LogLevel)

	// Parser defaults
	l.v.SetDefault("parser.remove_slashes", defaults.Parser.RemoveSlashes)
	l.v.SetDefault("parser.remove_periods", defaults.Parser.RemovePeriods)
	l.v.SetDefault("parser.include_brackets", defaults.Parser.IncludeBrackets)

	// SRT defaults
	l.v.SetDefault("srt.fps", defaults.SRT.FPS)
	l.v.SetDefault("srt.default_duration_ms", defaults.SRT.DefaultDurationMS)
	l.v.SetDefault("srt.max_chars_per_line", defaults.SRT.MaxCharsPerLine)
	l.v.SetDefault("srt.remove_brackets", defaults.SRT.RemoveBrackets)

	// Sync defaults
	l.v.SetDefault("sync.tolerance_ms", defaults.Sync.ToleranceMS)

	// TTS defaults
	l.v.SetDefault("tts.default_engine", defaults.TTS.DefaultEngine)
	l.v.SetDefault("tts.voice", defaults.TTS.Voice)
	l.v.SetDefault("tts.speed", defaults.TTS.Speed)
	l.v.SetDefault("tts.pitch", defaults.TTS.Pitch)
	l.v.SetDefault("tts.volume", defaults.TTS.Volume)
	l.v.SetDefault("tts.emotion", defaults.TTS.Emotion)
	l.v.SetDefault("tts.emotion_strength", defaults.TTS.EmotionStrength)
	l.v.SetDefault("tts.clova.client_id", defaults.TTS.Clova.ClientID)
	l.v.SetDefault("tts.clova.client_secret", defaults.TTS.Clova.ClientSecret)

	// Output defaults
	l.v.SetDefault("output.format", defaults.Output.Format)
	l.v.SetDefault("output.overwrite", defaults.Output.Overwrite)

	// Server defaults
	l.v.SetDefault("server.host", defaults.Server.Host)
	l.v.SetDefault("server.port", defaults.Server.Port)
	l.v.SetDefault("server.cors_origin", defaults.Server.CORSOrigin)
	l.v.SetDefault("server.max_upload_mb", defaults.Server.MaxUploadMB)
	l.v.SetDefault("server.timeout_sec", defaults.Server.TimeoutSec)
	l.v.SetDefault("server.shutdown_timeout_sec", defaults.Server.ShutdownTimeoutSec)
}

// configFileHeader introduces the generated configuration file.
const configFileHeader = `# adflow configuration
# Search order: ., $HOME, $HOME/.adflow, $XDG_CONFIG_HOME/adflow
# Every key can be overridden with an ADFLOW_ environment variable,
# e.g. ADFLOW_SRT_FPS=30 or ADFLOW_TTS_CLOVA_CLIENT_ID=...
`

// GenerateDefaultConfigFile writes the default configuration as an
// annotated YAML file. An empty filename writes .adflow.yaml in the
// current directory.
func GenerateDefaultConfigFile(filename string) error {
	if filename == "" {
		filename = ConfigFileName + ".yaml"
	}

	defaults := DefaultConfig()
	data, err := yaml.Marshal(&defaults)
	if err != nil {
		return fmt.Errorf("error marshaling default config: %w", err)
	}

	content := append([]byte(configFileHeader+"\n"), data...)
	if err := os.WriteFile(filename, content, 0o644); err != nil {
		return fmt.Errorf("error writing config file %s: %w", filename, err)
	}
	return nil
}

// GetConfigSearchPaths returns the paths where configuration files are searched.
func GetConfigSearchPaths() []string {
	paths := []string{"."}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, home)
		paths = append(paths, filepath.Join(home, ".adflow"))
		paths = append(paths, filepath.Join(home, ".config", "adflow"))
	}

	if configDir, exists := os.LookupEnv("XDG_CONFIG_HOME"); exists {
		paths = append(paths, filepath.Join(configDir, "adflow"))
	}

	return paths
}

// PrintConfigInfo prints information about configuration loading for debugging.
func (l *Loader) PrintConfigInfo() {
	fmt.Printf("Configuration file used: %s\n", l.GetConfigFileUsed())
	fmt.Printf("Configuration search paths: %v\n", GetConfigSearchPaths())
	fmt.Printf("Environment prefix: %s\n", EnvPrefix)
}
