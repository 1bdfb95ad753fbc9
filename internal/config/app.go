package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

// EnvPrefix is prepended to every environment override, e.g. CALENDARRUN_LOG_LEVEL
const EnvPrefix = "CALENDARRUN"

// Color modes for the text presenter
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Log formats
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// AppConfig is the process-level configuration of the CLI
type AppConfig struct {
	ThresholdsPath  string `yaml:"thresholds_path" envconfig:"THRESHOLDS_PATH"`   // empty = built-in defaults
	LogLevel        string `yaml:"log_level" envconfig:"LOG_LEVEL"`               // zerolog level name
	LogFormat       string `yaml:"log_format" envconfig:"LOG_FORMAT"`             // console|json
	ColorMode       string `yaml:"color_mode" envconfig:"COLOR_MODE"`             // auto|always|never
	MetricsTextfile string `yaml:"metrics_textfile" envconfig:"METRICS_TEXTFILE"` // empty = disabled
}

// DefaultAppConfig returns the configuration used when nothing is set
func DefaultAppConfig() AppConfig {
	return AppConfig{
		LogLevel:  "info",
		LogFormat: LogFormatConsole,
		ColorMode: ColorAuto,
	}
}

// LoadAppConfig layers, lowest first: defaults, the optional YAML file at
// path, variables from .env files, then CALENDARRUN_* environment variables.
// Missing .env files are not an error.
func LoadAppConfig(path string, envFiles ...string) (AppConfig, error) {
	cfg := DefaultAppConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read app config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse app config YAML: %w", err)
		}
	}

	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	cfg.ColorMode = strings.ToLower(strings.TrimSpace(cfg.ColorMode))

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the enumerated fields
func (c AppConfig) Validate() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	switch c.LogFormat {
	case LogFormatConsole, LogFormatJSON:
	default:
		return fmt.Errorf("invalid log_format %q (want console or json)", c.LogFormat)
	}
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color_mode %q (want auto, always or never)", c.ColorMode)
	}
	return nil
}

// Level returns the parsed log level, Info when unset
func (c AppConfig) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
