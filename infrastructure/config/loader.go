package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable that overrides the config file
const EnvPrefix = "SEPARATE_SONGS"

// DefaultPath is where the config file is looked up when --config is not given
const DefaultPath = "config/config.yaml"

// Config represents the complete application configuration.
// Environment variables are named SEPARATE_SONGS_<SECTION>_<KEY>, e.g. SEPARATE_SONGS_SOX_PATH.
// The song range table is not configurable.
type Config struct {
	Sox    SoxConfig    `yaml:"sox"`
	Log    LogConfig    `yaml:"log"`
	Google GoogleConfig `yaml:"google"`
}

// SoxConfig contains settings for the external trimming tool
type SoxConfig struct {
	Path string `yaml:"path"`
}

// LogConfig contains diagnostic logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// Google Drive authentication modes
const (
	AuthOAuth          = "oauth"           // installed-app sign-in with a cached token
	AuthServiceAccount = "service_account" // JSON key of a service account
)

// GoogleConfig contains Google API settings for publishing clips
type GoogleConfig struct {
	Auth            string `yaml:"auth"`
	CredentialsFile string `yaml:"credentials_file" split_words:"true"`
	TokenFile       string `yaml:"token_file" split_words:"true"`
	ClipsFolderID   string `yaml:"clips_folder_id" split_words:"true"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Sox: SoxConfig{
			Path: "sox",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Google: GoogleConfig{
			Auth:            AuthOAuth,
			CredentialsFile: "credentials.json",
			TokenFile:       "token.json",
		},
	}
}

// Load reads the YAML file over the defaults, then applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// PublishingEnabled returns true if a Drive folder is configured
func (c *Config) PublishingEnabled() bool {
	return c.Google.ClipsFolderID != ""
}

// NewLogger creates a structured logger writing to w.
// When Log.Format is "json" it emits JSON records, otherwise text.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLogLevel(c.Log.Level)}

	var handler slog.Handler
	if strings.ToLower(c.Log.Format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// ParseLogLevel converts a level name to slog.Level, defaulting to info
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
