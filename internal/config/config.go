package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Backend names accepted in store.backend
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// StoreEnv overrides store.path when set
const StoreEnv = "MEMO_STORE"

// Config represents the application configuration
type Config struct {
	Store     StoreConfig     `yaml:"store"`
	Log       LogConfig       `yaml:"log"`
	Clipboard ClipboardConfig `yaml:"clipboard"`
	TTL       TTLConfig       `yaml:"ttl"`
}

// StoreConfig selects where and how the memo document is persisted
type StoreConfig struct {
	Backend string `yaml:"backend"` // json (default) or sqlite
	Path    string `yaml:"path"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level   string `yaml:"level"`
	UseJSON bool   `yaml:"json"`
	Colors  bool   `yaml:"colors"`
}

// GetLevel returns the log level with default
func (c *LogConfig) GetLevel() string {
	if c.Level == "" {
		return "warn"
	}
	return c.Level
}

// ClipboardConfig contains clipboard settings
type ClipboardConfig struct {
	Command []string `yaml:"command"` // Explicit command reading text from stdin; empty = autodetect
}

// TTLConfig contains expiry defaults
type TTLConfig struct {
	Default Duration `yaml:"default"` // Applied by add when no ttl is given (0 = never expires)
}

// Duration is a wrapper around time.Duration for YAML unmarshalling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Dir returns the per-user memo directory ($HOME/.memo)
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".memo"), nil
}

// DefaultPath returns the default configuration file location
func DefaultPath() string {
	dir, err := Dir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads and parses the configuration file.
// A missing file is not an error: the defaults are returned.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		// Expand environment variables
		expanded := expandEnvVars(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.setDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) setDefaults() error {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "warn"
	}

	if cfg.Store.Backend == "" {
		cfg.Store.Backend = BackendJSON
	}
	if cfg.Store.Backend != BackendJSON && cfg.Store.Backend != BackendSQLite {
		return fmt.Errorf("store.backend must be %q or %q, got %q", BackendJSON, BackendSQLite, cfg.Store.Backend)
	}

	if p := os.Getenv(StoreEnv); p != "" {
		cfg.Store.Path = p
	}
	if cfg.Store.Path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		name := "default.json"
		if cfg.Store.Backend == BackendSQLite {
			name = "default.db"
		}
		cfg.Store.Path = filepath.Join(dir, name)
	}

	return nil
}

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}
func expandEnvVars(input string) string {
	// Match ${VAR} or ${VAR:default}
	re := regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

	return re.ReplaceAllStringFunc(input, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		defaultVal := ""
		if len(parts) >= 3 {
			defaultVal = parts[2]
		}

		if val := os.Getenv(varName); val != "" {
			return val
		}
		return defaultVal
	})
}
