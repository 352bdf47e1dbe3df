// Package config loads showcase server configuration.
//
// Priority (highest to lowest): CLI flags > environment variables > config
// file > defaults. Flags are applied by the command.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Sink backends.
const (
	SinkFirebase = "firebase"
	SinkLocal    = "local"
	SinkMock     = "mock"
)

// Defaults.
const (
	DefaultAddr          = ":8080"
	DefaultDataDir       = "data"
	DefaultBodyLimitMB   = 10
	DefaultSubmitTimeout = 30 * time.Second
)

// Config is the server configuration.
type Config struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir"`

	// Catalog is a project catalog YAML file. Empty uses the built-in catalog.
	Catalog      string `yaml:"catalog"`
	WatchCatalog bool   `yaml:"watch_catalog"`

	BodyLimitMB   int           `yaml:"body_limit_mb"`
	SubmitTimeout time.Duration `yaml:"submit_timeout"`

	Sink     string         `yaml:"sink"`
	DataDir  string         `yaml:"data_dir"`
	Firebase FirebaseConfig `yaml:"firebase"`

	Log LogConfig `yaml:"log"`
}

// FirebaseConfig selects the Firebase project.
type FirebaseConfig struct {
	ProjectID       string `yaml:"project_id"`
	Bucket          string `yaml:"bucket"`
	CredentialsFile string `yaml:"credentials_file"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ConfigError reports an invalid setting.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// Default returns the default configuration: the local sink and the built-in catalog.
func Default() Config {
	return Config{
		Addr:          DefaultAddr,
		WatchCatalog:  true,
		BodyLimitMB:   DefaultBodyLimitMB,
		SubmitTimeout: DefaultSubmitTimeout,
		Sink:          SinkLocal,
		DataDir:       DefaultDataDir,
		Log:           LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadWithOverrides loads path and applies environment overrides.
func LoadWithOverrides(path string) (Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	cfg.ApplyEnv(os.Getenv)
	return cfg, nil
}

// ApplyEnv overrides settings from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Addr, "SHOWCASE_ADDR")
	set(&c.StaticDir, "SHOWCASE_STATIC_DIR")
	set(&c.Catalog, "SHOWCASE_CATALOG")
	set(&c.Sink, "SHOWCASE_SINK")
	set(&c.DataDir, "SHOWCASE_DATA_DIR")
	set(&c.Firebase.ProjectID, "GOOGLE_CLOUD_PROJECT")
	set(&c.Firebase.Bucket, "FIREBASE_STORAGE_BUCKET")
	set(&c.Firebase.CredentialsFile, "GOOGLE_APPLICATION_CREDENTIALS")
	set(&c.Log.Level, "LOG_LEVEL")
	set(&c.Log.Format, "LOG_FORMAT")

	if v := getenv("SHOWCASE_WATCH_CATALOG"); v != "" {
		c.WatchCatalog = v != "false" && v != "0"
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return &ConfigError{Field: "addr", Message: "is required"}
	}
	if c.BodyLimitMB <= 0 {
		return &ConfigError{Field: "body_limit_mb", Message: "must be positive"}
	}
	if c.SubmitTimeout <= 0 {
		return &ConfigError{Field: "submit_timeout", Message: "must be positive"}
	}
	switch strings.ToLower(c.Sink) {
	case SinkFirebase:
		if c.Firebase.ProjectID == "" {
			return &ConfigError{Field: "firebase.project_id", Message: "is required for the firebase sink"}
		}
	case SinkLocal:
		if c.DataDir == "" {
			return &ConfigError{Field: "data_dir", Message: "is required for the local sink"}
		}
	case SinkMock:
	default:
		return &ConfigError{Field: "sink", Message: fmt.Sprintf("unknown backend %q", c.Sink)}
	}
	return nil
}

// Watching reports whether the catalog file should be hot-reloaded. The
// built-in catalog never changes.
func (c *Config) Watching() bool {
	return c.WatchCatalog && c.Catalog != ""
}

// BodyLimit returns the request body limit in bytes.
func (c *Config) BodyLimit() int {
	return c.BodyLimitMB * 1024 * 1024
}
