// Package config loads the backend configuration.
//
// Precedence, lowest to highest: built-in defaults, the YAML file, a .env file
// in the working directory, then process environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// AppDirName is the per-user directory holding the database and config file.
	AppDirName     = "shader-live-coding"
	DBFileName     = "shader_live_coding.db"
	ConfigFileName = "config.yaml"

	currentVersion = 1
)

// Environment variable overrides.
const (
	EnvConfigPath   = "SHADER_CONFIG"
	EnvDBPath       = "SHADER_DB_PATH"
	EnvAddr         = "SHADER_ADDR"
	EnvSeedDefaults = "SHADER_SEED_DEFAULTS"
	EnvLogLevel     = "SHADER_LOG_LEVEL"
	EnvLogFormat    = "SHADER_LOG_FORMAT"
	EnvLogFile      = "SHADER_LOG_FILE"
)

// DatabaseConfig locates the store.
type DatabaseConfig struct {
	Path         string `yaml:"path"`
	SeedDefaults bool   `yaml:"seed_defaults"`
}

// ServerConfig configures the HTTP command API.
type ServerConfig struct {
	// Addr is loopback-only by default: the API is for the local editor.
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LoggingConfig is consumed by applog.New.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
	File   string `yaml:"file"`   // optional, rotated
}

// Config is the whole config.yaml document.
type Config struct {
	ConfigVersion int            `yaml:"config_version"`
	Database      DatabaseConfig `yaml:"database"`
	Server        ServerConfig   `yaml:"server"`
	Logging       LoggingConfig  `yaml:"logging"`
}

// AppDir returns the application-scoped data directory, e.g.
// ~/.config/shader-live-coding on Linux.
func AppDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: locating user config dir: %w", err)
	}
	return filepath.Join(base, AppDirName), nil
}

// Defaults returns the built-in configuration. The database lives in AppDir;
// if that cannot be determined it falls back to the working directory.
func Defaults() Config {
	dbPath := DBFileName
	if dir, err := AppDir(); err == nil {
		dbPath = filepath.Join(dir, DBFileName)
	}
	return Config{
		ConfigVersion: currentVersion,
		Database:      DatabaseConfig{Path: dbPath, SeedDefaults: true},
		Server:        ServerConfig{Addr: "127.0.0.1:7878", ShutdownTimeout: 10 * time.Second},
		Logging:       LoggingConfig{Level: "info", Format: "text"},
	}
}

// DefaultPath returns where the config file is looked up when no path is given.
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	dir, err := AppDir()
	if err != nil {
		return ConfigFileName
	}
	return filepath.Join(dir, ConfigFileName)
}

// Load builds the configuration. path may be empty to use DefaultPath.
// A missing config file is not an error.
func Load(path string) (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: reading .env: %w", err)
	}

	if path == "" {
		path = DefaultPath()
	}

	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes cfg as YAML, creating the parent directory.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: creating %s: %w", filepath.Dir(path), err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encoding: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvDBPath); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvSeedDefaults); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: %s=%q: %w", EnvSeedDefaults, v, err)
		}
		c.Database.SeedDefaults = b
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.Logging.File = v
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.ConfigVersion > currentVersion {
		return fmt.Errorf("config: config_version %d is newer than supported version %d", c.ConfigVersion, currentVersion)
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("config: database.path is required")
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("config: server.addr is required")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("config: server.shutdown_timeout must be positive")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("config: unknown logging.level %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown logging.format %q", c.Logging.Format)
	}
	return nil
}
