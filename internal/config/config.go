// Package config loads server and CLI settings: defaults, then an optional
// YAML file, then SITEBOOK_* environment variables, then explicit flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Log formats.
const (
	LogFormatAuto = "auto"
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Trace exporters.
const (
	TracingNone   = "none"
	TracingStdout = "stdout"
)

// Config holds every runtime setting.
type Config struct {
	DBPath          string        `yaml:"db"`
	Addr            string        `yaml:"addr"`
	LogLevel        string        `yaml:"log_level"`
	LogFormat       string        `yaml:"log_format"`
	RequireRoles    bool          `yaml:"require_roles"`
	Tracing         string        `yaml:"tracing"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Default returns settings suitable for a local single-node run.
func Default() Config {
	return Config{
		DBPath:          defaultDBPath(),
		Addr:            ":8080",
		LogLevel:        "info",
		LogFormat:       LogFormatAuto,
		RequireRoles:    true,
		Tracing:         TracingNone,
		ShutdownTimeout: 10 * time.Second,
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "sitebook.db"
	}
	return filepath.Join(home, ".sitebook", "sitebook.db")
}

// Load builds a Config from defaults, the YAML file at path (or
// SITEBOOK_CONFIG when path is empty) and environment overrides. A file
// that was named but cannot be read is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("SITEBOOK_CONFIG")
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SITEBOOK_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("SITEBOOK_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("SITEBOOK_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("SITEBOOK_LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	if v := os.Getenv("SITEBOOK_REQUIRE_ROLES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.RequireRoles = b
		}
	}
	if v := os.Getenv("SITEBOOK_TRACING"); v != "" {
		c.Tracing = v
	}
	if v := os.Getenv("SITEBOOK_SHUTDOWN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.ShutdownTimeout = d
		}
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("db path is required"))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch c.LogFormat {
	case LogFormatAuto, LogFormatText, LogFormatJSON:
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	switch c.Tracing {
	case TracingNone, TracingStdout:
	default:
		errs = append(errs, fmt.Errorf("unknown tracing exporter %q", c.Tracing))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("shutdown timeout must be positive"))
	}
	return errors.Join(errs...)
}

// SlogLevel returns the configured log level.
func (c Config) SlogLevel() slog.Level {
	lvl, _ := parseLevel(c.LogLevel)
	return lvl
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return lvl, nil
}

// AddFlags registers the overridable settings on fs.
func AddFlags(fs *pflag.FlagSet) {
	def := Default()
	fs.String("config", "", "path to a YAML config file (env SITEBOOK_CONFIG)")
	fs.String("db", def.DBPath, "SQLite database path (env SITEBOOK_DB)")
	fs.String("log-level", def.LogLevel, "debug, info, warn or error")
	fs.String("log-format", def.LogFormat, "auto, text or json")
}

// ApplyFlags overrides cfg with every flag the user set explicitly.
func ApplyFlags(cfg *Config, fs *pflag.FlagSet) error {
	for name, dst := range map[string]*string{
		"db":         &cfg.DBPath,
		"log-level":  &cfg.LogLevel,
		"log-format": &cfg.LogFormat,
		"addr":       &cfg.Addr,
		"tracing":    &cfg.Tracing,
	} {
		if fs.Lookup(name) == nil || !fs.Changed(name) {
			continue
		}
		v, err := fs.GetString(name)
		if err != nil {
			return err
		}
		*dst = v
	}
	if fs.Lookup("require-roles") != nil && fs.Changed("require-roles") {
		v, err := fs.GetBool("require-roles")
		if err != nil {
			return err
		}
		cfg.RequireRoles = v
	}
	return cfg.Validate()
}
