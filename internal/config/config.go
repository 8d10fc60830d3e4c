package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

// DefaultLargeFileSize is the Large Files threshold when none is configured.
const DefaultLargeFileSize = "100MiB"

// Config is the application configuration.
// Priority: defaults, then environment variables, then the YAML file.
type Config struct {
	Cleanup CleanupConfig `yaml:"cleanup"`
	Logging LogConfig     `yaml:"logging"`
	Report  ReportConfig  `yaml:"report"`
}

// CleanupConfig configures the cleanup pipeline.
type CleanupConfig struct {
	Ignore           []string `yaml:"ignore"`              // paths excluded from cleanup
	IgnoreMatch      []string `yaml:"ignore_match"`        // substrings excluding any path that contains them
	Only             []string `yaml:"only"`                // category keys to run; empty = all
	MinLargeFileSize string   `yaml:"min_large_file_size"` // e.g. 100MiB, 2GB
	Workers          int      `yaml:"workers"`             // parallel probe/act workers
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug / info / warn / error
	Format string `yaml:"format"` // json / text
}

// ReportConfig toggles optional report sections.
type ReportConfig struct {
	ShowSkipped  bool `yaml:"show_skipped"`
	ShowWarnings bool `yaml:"show_warnings"`
}

// Load builds the configuration. A missing file is not an error; a file
// that cannot be parsed is.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Cleanup: CleanupConfig{
			Ignore:           listOr("OSX_IGNORE", nil),
			IgnoreMatch:      listOr("OSX_IGNORE_MATCH", nil),
			Only:             listOr("OSX_ONLY", nil),
			MinLargeFileSize: envOr("OSX_MIN_LARGE_FILE_SIZE", DefaultLargeFileSize),
			Workers:          intOr("OSX_WORKERS", runtime.NumCPU()*2),
		},
		Logging: LogConfig{
			Level:  envOr("OSX_LOG_LEVEL", "info"),
			Format: envOr("OSX_LOG_FORMAT", "text"),
		},
		Report: ReportConfig{
			ShowSkipped:  isSet("OSX_SHOW_SKIPPED"),
			ShowWarnings: isSet("OSX_SHOW_WARNINGS"),
		},
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Cleanup.Workers <= 0 {
		cfg.Cleanup.Workers = 1
	}
	return cfg, nil
}

// DefaultPath returns $OSX_CONFIG, or config.yaml in the user config
// directory.
func DefaultPath() string {
	if p := os.Getenv("OSX_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "osxmole", "config.yaml")
}

// LargeFileThreshold parses MinLargeFileSize ("100MiB", "1.5GB", "5000000").
func (c *Config) LargeFileThreshold() (int64, error) {
	return ParseSize(c.Cleanup.MinLargeFileSize)
}

// ParseSize parses a human size string. An empty string yields the default.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		s = DefaultLargeFileSize
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("invalid size %q: must be greater than zero", s)
	}
	return int64(n), nil
}

// LogEffective returns the effective configuration as log attributes.
func (c *Config) LogEffective(cfgPath string) []any {
	source := "environment/defaults"
	if cfgPath != "" {
		source = "yaml file: " + cfgPath
	}
	return []any{
		"config_source", source,
		"ignore", strings.Join(c.Cleanup.Ignore, ","),
		"ignore_match", strings.Join(c.Cleanup.IgnoreMatch, ","),
		"only", strings.Join(c.Cleanup.Only, ","),
		"min_large_file_size", c.Cleanup.MinLargeFileSize,
		"workers", c.Cleanup.Workers,
		"log_level", c.Logging.Level,
		"log_format", c.Logging.Format,
	}
}

// envOr reads an environment variable, falling back to defaultVal.
func envOr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// intOr reads an environment variable as int, falling back to defaultVal.
func intOr(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultVal
}

// listOr reads a comma-separated environment variable.
func listOr(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// isSet reports whether an environment toggle is present at all.
func isSet(key string) bool {
	_, ok := os.LookupEnv(key)
	return ok
}
