package config

import (
	"fmt"
	"strings"
	"time"
)

// Default values.
const (
	DefaultGlobalPath   = "~/.local/share/lazydo/tasks.json"
	DefaultPathPattern  = "{root}/.lazydo/tasks.json"
	DefaultMaxBackups   = 1
	DefaultSaveDebounce = "1s"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
)

// DefaultMarkers returns the directory names that mark a project root.
func DefaultMarkers() []string {
	return []string{".lazydo"}
}

// Config holds the full configuration for lazydo.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// StorageConfig controls where and how the task file is written.
type StorageConfig struct {
	// Path is the global task file, used when no project scope applies.
	Path string `toml:"path"`

	// ProjectMode enables per-project task files.
	ProjectMode bool `toml:"project_mode"`

	// UseGitRoot resolves project scope from the enclosing git repository.
	UseGitRoot bool `toml:"use_git_root"`

	// Markers are directory names that mark a project root when git
	// detection is off or finds nothing.
	Markers []string `toml:"markers"`

	// PathPattern shapes project task file paths. {root} and {name}
	// expand to the project root and custom store name.
	PathPattern string `toml:"path_pattern"`

	AutoBackup bool `toml:"auto_backup"`
	MaxBackups int  `toml:"max_backups"`

	// Compression enables run-length encoding of the stored file.
	Compression bool `toml:"compression"`

	// Encryption enables byte-shift obfuscation. It is not real
	// cryptography and is labeled accordingly in the docs.
	Encryption bool `toml:"encryption"`

	// SaveDebounce is the quiet period for debounced saves, as a
	// time.ParseDuration string.
	SaveDebounce string `toml:"save_debounce"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path: must not be empty")
	}
	if c.Storage.MaxBackups < 0 {
		return fmt.Errorf("storage.max_backups: must be >= 0, got %d", c.Storage.MaxBackups)
	}
	if !strings.Contains(c.Storage.PathPattern, "{root}") {
		return fmt.Errorf("storage.path_pattern: must contain {root}, got %q", c.Storage.PathPattern)
	}
	if c.Storage.SaveDebounce != "" {
		if d, err := time.ParseDuration(c.Storage.SaveDebounce); err != nil {
			return fmt.Errorf("storage.save_debounce: %w", err)
		} else if d < 0 {
			return fmt.Errorf("storage.save_debounce: must not be negative, got %s", d)
		}
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level: invalid level %q, must be one of: debug, info, warn, error", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("log.format: invalid format %q, must be one of: text, json, logfmt", c.Log.Format)
	}
	return nil
}
