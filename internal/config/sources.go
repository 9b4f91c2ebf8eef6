package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/Dan7h3x/LazyDo/internal/lazydodir"
)

// findProjectConfigFile looks for a config file under the project root.
func findProjectConfigFile(root string) string {
	if root == "" {
		root = "."
	}
	names := []string{
		lazydodir.ConfigPath(root),
		filepath.Join(root, ".lazydo.toml"),
	}
	for _, name := range names {
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			return name
		}
	}
	return ""
}

// findUserConfigFile looks for a user-level config file.
// Checks ~/.lazydo.toml first, then falls back to OS-specific config
// directories.
func findUserConfigFile() string {
	home, err := os.UserHomeDir()
	if err == nil {
		legacy := filepath.Join(home, ".lazydo.toml")
		if _, err := os.Stat(legacy); err == nil {
			return legacy
		}
	}

	if cfgDir := osUserConfigDir(); cfgDir != "" {
		userConfigPath := filepath.Join(cfgDir, "lazydo", "lazydo.toml")
		if _, err := os.Stat(userConfigPath); err == nil {
			return userConfigPath
		}
	}

	return ""
}

// osUserConfigDir returns the OS-specific user config directory.
// Returns empty string if the directory cannot be determined.
func osUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return appdata
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.Storage.Path = DefaultGlobalPath
	cfg.Storage.ProjectMode = true
	cfg.Storage.UseGitRoot = true
	cfg.Storage.Markers = DefaultMarkers()
	cfg.Storage.PathPattern = DefaultPathPattern
	cfg.Storage.AutoBackup = true
	cfg.Storage.MaxBackups = DefaultMaxBackups
	cfg.Storage.Compression = false
	cfg.Storage.Encryption = false
	cfg.Storage.SaveDebounce = DefaultSaveDebounce

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}
