package config

import (
	"os"
	"strconv"
	"strings"
)

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("LAZYDO_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("LAZYDO_PROJECT_MODE"); v != "" {
		cfg.Storage.ProjectMode = boolFromString(v)
	}
	if v := os.Getenv("LAZYDO_USE_GIT_ROOT"); v != "" {
		cfg.Storage.UseGitRoot = boolFromString(v)
	}
	if v := os.Getenv("LAZYDO_AUTO_BACKUP"); v != "" {
		cfg.Storage.AutoBackup = boolFromString(v)
	}
	if v := os.Getenv("LAZYDO_MAX_BACKUPS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Storage.MaxBackups = i
		}
	}
	if v := os.Getenv("LAZYDO_COMPRESSION"); v != "" {
		cfg.Storage.Compression = boolFromString(v)
	}
	if v := os.Getenv("LAZYDO_ENCRYPTION"); v != "" {
		cfg.Storage.Encryption = boolFromString(v)
	}
	if v := os.Getenv("LAZYDO_SAVE_DEBOUNCE"); v != "" {
		cfg.Storage.SaveDebounce = v
	}
	if v := os.Getenv("LAZYDO_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LAZYDO_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// boolFromString interprets common truthy strings.
func boolFromString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
