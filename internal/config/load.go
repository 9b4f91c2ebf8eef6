package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.lazydo.toml or OS-specific config dir)
// 3. Project config file (.lazydo/config.toml or .lazydo.toml in projectRoot)
// 4. Environment variables
//
// projectRoot may be empty, in which case the current working directory is
// used for the project config lookup.
func Load(projectRoot string) (*Config, error) {
	cfg := &Config{}

	// 1. Set defaults
	setDefaults(cfg)

	// 2. Try to load from user config file
	userConfigFile := findUserConfigFile()
	if userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
	}

	// 3. Try to load from project config file (overrides user config)
	projectConfigFile := findProjectConfigFile(projectRoot)
	if projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
	}

	// 4. Override from environment
	loadFromEnv(cfg)

	// 5. Compute derived values
	if err := finalizeConfig(cfg, projectRoot); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns the built-in configuration without reading any files or
// environment variables.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	cfg.ProjectRoot = "."
	return cfg
}

// loadConfigFile loads TOML config from the given file.
func loadConfigFile(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	return err
}

// finalizeConfig computes derived values and expands paths.
func finalizeConfig(cfg *Config, projectRoot string) error {
	cfg.Storage.Path = expandPath(cfg.Storage.Path)

	if projectRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		projectRoot = wd
	}
	cfg.ProjectRoot = projectRoot

	return nil
}
