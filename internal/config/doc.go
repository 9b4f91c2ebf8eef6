// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.lazydo.toml or OS-specific config directory)
// 3. Project config file (.lazydo/config.toml or .lazydo.toml in the project root)
// 4. Environment variables (LAZYDO_*)
//
// Each level overrides the previous one.
//
// User-level config locations:
// - ~/.lazydo.toml (legacy, checked first)
// - Windows: %APPDATA%\lazydo\lazydo.toml
// - macOS: ~/Library/Application Support/lazydo/lazydo.toml
// - Linux/BSD: $XDG_CONFIG_HOME/lazydo/lazydo.toml or ~/.config/lazydo/lazydo.toml
//
// Project-level config locations (override user config):
// - {root}/.lazydo/config.toml (preferred)
// - {root}/.lazydo.toml
package config
