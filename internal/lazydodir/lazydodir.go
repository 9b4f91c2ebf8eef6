// Package lazydodir provides constants and utilities for the .lazydo directory structure.
package lazydodir

import (
	"os"
	"path/filepath"
)

const (
	// Dir is the name of the lazydo marker directory.
	Dir = ".lazydo"

	// DefaultTasksFile is the default tasks file name (inside .lazydo).
	DefaultTasksFile = "tasks.json"

	// DefaultConfigFile is the default config file name (inside .lazydo).
	DefaultConfigFile = "config.toml"
)

// TasksPath returns the full path to the tasks file within a project root.
func TasksPath(root string) string {
	return joinPath(root, DefaultTasksFile)
}

// ConfigPath returns the full path to the config file within a project root.
func ConfigPath(root string) string {
	return joinPath(root, DefaultConfigFile)
}

// DirPath returns the full path to the .lazydo directory within a project root.
func DirPath(root string) string {
	if root == "." || root == "" {
		return Dir
	}
	return root + string(filepath.Separator) + Dir
}

// Exists reports whether the marker directory exists under root.
func Exists(root string) bool {
	info, err := os.Stat(DirPath(root))
	return err == nil && info.IsDir()
}

func joinPath(root, file string) string {
	if root == "." || root == "" {
		return Dir + string(filepath.Separator) + file
	}
	return root + string(filepath.Separator) + Dir + string(filepath.Separator) + file
}
