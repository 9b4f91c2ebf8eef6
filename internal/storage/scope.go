// Package storage persists task trees to disk and decides where they live.
package storage

import (
	"fmt"
	"strings"
)

// Mode identifies which kind of task store is active.
type Mode string

const (
	// ModeGlobal is the single user-wide task file.
	ModeGlobal Mode = "global"

	// ModeProject is a per-project task file under the project root.
	ModeProject Mode = "project"

	// ModeCustom is a named store independent of any directory.
	ModeCustom Mode = "custom"

	// ModeAuto is not a store of its own: it asks the selector to pick
	// among detected candidates.
	ModeAuto Mode = "auto"
)

// IsValid returns true if the mode is one of the known values.
func (m Mode) IsValid() bool {
	switch m {
	case ModeGlobal, ModeProject, ModeCustom, ModeAuto:
		return true
	}
	return false
}

// Scope is a resolved storage target.
type Scope struct {
	Mode Mode

	// Root is the project root for project scopes, empty otherwise.
	Root string

	// Name is the store name for custom scopes, empty otherwise.
	Name string

	// Path is the task file this scope persists to.
	Path string
}

// Label renders a short human-readable description of the scope.
func (s Scope) Label() string {
	switch s.Mode {
	case ModeProject:
		return fmt.Sprintf("project (%s)", s.Root)
	case ModeCustom:
		return fmt.Sprintf("custom:%s", s.Name)
	default:
		return string(s.Mode)
	}
}

// ParseTarget splits a mode target like "global", "project", "auto",
// "custom" or "custom:name" into its mode and optional custom name.
func ParseTarget(target string) (Mode, string, error) {
	target = strings.TrimSpace(target)
	name := ""
	if rest, ok := strings.CutPrefix(target, "custom:"); ok {
		target = "custom"
		name = strings.TrimSpace(rest)
	}
	mode := Mode(target)
	if !mode.IsValid() {
		return "", "", fmt.Errorf("invalid mode %q, must be one of: global, project, custom[:name], auto", target)
	}
	return mode, name, nil
}
