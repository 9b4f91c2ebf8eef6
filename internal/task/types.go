// Package task models hierarchical tasks and their lifecycle.
package task

import (
	"fmt"
	"strings"
)

// Status represents a task status.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusBlocked    Status = "blocked"
	StatusDone       Status = "done"
)

// IsValid returns true if the status is one of the known values.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusBlocked, StatusDone:
		return true
	}
	return false
}

// ParseStatus parses a status string, accepting common aliases.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending", "todo", "open":
		return StatusPending, nil
	case "in_progress", "in-progress", "doing", "wip", "active":
		return StatusInProgress, nil
	case "blocked", "waiting":
		return StatusBlocked, nil
	case "done", "completed", "complete":
		return StatusDone, nil
	}
	return "", fmt.Errorf("invalid status %q, must be one of: pending, in_progress, blocked, done", s)
}

// Priority represents a task priority.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// IsValid returns true if the priority is one of the known values.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Rank returns the sort weight of a priority: low is 0, urgent is 3.
// Unknown priorities rank below low.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 0
	case PriorityMedium:
		return 1
	case PriorityHigh:
		return 2
	case PriorityUrgent:
		return 3
	}
	return -1
}

// ParsePriority parses a priority string, accepting common aliases.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "l":
		return PriorityLow, nil
	case "medium", "med", "m", "normal":
		return PriorityMedium, nil
	case "high", "h":
		return PriorityHigh, nil
	case "urgent", "u", "critical":
		return PriorityUrgent, nil
	}
	return "", fmt.Errorf("invalid priority %q, must be one of: low, medium, high, urgent", s)
}
