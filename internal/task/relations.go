package task

import (
	"fmt"
	"strings"
	"time"
)

// RelationKind identifies how one task relates to another.
type RelationKind string

const (
	RelBlocks     RelationKind = "blocks"
	RelDependsOn  RelationKind = "depends_on"
	RelRelatedTo  RelationKind = "related_to"
	RelDuplicates RelationKind = "duplicates"
)

// IsValid returns true if the relation kind is one of the known values.
func (k RelationKind) IsValid() bool {
	switch k {
	case RelBlocks, RelDependsOn, RelRelatedTo, RelDuplicates:
		return true
	}
	return false
}

// Inverse returns the kind as seen from the target task. blocks and
// depends_on mirror each other; the symmetric kinds return themselves.
func (k RelationKind) Inverse() RelationKind {
	switch k {
	case RelBlocks:
		return RelDependsOn
	case RelDependsOn:
		return RelBlocks
	}
	return k
}

// ParseRelationKind parses a relation kind string.
func ParseRelationKind(s string) (RelationKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "blocks":
		return RelBlocks, nil
	case "depends_on", "depends-on", "depends":
		return RelDependsOn, nil
	case "related_to", "related-to", "related":
		return RelRelatedTo, nil
	case "duplicates", "duplicate", "dup":
		return RelDuplicates, nil
	}
	return "", fmt.Errorf("invalid relation kind %q, must be one of: blocks, depends_on, related_to, duplicates", s)
}

// Relation links a task to another task by ID.
type Relation struct {
	TargetID string       `json:"target_id"`
	Kind     RelationKind `json:"kind"`
}

// Reminder urgency levels.
const (
	ReminderNormal    = "normal"
	ReminderImportant = "important"
	ReminderUrgent    = "urgent"
)

// Reminder schedules a notification for a task.
type Reminder struct {
	At      time.Time `json:"at"`
	Urgency string    `json:"urgency,omitempty"`
}

// Due reports whether the reminder has fired as of now.
func (r Reminder) Due(now time.Time) bool {
	return !r.At.After(now)
}

func validUrgency(u string) bool {
	switch u {
	case "", ReminderNormal, ReminderImportant, ReminderUrgent:
		return true
	}
	return false
}
