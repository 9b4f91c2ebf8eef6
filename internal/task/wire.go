package task

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// wireTask mirrors Task for tolerant decoding. Subtasks stay raw so a
// malformed child cannot sink its siblings, and the legacy done flag from
// pre-status files is accepted.
type wireTask struct {
	ID            string            `json:"id"`
	Content       string            `json:"content"`
	Status        string            `json:"status"`
	Priority      string            `json:"priority"`
	Done          *bool             `json:"done"`
	DueDate       *time.Time        `json:"due_date"`
	Notes         string            `json:"notes"`
	Tags          []string          `json:"tags"`
	Metadata      map[string]string `json:"metadata"`
	Subtasks      []json.RawMessage `json:"subtasks"`
	Relations     []Relation        `json:"relations"`
	Reminders     []Reminder        `json:"reminders"`
	Recurrence    *Recurrence       `json:"recurrence"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	LastCompleted *time.Time        `json:"last_completed"`
}

// DecodeTasks decodes a list of raw task objects. Nodes that fail to
// decode are skipped, their subtrees with them, and counted; siblings
// survive. The legacy "done" boolean maps to a status on read and is
// never written back.
func DecodeTasks(raw []json.RawMessage) (tasks []*Task, skipped int) {
	tasks = make([]*Task, 0, len(raw))
	for _, r := range raw {
		t, n, err := decodeNode(r)
		skipped += n
		if err != nil {
			skipped++
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks, skipped
}

// decodeNode parses a single task object. skipped counts subtasks that
// were discarded even though the node itself decoded.
func decodeNode(raw json.RawMessage) (*Task, int, error) {
	var w wireTask
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, 0, fmt.Errorf("parse task: %w", err)
	}

	if w.Content == "" {
		return nil, 0, fmt.Errorf("task %s: missing content", idOrPlaceholder(w.ID))
	}

	status, err := statusFromWire(w)
	if err != nil {
		return nil, 0, fmt.Errorf("task %s: %w", idOrPlaceholder(w.ID), err)
	}

	priority := Priority(w.Priority)
	if w.Priority == "" {
		priority = PriorityMedium
	} else if !priority.IsValid() {
		return nil, 0, fmt.Errorf("task %s: unknown priority %q", idOrPlaceholder(w.ID), w.Priority)
	}

	for _, rel := range w.Relations {
		if !rel.Kind.IsValid() {
			return nil, 0, fmt.Errorf("task %s: unknown relation kind %q", idOrPlaceholder(w.ID), rel.Kind)
		}
		if rel.TargetID == "" {
			return nil, 0, fmt.Errorf("task %s: relation missing target", idOrPlaceholder(w.ID))
		}
	}

	if w.Recurrence != nil && !w.Recurrence.IsValid() {
		return nil, 0, fmt.Errorf("task %s: invalid recurrence", idOrPlaceholder(w.ID))
	}

	t := &Task{
		ID:            w.ID,
		Content:       w.Content,
		Status:        status,
		Priority:      priority,
		DueDate:       w.DueDate,
		Notes:         w.Notes,
		Tags:          w.Tags,
		Metadata:      w.Metadata,
		Relations:     w.Relations,
		Recurrence:    w.Recurrence,
		CreatedAt:     w.CreatedAt,
		UpdatedAt:     w.UpdatedAt,
		LastCompleted: w.LastCompleted,
	}

	for _, rem := range w.Reminders {
		if rem.Urgency == "" || !validUrgency(rem.Urgency) {
			rem.Urgency = ReminderNormal
		}
		t.Reminders = append(t.Reminders, rem)
	}

	var skipped int
	if len(w.Subtasks) > 0 {
		t.Subtasks, skipped = DecodeTasks(w.Subtasks)
		if len(t.Subtasks) == 0 {
			t.Subtasks = nil
		}
	}

	normalize(t)
	return t, skipped, nil
}

// statusFromWire resolves the status field, falling back to the legacy
// done flag for files written before statuses existed. Unknown values are
// rejected, never coerced.
func statusFromWire(w wireTask) (Status, error) {
	if w.Status != "" {
		s := Status(w.Status)
		if !s.IsValid() {
			return "", fmt.Errorf("unknown status %q", w.Status)
		}
		return s, nil
	}
	if w.Done != nil {
		if *w.Done {
			return StatusDone, nil
		}
		return StatusPending, nil
	}
	return StatusPending, nil
}

// normalize backfills fields hand-edited files tend to drop: a missing ID
// gets a fresh one, zero timestamps are reconstructed, and a done task
// without a completion time gets one. A last_completed on a non-done task
// is left alone, it records the most recent completion of a task that was
// reopened or re-armed.
func normalize(t *Task) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		if !t.UpdatedAt.IsZero() {
			t.CreatedAt = t.UpdatedAt
		} else {
			t.CreatedAt = time.Now().UTC()
		}
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = t.CreatedAt
	}
	if t.Status == StatusDone && t.LastCompleted == nil {
		done := t.UpdatedAt
		t.LastCompleted = &done
	}
}

func idOrPlaceholder(id string) string {
	if id == "" {
		return "(no id)"
	}
	return id
}
