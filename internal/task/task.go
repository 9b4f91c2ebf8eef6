package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task represents a single item in the task tree. Subtasks nest without a
// depth limit; parentage is positional, a child does not know its parent.
type Task struct {
	ID            string            `json:"id"`
	Content       string            `json:"content"`
	Status        Status            `json:"status"`
	Priority      Priority          `json:"priority"`
	DueDate       *time.Time        `json:"due_date,omitempty"`
	Notes         string            `json:"notes,omitempty"`
	Tags          []string          `json:"tags,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	Subtasks      []*Task           `json:"subtasks,omitempty"`
	Relations     []Relation        `json:"relations,omitempty"`
	Reminders     []Reminder        `json:"reminders,omitempty"`
	Recurrence    *Recurrence       `json:"recurrence,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	LastCompleted *time.Time        `json:"last_completed,omitempty"`
}

// New creates a task with a fresh ID, pending status, and medium priority.
func New(content string) *Task {
	now := time.Now().UTC()
	return &Task{
		ID:        uuid.NewString(),
		Content:   content,
		Status:    StatusPending,
		Priority:  PriorityMedium,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (t *Task) touch() {
	t.UpdatedAt = time.Now().UTC()
}

// SetContent replaces the task text. Empty content is rejected.
func (t *Task) SetContent(content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return fmt.Errorf("empty task content")
	}
	t.Content = content
	t.touch()
	return nil
}

// SetStatus moves the task to status s. Entering done stamps
// LastCompleted, which stays behind as a completion record when the task
// is later reopened. Completing a recurring task re-arms it instead of
// leaving it done: the status returns to pending and the due date moves
// one recurrence interval out from the completion time, not from the old
// due date.
func (t *Task) SetStatus(s Status) error {
	if !s.IsValid() {
		return fmt.Errorf("invalid status %q", s)
	}
	t.setStatus(s)
	return nil
}

func (t *Task) setStatus(s Status) {
	now := time.Now().UTC()
	if s == StatusDone {
		t.LastCompleted = &now
		if t.Recurrence != nil {
			next := t.Recurrence.Next(now)
			t.DueDate = &next
			t.Status = StatusPending
			t.UpdatedAt = now
			return
		}
	}
	t.Status = s
	t.UpdatedAt = now
}

// ToggleStatus cycles pending to in_progress to done and back to pending.
// Blocked tasks move to in_progress; blocked itself is only entered
// through SetStatus.
func (t *Task) ToggleStatus() {
	switch t.Status {
	case StatusInProgress:
		t.setStatus(StatusDone)
	case StatusDone:
		t.setStatus(StatusPending)
	default:
		t.setStatus(StatusInProgress)
	}
}

// SetPriority changes the task priority.
func (t *Task) SetPriority(p Priority) error {
	if !p.IsValid() {
		return fmt.Errorf("invalid priority %q", p)
	}
	t.Priority = p
	t.touch()
	return nil
}

// AdjustPriority moves the priority delta steps along the low to urgent
// order, clamping at both ends.
func (t *Task) AdjustPriority(delta int) {
	order := []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
	idx := t.Priority.Rank() + delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(order) {
		idx = len(order) - 1
	}
	t.Priority = order[idx]
	t.touch()
}

// SetDueDate sets or clears the due date.
func (t *Task) SetDueDate(d *time.Time) {
	if d != nil {
		u := d.UTC()
		d = &u
	}
	t.DueDate = d
	t.touch()
}

// IsOverdue reports whether the task has a due date in the past and is
// not done.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.Status != StatusDone && t.DueDate.Before(now)
}

// SetNotes replaces the free-form notes text.
func (t *Task) SetNotes(notes string) {
	t.Notes = notes
	t.touch()
}

// SetRecurrence sets or clears the repeat schedule.
func (t *Task) SetRecurrence(r *Recurrence) error {
	if r != nil && !r.IsValid() {
		return fmt.Errorf("invalid recurrence %q", r.Kind)
	}
	t.Recurrence = r
	t.touch()
	return nil
}

// AddTag adds a tag, normalized to lowercase. Returns false if the tag is
// empty or already present.
func (t *Task) AddTag(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" || t.HasTag(tag) {
		return false
	}
	t.Tags = append(t.Tags, tag)
	t.touch()
	return true
}

// RemoveTag removes a tag. Returns false if it was not present.
func (t *Task) RemoveTag(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for i, existing := range t.Tags {
		if existing == tag {
			t.Tags = append(t.Tags[:i], t.Tags[i+1:]...)
			t.touch()
			return true
		}
	}
	return false
}

// HasTag reports whether the tag is present. Matching is case-insensitive.
func (t *Task) HasTag(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for _, existing := range t.Tags {
		if existing == tag {
			return true
		}
	}
	return false
}

// SetMeta stores a metadata key/value pair, allocating the map lazily.
func (t *Task) SetMeta(key, value string) {
	if t.Metadata == nil {
		t.Metadata = make(map[string]string)
	}
	t.Metadata[key] = value
	t.touch()
}

// GetMeta returns the metadata value for key.
func (t *Task) GetMeta(key string) (string, bool) {
	v, ok := t.Metadata[key]
	return v, ok
}

// DeleteMeta removes a metadata key. Returns false if it was not present.
func (t *Task) DeleteMeta(key string) bool {
	if _, ok := t.Metadata[key]; !ok {
		return false
	}
	delete(t.Metadata, key)
	t.touch()
	return true
}

// AddSubtask appends a child task.
func (t *Task) AddSubtask(child *Task) {
	t.Subtasks = append(t.Subtasks, child)
	t.touch()
}

// RemoveSubtask removes a direct child by ID. Returns false if no direct
// child has that ID; it does not search deeper.
func (t *Task) RemoveSubtask(id string) bool {
	for i, child := range t.Subtasks {
		if child.ID == id {
			t.Subtasks = append(t.Subtasks[:i], t.Subtasks[i+1:]...)
			t.touch()
			return true
		}
	}
	return false
}

// FindByID returns the task with the given ID in this subtree, including
// the receiver, or nil if not found.
func (t *Task) FindByID(id string) *Task {
	if t.ID == id {
		return t
	}
	for _, child := range t.Subtasks {
		if found := child.FindByID(id); found != nil {
			return found
		}
	}
	return nil
}

// Walk visits the subtree in pre-order, calling fn with each task and its
// depth relative to the receiver. Returning false skips that task's
// subtasks.
func (t *Task) Walk(fn func(*Task, int) bool) {
	t.walk(fn, 0)
}

func (t *Task) walk(fn func(*Task, int) bool, depth int) {
	if !fn(t, depth) {
		return
	}
	for _, child := range t.Subtasks {
		child.walk(fn, depth+1)
	}
}

// Progress counts done tasks against the total for the whole subtree,
// receiver included.
func (t *Task) Progress() (done, total int) {
	t.Walk(func(n *Task, _ int) bool {
		total++
		if n.Status == StatusDone {
			done++
		}
		return true
	})
	return done, total
}

// Relate links this task to another. The same target/kind pair is only
// recorded once.
func (t *Task) Relate(targetID string, kind RelationKind) error {
	if !kind.IsValid() {
		return fmt.Errorf("invalid relation kind %q", kind)
	}
	if targetID == "" {
		return fmt.Errorf("empty relation target")
	}
	for _, r := range t.Relations {
		if r.TargetID == targetID && r.Kind == kind {
			return nil
		}
	}
	t.Relations = append(t.Relations, Relation{TargetID: targetID, Kind: kind})
	t.touch()
	return nil
}

// Unrelate removes a relation. Returns false if it was not present.
func (t *Task) Unrelate(targetID string, kind RelationKind) bool {
	for i, r := range t.Relations {
		if r.TargetID == targetID && r.Kind == kind {
			t.Relations = append(t.Relations[:i], t.Relations[i+1:]...)
			t.touch()
			return true
		}
	}
	return false
}

// RelatedIDs returns the target IDs of all relations of the given kind.
func (t *Task) RelatedIDs(kind RelationKind) []string {
	var ids []string
	for _, r := range t.Relations {
		if r.Kind == kind {
			ids = append(ids, r.TargetID)
		}
	}
	return ids
}

// AddReminder schedules a reminder. An empty urgency defaults to normal.
func (t *Task) AddReminder(at time.Time, urgency string) error {
	if !validUrgency(urgency) {
		return fmt.Errorf("invalid reminder urgency %q", urgency)
	}
	if urgency == "" {
		urgency = ReminderNormal
	}
	t.Reminders = append(t.Reminders, Reminder{At: at.UTC(), Urgency: urgency})
	t.touch()
	return nil
}

// DueReminders returns the reminders that have fired as of now.
func (t *Task) DueReminders(now time.Time) []Reminder {
	var due []Reminder
	for _, r := range t.Reminders {
		if r.Due(now) {
			due = append(due, r)
		}
	}
	return due
}

// Clone returns a deep copy of the task and its subtree. IDs are kept.
func (t *Task) Clone() *Task {
	c := *t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.LastCompleted != nil {
		d := *t.LastCompleted
		c.LastCompleted = &d
	}
	if t.Recurrence != nil {
		r := *t.Recurrence
		c.Recurrence = &r
	}
	if t.Tags != nil {
		c.Tags = append([]string(nil), t.Tags...)
	}
	if t.Relations != nil {
		c.Relations = append([]Relation(nil), t.Relations...)
	}
	if t.Reminders != nil {
		c.Reminders = append([]Reminder(nil), t.Reminders...)
	}
	if t.Metadata != nil {
		c.Metadata = make(map[string]string, len(t.Metadata))
		for k, v := range t.Metadata {
			c.Metadata[k] = v
		}
	}
	if t.Subtasks != nil {
		c.Subtasks = make([]*Task, len(t.Subtasks))
		for i, child := range t.Subtasks {
			c.Subtasks[i] = child.Clone()
		}
	}
	return &c
}
