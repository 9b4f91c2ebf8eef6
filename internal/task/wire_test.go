package task

import (
	"encoding/json"
	"testing"
)

func rawList(t *testing.T, docs ...string) []json.RawMessage {
	t.Helper()
	raw := make([]json.RawMessage, len(docs))
	for i, d := range docs {
		raw[i] = json.RawMessage(d)
	}
	return raw
}

func TestDecodeTasksSkipsMalformedSiblings(t *testing.T) {
	raw := rawList(t,
		`{"id":"a","content":"good one","status":"pending","priority":"high"}`,
		`{"id":"b","content":"bad status","status":"someday"}`,
		`{"id":"c","content":"another good","status":"done"}`,
	)

	tasks, skipped := DecodeTasks(raw)

	if len(tasks) != 2 {
		t.Fatalf("tasks: got %d, want 2", len(tasks))
	}
	if skipped != 1 {
		t.Errorf("skipped: got %d, want 1", skipped)
	}
	if tasks[0].ID != "a" || tasks[1].ID != "c" {
		t.Errorf("survivors: got %s, %s, want a, c", tasks[0].ID, tasks[1].ID)
	}
}

func TestDecodeTasksSkipsMalformedSubtask(t *testing.T) {
	raw := rawList(t, `{
		"id": "root",
		"content": "parent",
		"status": "pending",
		"subtasks": [
			{"id": "s1", "content": "fine", "status": "done"},
			{"id": "s2", "content": "broken", "priority": "sky-high"},
			{"id": "s3", "content": "also fine", "status": "blocked"}
		]
	}`)

	tasks, skipped := DecodeTasks(raw)

	if len(tasks) != 1 {
		t.Fatalf("tasks: got %d, want 1", len(tasks))
	}
	if skipped != 1 {
		t.Errorf("skipped: got %d, want 1", skipped)
	}
	if len(tasks[0].Subtasks) != 2 {
		t.Fatalf("subtasks: got %d, want 2", len(tasks[0].Subtasks))
	}
	if tasks[0].Subtasks[0].ID != "s1" || tasks[0].Subtasks[1].ID != "s3" {
		t.Errorf("surviving subtasks: got %s, %s, want s1, s3",
			tasks[0].Subtasks[0].ID, tasks[0].Subtasks[1].ID)
	}
}

func TestDecodeTasksFailsClosed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown status", `{"id":"x","content":"c","status":"paused"}`},
		{"unknown priority", `{"id":"x","content":"c","priority":"asap"}`},
		{"missing content", `{"id":"x","status":"pending"}`},
		{"unknown relation kind", `{"id":"x","content":"c","relations":[{"target_id":"y","kind":"loves"}]}`},
		{"relation without target", `{"id":"x","content":"c","relations":[{"kind":"blocks"}]}`},
		{"invalid recurrence", `{"id":"x","content":"c","recurrence":{"kind":"hourly"}}`},
		{"not json", `{"id":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, skipped := DecodeTasks(rawList(t, tt.doc))
			if len(tasks) != 0 {
				t.Errorf("tasks: got %d, want 0", len(tasks))
			}
			if skipped != 1 {
				t.Errorf("skipped: got %d, want 1", skipped)
			}
		})
	}
}

func TestDecodeTasksLegacyDone(t *testing.T) {
	raw := rawList(t,
		`{"id":"a","content":"finished","done":true}`,
		`{"id":"b","content":"open","done":false}`,
	)

	tasks, skipped := DecodeTasks(raw)

	if skipped != 0 {
		t.Fatalf("skipped: got %d, want 0", skipped)
	}
	if tasks[0].Status != StatusDone {
		t.Errorf("done:true status: got %s, want %s", tasks[0].Status, StatusDone)
	}
	if tasks[0].LastCompleted == nil {
		t.Error("done:true: LastCompleted not backfilled")
	}
	if tasks[1].Status != StatusPending {
		t.Errorf("done:false status: got %s, want %s", tasks[1].Status, StatusPending)
	}

	// The legacy flag must never be written back.
	data, err := json.Marshal(tasks[0])
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if _, ok := out["done"]; ok {
		t.Error("marshaled task still carries the legacy done field")
	}
}

func TestDecodeTasksNormalizes(t *testing.T) {
	raw := rawList(t,
		`{"content":"no id, no dates","status":"pending"}`,
		`{"id":"d","content":"reopened","status":"pending","last_completed":"2026-01-01T00:00:00Z"}`,
	)

	tasks, skipped := DecodeTasks(raw)
	if skipped != 0 {
		t.Fatalf("skipped: got %d, want 0", skipped)
	}

	if tasks[0].ID == "" {
		t.Error("missing ID not backfilled")
	}
	if tasks[0].CreatedAt.IsZero() || tasks[0].UpdatedAt.IsZero() {
		t.Error("zero timestamps not backfilled")
	}
	// A reopened task keeps the record of its last completion.
	if tasks[1].LastCompleted == nil {
		t.Error("LastCompleted dropped from a reopened task")
	}
}

func TestDecodeTasksDefaultsPriority(t *testing.T) {
	tasks, skipped := DecodeTasks(rawList(t, `{"id":"a","content":"plain"}`))
	if skipped != 0 {
		t.Fatalf("skipped: got %d, want 0", skipped)
	}
	if tasks[0].Priority != PriorityMedium {
		t.Errorf("Priority: got %s, want %s", tasks[0].Priority, PriorityMedium)
	}
	if tasks[0].Status != StatusPending {
		t.Errorf("Status: got %s, want %s", tasks[0].Status, StatusPending)
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	root := New("parent")
	root.AddTag("home")
	root.SetMeta("room", "kitchen")
	child := New("child")
	if err := child.SetStatus(StatusInProgress); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	root.AddSubtask(child)
	if err := root.Relate(child.ID, RelBlocks); err != nil {
		t.Fatalf("Relate failed: %v", err)
	}

	data, err := json.Marshal([]*Task{root})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	tasks, skipped := DecodeTasks(raw)
	if skipped != 0 {
		t.Fatalf("skipped: got %d, want 0", skipped)
	}
	if len(tasks) != 1 {
		t.Fatalf("tasks: got %d, want 1", len(tasks))
	}

	got := tasks[0]
	if got.ID != root.ID || got.Content != root.Content {
		t.Errorf("root: got %s/%s, want %s/%s", got.ID, got.Content, root.ID, root.Content)
	}
	if len(got.Subtasks) != 1 || got.Subtasks[0].Status != StatusInProgress {
		t.Error("subtask did not survive the round trip")
	}
	if len(got.Relations) != 1 || got.Relations[0].TargetID != child.ID {
		t.Error("relation did not survive the round trip")
	}
	if v, _ := got.GetMeta("room"); v != "kitchen" {
		t.Error("metadata did not survive the round trip")
	}
}
