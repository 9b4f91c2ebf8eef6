package task

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// FindByID searches the whole forest for a task, nested subtasks included.
func FindByID(tasks []*Task, id string) *Task {
	for _, t := range tasks {
		if found := t.FindByID(id); found != nil {
			return found
		}
	}
	return nil
}

// FindByPrefix returns every task in the forest whose ID starts with
// prefix. Callers use the result length to detect ambiguous prefixes.
func FindByPrefix(tasks []*Task, prefix string) []*Task {
	if prefix == "" {
		return nil
	}
	var matches []*Task
	for _, t := range tasks {
		t.Walk(func(n *Task, _ int) bool {
			if strings.HasPrefix(n.ID, prefix) {
				matches = append(matches, n)
			}
			return true
		})
	}
	return matches
}

// RemoveByID removes a task from the forest wherever it sits, top level or
// nested. Returns the (possibly reallocated) forest and whether a task was
// removed.
func RemoveByID(tasks []*Task, id string) ([]*Task, bool) {
	for i, t := range tasks {
		if t.ID == id {
			return append(tasks[:i], tasks[i+1:]...), true
		}
	}
	for _, t := range tasks {
		if removeNested(t, id) {
			return tasks, true
		}
	}
	return tasks, false
}

func removeNested(t *Task, id string) bool {
	if t.RemoveSubtask(id) {
		return true
	}
	for _, child := range t.Subtasks {
		if removeNested(child, id) {
			return true
		}
	}
	return false
}

// Flatten returns the forest as a single pre-order slice, subtasks
// following their parent.
func Flatten(tasks []*Task) []*Task {
	var out []*Task
	for _, t := range tasks {
		t.Walk(func(n *Task, _ int) bool {
			out = append(out, n)
			return true
		})
	}
	return out
}

// Count returns the number of tasks in the forest, nested included.
func Count(tasks []*Task) int {
	total := 0
	for _, t := range tasks {
		t.Walk(func(*Task, int) bool {
			total++
			return true
		})
	}
	return total
}

// CountByStatus tallies every task in the forest by status.
func CountByStatus(tasks []*Task) map[Status]int {
	counts := make(map[Status]int)
	for _, t := range tasks {
		t.Walk(func(n *Task, _ int) bool {
			counts[n.Status]++
			return true
		})
	}
	return counts
}

// Overdue returns every task in the forest that is past due and not done.
func Overdue(tasks []*Task, now time.Time) []*Task {
	var out []*Task
	for _, t := range tasks {
		t.Walk(func(n *Task, _ int) bool {
			if n.IsOverdue(now) {
				out = append(out, n)
			}
			return true
		})
	}
	return out
}

// FilterByStatus returns the top-level tasks with the given status.
// Subtask order is user-curated, so filtering applies to roots only.
func FilterByStatus(tasks []*Task, s Status) []*Task {
	var out []*Task
	for _, t := range tasks {
		if t.Status == s {
			out = append(out, t)
		}
	}
	return out
}

// FilterByTag returns the top-level tasks carrying the given tag.
func FilterByTag(tasks []*Task, tag string) []*Task {
	var out []*Task
	for _, t := range tasks {
		if t.HasTag(tag) {
			out = append(out, t)
		}
	}
	return out
}

// Search returns every task in the forest whose content or notes contain
// query, case-insensitive.
func Search(tasks []*Task, query string) []*Task {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	var out []*Task
	for _, t := range tasks {
		t.Walk(func(n *Task, _ int) bool {
			if strings.Contains(strings.ToLower(n.Content), query) ||
				strings.Contains(strings.ToLower(n.Notes), query) {
				out = append(out, n)
			}
			return true
		})
	}
	return out
}

// SortBy orders the top-level tasks in place. Fields: "priority" (urgent
// first), "due" (earliest first, undated last), "created" (oldest first).
// The sort is stable so equal tasks keep their relative order.
func SortBy(tasks []*Task, field string) error {
	switch field {
	case "priority":
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].Priority.Rank() > tasks[j].Priority.Rank()
		})
	case "due":
		sort.SliceStable(tasks, func(i, j int) bool {
			a, b := tasks[i].DueDate, tasks[j].DueDate
			switch {
			case a == nil:
				return false
			case b == nil:
				return true
			default:
				return a.Before(*b)
			}
		})
	case "created":
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		})
	default:
		return fmt.Errorf("invalid sort field %q, must be one of: priority, due, created", field)
	}
	return nil
}
