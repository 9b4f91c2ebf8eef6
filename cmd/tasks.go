package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Dan7h3x/LazyDo/internal/task"
	"github.com/Dan7h3x/LazyDo/internal/utils"
)

// add creates a task, optionally nested under a parent.
func (a *app) add(args []string) error {
	fs := flag.NewFlagSet("lazydo add", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	prio := fs.String("p", "", "Priority (low|medium|high|urgent)")
	due := fs.String("due", "", "Due date (YYYY-MM-DD, RFC 3339, today, tomorrow, 3d, 2w)")
	parent := fs.String("parent", "", "Parent task id")
	tags := fs.String("tags", "", "Comma-separated tags")
	notes := fs.String("notes", "", "Notes")
	recur := fs.String("recur", "", "Recurrence (daily|weekly|monthly|<n>d)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	content := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if content == "" {
		return errors.New("add needs task content")
	}

	t := task.New(content)
	if *prio != "" {
		p, err := task.ParsePriority(*prio)
		if err != nil {
			return err
		}
		if err := t.SetPriority(p); err != nil {
			return err
		}
	}
	if *due != "" {
		d, err := parseDueDate(*due)
		if err != nil {
			return err
		}
		t.SetDueDate(&d)
	}
	if *notes != "" {
		t.SetNotes(*notes)
	}
	for _, tg := range utils.SplitAndTrim(*tags, ",") {
		t.AddTag(tg)
	}
	if *recur != "" {
		r, err := task.ParseRecurrence(*recur)
		if err != nil {
			return err
		}
		if err := t.SetRecurrence(r); err != nil {
			return err
		}
	}

	s, tasks, err := a.loaded()
	if err != nil {
		return err
	}
	if *parent != "" {
		p, err := findOne(tasks, *parent)
		if err != nil {
			return err
		}
		p.AddSubtask(t)
	} else {
		tasks = append(tasks, t)
	}
	if err := s.Save(tasks); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "added %s  %s\n", shortID(t.ID), t.Content)
	return nil
}

// list prints the task tree, optionally filtered.
func (a *app) list(args []string) error {
	fs := flag.NewFlagSet("lazydo list", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	statusFlag := fs.String("status", "", "Filter by status (pending|in_progress|blocked|done)")
	tagFlag := fs.String("tag", "", "Filter by tag")
	query := fs.String("q", "", "Search content and notes")
	sortFlag := fs.String("sort", "", "Sort by priority|due|created")
	verbose := fs.Bool("v", false, "Show notes")

	if err := fs.Parse(args); err != nil {
		return err
	}

	_, tasks, err := a.loaded()
	if err != nil {
		return err
	}

	if *statusFlag != "" {
		st, err := task.ParseStatus(*statusFlag)
		if err != nil {
			return err
		}
		tasks = task.FilterByStatus(tasks, st)
	}
	if *tagFlag != "" {
		tasks = task.FilterByTag(tasks, *tagFlag)
	}
	if *query != "" {
		tasks = task.Search(tasks, *query)
	}
	if *sortFlag != "" {
		if err := task.SortBy(tasks, *sortFlag); err != nil {
			return err
		}
	}

	if len(tasks) == 0 {
		fmt.Fprintln(a.stdout, "No tasks.")
		return nil
	}
	writeTaskTree(a.stdout, tasks, *verbose)

	counts := task.CountByStatus(tasks)
	fmt.Fprintf(a.stdout, "\n%d tasks, %d done, %d in progress, %d blocked\n",
		task.Count(tasks), counts[task.StatusDone], counts[task.StatusInProgress], counts[task.StatusBlocked])
	return nil
}

// mark sets the status of one or more tasks by id prefix.
func (a *app) mark(args []string, status task.Status) error {
	if len(args) == 0 {
		return errors.New("need at least one task id")
	}
	s, tasks, err := a.loaded()
	if err != nil {
		return err
	}
	for _, prefix := range args {
		t, err := findOne(tasks, prefix)
		if err != nil {
			return err
		}
		if err := t.SetStatus(status); err != nil {
			return err
		}
		if status == task.StatusDone && t.Recurrence != nil && t.Status == task.StatusPending {
			fmt.Fprintf(a.stdout, "%s rescheduled for %s\n", shortID(t.ID), t.DueDate.Format("2006-01-02"))
			continue
		}
		fmt.Fprintf(a.stdout, "%s is now %s\n", shortID(t.ID), t.Status)
	}
	return s.Save(tasks)
}

// pri sets a task's priority, or nudges it a step with up/down.
func (a *app) pri(args []string) error {
	if len(args) != 2 {
		return errors.New("pri needs: <id> <low|medium|high|urgent|up|down>")
	}
	s, tasks, err := a.loaded()
	if err != nil {
		return err
	}
	t, err := findOne(tasks, args[0])
	if err != nil {
		return err
	}
	switch strings.ToLower(args[1]) {
	case "up":
		t.AdjustPriority(1)
	case "down":
		t.AdjustPriority(-1)
	default:
		p, err := task.ParsePriority(args[1])
		if err != nil {
			return err
		}
		if err := t.SetPriority(p); err != nil {
			return err
		}
	}
	fmt.Fprintf(a.stdout, "%s is now %s priority\n", shortID(t.ID), t.Priority)
	return s.Save(tasks)
}

// toggle cycles a single task through its statuses.
func (a *app) toggle(args []string) error {
	if len(args) != 1 {
		return errors.New("toggle needs exactly one task id")
	}
	s, tasks, err := a.loaded()
	if err != nil {
		return err
	}
	t, err := findOne(tasks, args[0])
	if err != nil {
		return err
	}
	t.ToggleStatus()
	fmt.Fprintf(a.stdout, "%s is now %s\n", shortID(t.ID), t.Status)
	return s.Save(tasks)
}

// remove deletes tasks by id prefix, wherever they sit in the tree.
func (a *app) remove(args []string) error {
	if len(args) == 0 {
		return errors.New("need at least one task id")
	}
	s, tasks, err := a.loaded()
	if err != nil {
		return err
	}
	for _, prefix := range args {
		t, err := findOne(tasks, prefix)
		if err != nil {
			return err
		}
		var removed bool
		tasks, removed = task.RemoveByID(tasks, t.ID)
		if !removed {
			return fmt.Errorf("task %s not found", shortID(t.ID))
		}
		fmt.Fprintf(a.stdout, "removed %s  %s\n", shortID(t.ID), t.Content)
	}
	return s.Save(tasks)
}

// note sets a task's notes; with no text it clears them.
func (a *app) note(args []string) error {
	if len(args) == 0 {
		return errors.New("note needs a task id")
	}
	s, tasks, err := a.loaded()
	if err != nil {
		return err
	}
	t, err := findOne(tasks, args[0])
	if err != nil {
		return err
	}
	text := strings.TrimSpace(strings.Join(args[1:], " "))
	t.SetNotes(text)
	if text == "" {
		fmt.Fprintf(a.stdout, "cleared notes on %s\n", shortID(t.ID))
	} else {
		fmt.Fprintf(a.stdout, "noted %s\n", shortID(t.ID))
	}
	return s.Save(tasks)
}

// tag adds or removes a tag on a task.
func (a *app) tag(args []string) error {
	fs := flag.NewFlagSet("lazydo tag", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	remove := fs.Bool("rm", false, "Remove the tag instead of adding it")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) != 2 {
		return errors.New("tag needs a task id and a tag")
	}
	s, tasks, err := a.loaded()
	if err != nil {
		return err
	}
	t, err := findOne(tasks, rest[0])
	if err != nil {
		return err
	}
	name := rest[1]
	if *remove {
		if t.RemoveTag(name) {
			fmt.Fprintf(a.stdout, "untagged %s #%s\n", shortID(t.ID), name)
		} else {
			fmt.Fprintf(a.stdout, "%s has no tag #%s\n", shortID(t.ID), name)
		}
	} else {
		t.AddTag(name)
		fmt.Fprintf(a.stdout, "tagged %s #%s\n", shortID(t.ID), name)
	}
	return s.Save(tasks)
}

// relate links two tasks and records the inverse relation on the target.
func (a *app) relate(args []string) error {
	if len(args) != 3 {
		return errors.New("relate needs: <id> <kind> <target id>")
	}
	s, tasks, err := a.loaded()
	if err != nil {
		return err
	}
	src, err := findOne(tasks, args[0])
	if err != nil {
		return err
	}
	kind, err := task.ParseRelationKind(args[1])
	if err != nil {
		return err
	}
	tgt, err := findOne(tasks, args[2])
	if err != nil {
		return err
	}
	if src.ID == tgt.ID {
		return errors.New("a task cannot relate to itself")
	}
	if err := src.Relate(tgt.ID, kind); err != nil {
		return err
	}
	if err := tgt.Relate(src.ID, kind.Inverse()); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "%s %s %s\n", shortID(src.ID), kind, shortID(tgt.ID))
	return s.Save(tasks)
}

// findOne resolves an id prefix to exactly one task.
func findOne(tasks []*task.Task, prefix string) (*task.Task, error) {
	matches := task.FindByPrefix(tasks, prefix)
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no task matches %q", prefix)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("id %q is ambiguous, %d tasks match", prefix, len(matches))
	}
}

// shortID trims a task id down to the prefix shown in listings.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func statusIcon(s task.Status) string {
	switch s {
	case task.StatusInProgress:
		return ">"
	case task.StatusBlocked:
		return "!"
	case task.StatusDone:
		return "x"
	default:
		return " "
	}
}

// parseDueDate accepts a plain date, a full RFC 3339 timestamp, or the
// shorthands "today", "tomorrow", and day/week offsets like "3d" or "2w".
func parseDueDate(s string) (time.Time, error) {
	if d, err := time.Parse("2006-01-02", s); err == nil {
		return d.UTC(), nil
	}
	if d, err := time.Parse(time.RFC3339, s); err == nil {
		return d.UTC(), nil
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	norm := strings.ToLower(strings.TrimSpace(s))
	switch norm {
	case "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	}
	if len(norm) > 1 && (strings.HasSuffix(norm, "d") || strings.HasSuffix(norm, "w")) {
		if n, err := strconv.Atoi(norm[:len(norm)-1]); err == nil && n >= 0 {
			days := n
			if strings.HasSuffix(norm, "w") {
				days = 7 * n
			}
			return today.AddDate(0, 0, days), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid due date %q, use YYYY-MM-DD, RFC 3339, today, tomorrow, or an offset like 3d", s)
}

func writeTaskTree(w io.Writer, tasks []*task.Task, verbose bool) {
	now := time.Now().UTC()
	for _, t := range tasks {
		t.Walk(func(n *task.Task, depth int) bool {
			writeTaskLine(w, n, depth, verbose, now)
			return true
		})
	}
}

func writeTaskLine(w io.Writer, t *task.Task, depth int, verbose bool, now time.Time) {
	indent := strings.Repeat("  ", depth)
	line := fmt.Sprintf("%s[%s] %s (%s) %s", indent, statusIcon(t.Status), shortID(t.ID), t.Priority, t.Content)
	if len(t.Subtasks) > 0 {
		done, total := t.Progress()
		line += fmt.Sprintf(" %d/%d", done, total)
	}
	for _, tag := range t.Tags {
		line += " #" + tag
	}
	if t.DueDate != nil {
		line += " due " + t.DueDate.Format("2006-01-02")
		if t.IsOverdue(now) {
			line += "!"
		}
	}
	if t.Recurrence != nil {
		line += " repeats " + t.Recurrence.String()
	}
	fmt.Fprintln(w, line)
	if verbose && t.Notes != "" {
		fmt.Fprintf(w, "%s      %s\n", indent, t.Notes)
	}
}
