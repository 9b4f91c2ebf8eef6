package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// backupTimeFormat is the timestamp embedded in backup filenames.
const backupTimeFormat = "20060102150405"

// Backup is one rotated copy of a task file.
type Backup struct {
	Path string
	At   time.Time

	seq int
}

// Backups creates and rotates verbatim copies of a task file. Copies keep
// whatever encoding the file was written with; restore feeds them back
// through the same codec path as the primary file.
type Backups struct {
	// Retain is how many backups to keep per task file. Zero keeps all.
	Retain int
}

// Create copies the task file at path to a timestamped sibling named
// {base}.backup.{timestamp}.json. A missing source file is not an error;
// the returned path is empty in that case. Collisions within one second
// get a numeric suffix.
func (b Backups) Create(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read task file for backup: %w", err)
	}

	now := time.Now().UTC()
	for seq := 0; seq < 10; seq++ {
		target := backupName(path, now, seq)
		if _, err := os.Stat(target); err == nil {
			continue
		}
		if err := writeFileAtomic(target, data, 0o644); err != nil {
			return "", fmt.Errorf("write backup: %w", err)
		}
		return target, nil
	}
	return "", fmt.Errorf("too many backups for %s within one second", filepath.Base(path))
}

// List returns the backups for a task file, newest first.
func (b Backups) List(path string) ([]Backup, error) {
	dir := filepath.Dir(path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read backup dir: %w", err)
	}

	base := backupBase(path)
	var backups []Backup
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		at, seq, ok := parseBackupName(base, e.Name())
		if !ok {
			continue
		}
		backups = append(backups, Backup{
			Path: filepath.Join(dir, e.Name()),
			At:   at,
			seq:  seq,
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		if !backups[i].At.Equal(backups[j].At) {
			return backups[i].At.After(backups[j].At)
		}
		return backups[i].seq > backups[j].seq
	})
	return backups, nil
}

// Latest returns the newest backup path for a task file.
func (b Backups) Latest(path string) (string, bool) {
	backups, err := b.List(path)
	if err != nil || len(backups) == 0 {
		return "", false
	}
	return backups[0].Path, true
}

// Restore copies backupPath over the task file, taking a safety backup of
// the current file first.
func (b Backups) Restore(path, backupPath string) error {
	data, err := os.ReadFile(backupPath)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}
	if _, err := b.Create(path); err != nil {
		return fmt.Errorf("backup current file before restore: %w", err)
	}
	if err := writeFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("restore backup: %w", err)
	}
	return nil
}

// Prune removes backups beyond the retention count, oldest first.
func (b Backups) Prune(path string) (removed int, err error) {
	if b.Retain <= 0 {
		return 0, nil
	}
	backups, err := b.List(path)
	if err != nil {
		return 0, err
	}
	for _, old := range backups[min(b.Retain, len(backups)):] {
		if err := os.Remove(old.Path); err != nil {
			return removed, fmt.Errorf("remove old backup: %w", err)
		}
		removed++
	}
	return removed, nil
}

// backupBase strips the .json extension for use in backup names, so
// tasks.json yields tasks.backup.{timestamp}.json.
func backupBase(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".json")
}

func backupName(path string, at time.Time, seq int) string {
	name := fmt.Sprintf("%s.backup.%s", backupBase(path), at.Format(backupTimeFormat))
	if seq > 0 {
		name += "-" + strconv.Itoa(seq)
	}
	return filepath.Join(filepath.Dir(path), name+".json")
}

// parseBackupName extracts the timestamp and sequence from a backup
// filename. Names that do not match the scheme report ok false.
func parseBackupName(base, name string) (at time.Time, seq int, ok bool) {
	rest, found := strings.CutPrefix(name, base+".backup.")
	if !found {
		return time.Time{}, 0, false
	}
	rest, found = strings.CutSuffix(rest, ".json")
	if !found {
		return time.Time{}, 0, false
	}
	if ts, seqStr, split := strings.Cut(rest, "-"); split {
		n, err := strconv.Atoi(seqStr)
		if err != nil {
			return time.Time{}, 0, false
		}
		rest = ts
		seq = n
	}
	at, err := time.ParseInLocation(backupTimeFormat, rest, time.UTC)
	if err != nil {
		return time.Time{}, 0, false
	}
	return at, seq, true
}
