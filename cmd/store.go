package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Dan7h3x/LazyDo/internal/config"
	"github.com/Dan7h3x/LazyDo/internal/storage"
)

// status prints where tasks live and how the store is doing.
func (a *app) status(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	s, _, err := a.loaded()
	if err != nil {
		return err
	}
	info := s.Status()

	fmt.Fprintf(a.stdout, "Store:       %s\n", info.Label)
	fmt.Fprintf(a.stdout, "Path:        %s\n", info.Path)
	if !info.Exists {
		fmt.Fprintln(a.stdout, "File:        not created yet")
	}
	fmt.Fprintf(a.stdout, "Tasks:       %d (%d done)\n", info.TaskCount, info.DoneCount)
	fmt.Fprintf(a.stdout, "Auto backup: %s\n", onOff(info.AutoBackup))
	fmt.Fprintf(a.stdout, "Backups:     %d\n", info.BackupCount)
	fmt.Fprintf(a.stdout, "Compression: %s\n", onOff(info.Compression))
	fmt.Fprintf(a.stdout, "Obfuscation: %s\n", onOff(info.Encryption))
	if info.Skipped > 0 {
		fmt.Fprintf(a.stdout, "Skipped:     %d unreadable tasks dropped on load\n", info.Skipped)
	}
	if info.LoadedFrom == storage.LoadedBackup {
		fmt.Fprintln(a.stdout, "Note:        task file was unreadable, recovered from a backup")
	}
	if !info.LastSave.IsZero() {
		fmt.Fprintf(a.stdout, "Last save:   %s\n", info.LastSave.Format("2006-01-02 15:04:05"))
	}
	if info.LastError != nil {
		fmt.Fprintf(a.stdout, "Last error:  %v\n", info.LastError)
	}
	return nil
}

// mode shows the active store or switches to another one.
func (a *app) mode(args []string) error {
	s, err := a.open()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		fmt.Fprintf(a.stdout, "Active store: %s\n", s.Scope().Label())
		candidates := s.Resolver().DetectCandidates(a.cfg.ProjectRoot)
		fmt.Fprintln(a.stdout)
		fmt.Fprintln(a.stdout, "Available:")
		for _, c := range candidates {
			marker := " "
			if c.Path == s.Scope().Path {
				marker = "*"
			}
			fmt.Fprintf(a.stdout, "  %s %-28s %s\n", marker, c.Label(), c.Path)
		}
		return nil
	}

	target := args[0]
	if target == "toggle" {
		// Empty target flips between the global and project stores.
		target = ""
	}
	scope, err := s.ToggleMode(target)
	if err != nil {
		if errors.Is(err, storage.ErrAborted) {
			fmt.Fprintln(a.stdout, "cancelled")
			return nil
		}
		return err
	}
	fmt.Fprintf(a.stdout, "switched to %s (%d tasks)\n", scope.Label(), len(s.Tasks()))
	return nil
}

// backup snapshots the active store right now.
func (a *app) backup(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	s, err := a.open()
	if err != nil {
		return err
	}
	path, err := s.BackupNow()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "backup written: %s\n", filepath.Base(path))
	return nil
}

// listBackups shows the rotation for the active store, newest first.
func (a *app) listBackups(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	s, err := a.open()
	if err != nil {
		return err
	}
	backups, err := s.ListBackups()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		fmt.Fprintln(a.stdout, "No backups.")
		return nil
	}
	for _, b := range backups {
		fmt.Fprintf(a.stdout, "%s  %s\n", b.At.Format("2006-01-02 15:04:05"), filepath.Base(b.Path))
	}
	return nil
}

// restore replaces the task file with a backup and reloads. With no
// argument the newest backup is used; a bare file name is resolved next
// to the task file.
func (a *app) restore(args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("unexpected arguments: %v", args[1:])
	}
	s, err := a.open()
	if err != nil {
		return err
	}

	var target string
	if len(args) == 0 || args[0] == "latest" {
		backups, err := s.ListBackups()
		if err != nil {
			return err
		}
		if len(backups) == 0 {
			return errors.New("no backups to restore")
		}
		target = backups[0].Path
	} else {
		target = args[0]
		if !strings.ContainsRune(target, filepath.Separator) {
			target = filepath.Join(filepath.Dir(s.Scope().Path), target)
		}
	}

	if err := s.RestoreBackup(target); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "restored %s (%d tasks)\n", filepath.Base(target), len(s.Tasks()))
	return nil
}

// showConfig prints a commented example configuration.
func (a *app) showConfig(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	fmt.Fprint(a.stdout, config.ExampleConfig())
	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
