package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStatusCommand(t *testing.T) {
	t.Run("reports the store state", func(t *testing.T) {
		isolate(t)
		addTask(t, "alpha")
		id := addTask(t, "beta")
		if _, _, err := runCLI(t, "done", id); err != nil {
			t.Fatalf("done error = %v", err)
		}

		out, _, err := runCLI(t, "status")
		if err != nil {
			t.Fatalf("status error = %v", err)
		}
		for _, want := range []string{
			"global",
			"2 (1 done)",
			"Auto backup: off",
			"Compression: off",
			"Obfuscation: off",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("status output missing %q:\n%s", want, out)
			}
		}
		if strings.Contains(out, "not created yet") {
			t.Errorf("status claims no file after a save:\n%s", out)
		}
	})

	t.Run("flags a store with no file yet", func(t *testing.T) {
		isolate(t)
		out, _, err := runCLI(t, "status")
		if err != nil {
			t.Fatalf("status error = %v", err)
		}
		if !strings.Contains(out, "not created yet") {
			t.Errorf("status output missing the missing-file note:\n%s", out)
		}
		if !strings.Contains(out, "0 (0 done)") {
			t.Errorf("status output:\n%s", out)
		}
	})

	t.Run("reflects codec settings", func(t *testing.T) {
		isolate(t)
		t.Setenv("LAZYDO_COMPRESSION", "true")
		t.Setenv("LAZYDO_ENCRYPTION", "true")
		addTask(t, "alpha")

		out, _, err := runCLI(t, "status")
		if err != nil {
			t.Fatalf("status error = %v", err)
		}
		if !strings.Contains(out, "Compression: on") || !strings.Contains(out, "Obfuscation: on") {
			t.Errorf("status output:\n%s", out)
		}
	})

	t.Run("rejects extra arguments", func(t *testing.T) {
		isolate(t)
		if _, _, err := runCLI(t, "status", "extra"); err == nil {
			t.Error("expected error for extra arguments")
		}
	})
}

func TestModeCommand(t *testing.T) {
	t.Run("shows the active store and candidates", func(t *testing.T) {
		isolate(t)
		out, _, err := runCLI(t, "mode")
		if err != nil {
			t.Fatalf("mode error = %v", err)
		}
		if !strings.Contains(out, "Active store: global") {
			t.Errorf("output missing active store:\n%s", out)
		}
		if !strings.Contains(out, "Available:") || !strings.Contains(out, "* global") {
			t.Errorf("output missing candidate list:\n%s", out)
		}
	})

	t.Run("switches to a custom store", func(t *testing.T) {
		isolate(t)
		out, _, err := runCLI(t, "mode", "custom:sprint")
		if err != nil {
			t.Fatalf("mode error = %v", err)
		}
		if !strings.Contains(out, "switched to custom:sprint (0 tasks)") {
			t.Errorf("output = %q", out)
		}
	})

	t.Run("switches to the project store", func(t *testing.T) {
		tmp := isolate(t)
		if err := os.MkdirAll(filepath.Join(tmp, ".lazydo"), 0o755); err != nil {
			t.Fatal(err)
		}

		out, _, err := runCLI(t, "mode", "project")
		if err != nil {
			t.Fatalf("mode error = %v", err)
		}
		if !strings.Contains(out, "switched to project (") {
			t.Errorf("output = %q", out)
		}
	})

	t.Run("errors when no project exists", func(t *testing.T) {
		isolate(t)
		_, _, err := runCLI(t, "mode", "project")
		if err == nil || !strings.Contains(err.Error(), "no project") {
			t.Errorf("expected no-project error, got %v", err)
		}
	})

	t.Run("toggle flips toward the project store", func(t *testing.T) {
		isolate(t)
		// Starting global with no project around, the flip has nowhere
		// to land.
		_, _, err := runCLI(t, "mode", "toggle")
		if err == nil || !strings.Contains(err.Error(), "no project") {
			t.Errorf("expected no-project error, got %v", err)
		}
	})

	t.Run("auto picks the only candidate without prompting", func(t *testing.T) {
		isolate(t)
		out, _, err := runCLI(t, "mode", "auto")
		if err != nil {
			t.Fatalf("mode error = %v", err)
		}
		if !strings.Contains(out, "switched to global") {
			t.Errorf("output = %q", out)
		}
	})

	t.Run("rejects garbage targets", func(t *testing.T) {
		isolate(t)
		_, _, err := runCLI(t, "mode", "frotz")
		if err == nil || !strings.Contains(err.Error(), "invalid mode") {
			t.Errorf("expected invalid mode error, got %v", err)
		}
	})
}

func TestBackupCommands(t *testing.T) {
	t.Run("backup requires a task file", func(t *testing.T) {
		isolate(t)
		_, _, err := runCLI(t, "backup")
		if err == nil || !strings.Contains(err.Error(), "nothing to back up") {
			t.Errorf("expected missing-file error, got %v", err)
		}
	})

	t.Run("backup and restore round trip", func(t *testing.T) {
		isolate(t)
		addTask(t, "first draft")

		out, _, err := runCLI(t, "backup")
		if err != nil {
			t.Fatalf("backup error = %v", err)
		}
		if !strings.Contains(out, "backup written: tasks.backup.") {
			t.Errorf("backup output = %q", out)
		}

		listing, _, err := runCLI(t, "backups")
		if err != nil {
			t.Fatalf("backups error = %v", err)
		}
		if !strings.Contains(listing, "tasks.backup.") {
			t.Errorf("backups output = %q", listing)
		}

		addTask(t, "second draft")

		out, _, err = runCLI(t, "restore")
		if err != nil {
			t.Fatalf("restore error = %v", err)
		}
		if !strings.Contains(out, "restored tasks.backup.") || !strings.Contains(out, "(1 tasks)") {
			t.Errorf("restore output = %q", out)
		}

		listing, _, err = runCLI(t, "list")
		if err != nil {
			t.Fatalf("list error = %v", err)
		}
		if !strings.Contains(listing, "first draft") || strings.Contains(listing, "second draft") {
			t.Errorf("listing after restore:\n%s", listing)
		}
	})

	t.Run("restore accepts a bare backup name", func(t *testing.T) {
		isolate(t)
		addTask(t, "first draft")
		if _, _, err := runCLI(t, "backup"); err != nil {
			t.Fatalf("backup error = %v", err)
		}

		listing, _, err := runCLI(t, "backups")
		if err != nil {
			t.Fatalf("backups error = %v", err)
		}
		fields := strings.Fields(listing)
		if len(fields) < 3 {
			t.Fatalf("backups output = %q", listing)
		}
		name := fields[2]

		out, _, err := runCLI(t, "restore", name)
		if err != nil {
			t.Fatalf("restore error = %v", err)
		}
		if !strings.Contains(out, "restored "+name) {
			t.Errorf("restore output = %q", out)
		}
	})

	t.Run("restore with no backups errors", func(t *testing.T) {
		isolate(t)
		_, _, err := runCLI(t, "restore")
		if err == nil || !strings.Contains(err.Error(), "no backups") {
			t.Errorf("expected no-backups error, got %v", err)
		}
	})

	t.Run("backups reports an empty rotation", func(t *testing.T) {
		isolate(t)
		out, _, err := runCLI(t, "backups")
		if err != nil {
			t.Fatalf("backups error = %v", err)
		}
		if !strings.Contains(out, "No backups.") {
			t.Errorf("output = %q", out)
		}
	})
}

func TestConfigCommand(t *testing.T) {
	isolate(t)
	out, _, err := runCLI(t, "config")
	if err != nil {
		t.Fatalf("config error = %v", err)
	}
	for _, want := range []string{"[storage]", "[log]", "save_debounce", "max_backups"} {
		if !strings.Contains(out, want) {
			t.Errorf("example config missing %q", want)
		}
	}
}
