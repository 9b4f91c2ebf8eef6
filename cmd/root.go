// Package cmd implements the CLI command structure for lazydo.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/Dan7h3x/LazyDo/internal/config"
	"github.com/Dan7h3x/LazyDo/internal/logging"
	"github.com/Dan7h3x/LazyDo/internal/storage"
	"github.com/Dan7h3x/LazyDo/internal/task"
	"github.com/Dan7h3x/LazyDo/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the lazydo CLI.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("lazydo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand(stdout)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := logging.NewFromConfig(stderr, cfg.Log.Level, cfg.Log.Format)

	// Determine the subcommand; bare invocation lists tasks.
	subcommand := "list"
	rest := fs.Args()
	if len(rest) > 0 && !strings.HasPrefix(rest[0], "-") {
		subcommand = rest[0]
		rest = rest[1:]
	}

	a := &app{cfg: cfg, logger: logger, stdout: stdout, stderr: stderr}

	switch subcommand {
	case "add":
		return a.add(rest)
	case "list", "ls":
		return a.list(rest)
	case "done":
		return a.mark(rest, task.StatusDone)
	case "start":
		return a.mark(rest, task.StatusInProgress)
	case "block":
		return a.mark(rest, task.StatusBlocked)
	case "toggle":
		return a.toggle(rest)
	case "pri":
		return a.pri(rest)
	case "rm":
		return a.remove(rest)
	case "note":
		return a.note(rest)
	case "tag":
		return a.tag(rest)
	case "relate":
		return a.relate(rest)
	case "status":
		return a.status(rest)
	case "mode":
		return a.mode(rest)
	case "backup":
		return a.backup(rest)
	case "backups":
		return a.listBackups(rest)
	case "restore":
		return a.restore(rest)
	case "config":
		return a.showConfig(rest)
	case "version", "--version", "-v":
		return versionCommand(stdout)
	case "help", "--help", "-h":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// app carries the pieces every subcommand needs.
type app struct {
	cfg    *config.Config
	logger *log.Logger
	stdout io.Writer
	stderr io.Writer
}

// open builds the storage with the interactive scope picker attached.
func (a *app) open() (*storage.Storage, error) {
	picker := &ui.ScopePicker{Out: a.stdout}
	return storage.New(a.cfg, a.logger, storage.WithSelector(picker))
}

// loaded opens the storage and loads the active scope in one step.
func (a *app) loaded() (*storage.Storage, []*task.Task, error) {
	s, err := a.open()
	if err != nil {
		return nil, nil, err
	}
	tasks, err := s.Load()
	if err != nil {
		return nil, nil, err
	}
	return s, tasks, nil
}

// versionCommand prints version information.
func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "lazydo version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "LazyDo - hierarchical tasks that live where your code lives")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  lazydo [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  add <content>        Add a task")
	fmt.Fprintln(w, "  list                 List tasks (default command)")
	fmt.Fprintln(w, "  done <id>...         Mark tasks done (recurring tasks reschedule)")
	fmt.Fprintln(w, "  start <id>...        Mark tasks in progress")
	fmt.Fprintln(w, "  block <id>...        Mark tasks blocked")
	fmt.Fprintln(w, "  toggle <id>          Cycle a task's status")
	fmt.Fprintln(w, "  pri <id> <level>     Set priority (low|medium|high|urgent|up|down)")
	fmt.Fprintln(w, "  rm <id>...           Remove tasks")
	fmt.Fprintln(w, "  note <id> [text]     Set or clear a task's notes")
	fmt.Fprintln(w, "  tag <id> <tag>       Add a tag (-rm removes it)")
	fmt.Fprintln(w, "  relate <id> <kind> <target>  Link two tasks")
	fmt.Fprintln(w, "  status               Show the active store")
	fmt.Fprintln(w, "  mode [target]        Show or switch the active store")
	fmt.Fprintln(w, "                       (toggle | global | project | custom[:name] | auto)")
	fmt.Fprintln(w, "  backup               Snapshot the task file now")
	fmt.Fprintln(w, "  backups              List backups of the active store")
	fmt.Fprintln(w, "  restore [backup]     Restore a backup (default: the newest)")
	fmt.Fprintln(w, "  config               Print an example configuration file")
	fmt.Fprintln(w, "  version              Show version information")
	fmt.Fprintln(w, "  help                 Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Add Options (use with 'add'):")
	fmt.Fprintln(w, "  -p string")
	fmt.Fprintln(w, "        Priority (low|medium|high|urgent)")
	fmt.Fprintln(w, "  -due string")
	fmt.Fprintln(w, "        Due date (YYYY-MM-DD, RFC 3339, today, tomorrow, 3d, 2w)")
	fmt.Fprintln(w, "  -parent string")
	fmt.Fprintln(w, "        Parent task id")
	fmt.Fprintln(w, "  -tags string")
	fmt.Fprintln(w, "        Comma-separated tags")
	fmt.Fprintln(w, "  -notes string")
	fmt.Fprintln(w, "        Notes")
	fmt.Fprintln(w, "  -recur string")
	fmt.Fprintln(w, "        Recurrence (daily|weekly|monthly|<n>d)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List Options (use with 'list'):")
	fmt.Fprintln(w, "  -status string")
	fmt.Fprintln(w, "        Filter by status (pending|in_progress|blocked|done)")
	fmt.Fprintln(w, "  -tag string")
	fmt.Fprintln(w, "        Filter by tag")
	fmt.Fprintln(w, "  -q string")
	fmt.Fprintln(w, "        Search content and notes")
	fmt.Fprintln(w, "  -sort string")
	fmt.Fprintln(w, "        Sort by priority|due|created")
	fmt.Fprintln(w, "  -v    Show notes")
}
