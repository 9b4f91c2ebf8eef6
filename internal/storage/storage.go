package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Dan7h3x/LazyDo/internal/config"
	"github.com/Dan7h3x/LazyDo/internal/logging"
	"github.com/Dan7h3x/LazyDo/internal/task"
)

// Where the last successful load got its data from, for Status.
const (
	LoadedFile   = "file"
	LoadedBackup = "backup"
	LoadedEmpty  = "empty"
)

// Storage owns the on-disk task file: where it lives, how it is encoded,
// and when it gets written. All exported methods are safe for concurrent
// use, but the task forest itself is handed out live: Load and Tasks
// return the working set without copying, on the assumption that a single
// owner mutates it and passes it back to Save.
type Storage struct {
	cfg      *config.Config
	logger   *log.Logger
	resolver *Resolver
	codec    Codec
	backups  Backups
	selector Selector
	onUpdate func([]*task.Task)
	now      func() time.Time

	mu          sync.Mutex
	scope       Scope
	tasks       []*task.Task
	deb         *debouncer
	dirty       bool
	lastSave    time.Time
	lastLoad    time.Time
	lastError   error
	skipped     int
	loadedFrom  string
	initialized bool
}

// Option tweaks a Storage under construction.
type Option func(*Storage)

// WithSelector installs the interactive chooser ToggleMode falls back on
// when the target is ambiguous.
func WithSelector(sel Selector) Option {
	return func(s *Storage) { s.selector = sel }
}

// WithOnUpdate registers a callback fired with the new working set after
// every load and mode switch. It runs outside the storage lock.
func WithOnUpdate(fn func([]*task.Task)) Option {
	return func(s *Storage) { s.onUpdate = fn }
}

// WithClock overrides the time source used for document and status
// timestamps. Tests use it to pin time.
func WithClock(now func() time.Time) Option {
	return func(s *Storage) { s.now = now }
}

// New builds a Storage from cfg. A nil logger silences all logging. The
// initial scope follows the configured project mode; nothing is read from
// disk until Load.
func New(cfg *config.Config, logger *log.Logger, opts ...Option) (*Storage, error) {
	if cfg == nil {
		return nil, errors.New("storage: nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	s := &Storage{
		cfg:      cfg,
		logger:   logger,
		resolver: NewResolver(cfg),
		codec: Codec{
			Compress:  cfg.Storage.Compression,
			Obfuscate: cfg.Storage.Encryption,
		},
		backups: Backups{Retain: cfg.Storage.MaxBackups},
		now:     time.Now,
		tasks:   []*task.Task{},
	}
	for _, opt := range opts {
		opt(s)
	}

	if cfg.Storage.ProjectMode {
		s.scope = s.resolver.Resolve(cfg.ProjectRoot)
	} else {
		s.scope = s.resolver.GlobalScope()
	}
	s.deb = newDebouncer(cfg.SaveDebounce(), s.saveSnapshot)
	s.initialized = true
	return s, nil
}

func (s *Storage) ensureInit() {
	if !s.initialized {
		panic("storage: not initialized, use New")
	}
}

// Scope returns the scope currently backing the store.
func (s *Storage) Scope() Scope {
	s.ensureInit()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scope
}

// Tasks returns the in-memory working set from the last load or save.
func (s *Storage) Tasks() []*task.Task {
	s.ensureInit()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks
}

// Resolver exposes the path resolver, mainly so front ends can show
// candidate stores.
func (s *Storage) Resolver() *Resolver {
	s.ensureInit()
	return s.resolver
}

// Load reads the current scope's task file. A missing file is an empty
// store, not an error; the store directory is created so a later save has
// somewhere to land. When the primary file cannot be decoded, backups are
// tried newest first; if none work the store comes up empty and the
// decode error stays visible in Status.
func (s *Storage) Load() ([]*task.Task, error) {
	s.ensureInit()
	s.mu.Lock()
	err := s.loadLocked()
	snapshot := s.tasks
	cb := s.onUpdate
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if cb != nil {
		cb(snapshot)
	}
	return snapshot, nil
}

func (s *Storage) loadLocked() error {
	path := s.scope.Path

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("no task file yet", "path", path)
		if err := s.resolver.EnsureDir(s.scope); err != nil {
			s.logger.Warn("cannot create store directory", "path", path, "err", err)
		}
		s.setLoaded(nil, 0, LoadedEmpty, nil)
		return nil
	}
	if err != nil {
		s.lastError = err
		return fmt.Errorf("read task file: %w", err)
	}

	tasks, skipped, decodeErr := s.decodeAll(raw)
	if decodeErr == nil {
		s.setLoaded(tasks, skipped, LoadedFile, nil)
		return nil
	}
	s.logger.Warn("task file unreadable, trying backups", "path", path, "err", decodeErr)

	list, listErr := s.backups.List(path)
	if listErr != nil {
		s.logger.Warn("cannot list backups", "err", listErr)
	}
	for _, b := range list {
		data, err := os.ReadFile(b.Path)
		if err != nil {
			s.logger.Warn("backup unreadable", "backup", b.Path, "err", err)
			continue
		}
		tasks, skipped, err := s.decodeAll(data)
		if err != nil {
			s.logger.Warn("backup corrupt", "backup", b.Path, "err", err)
			continue
		}
		s.logger.Warn("recovered tasks from backup",
			"backup", filepath.Base(b.Path), "tasks", task.Count(tasks))
		s.setLoaded(tasks, skipped, LoadedBackup, nil)
		s.dirty = true
		return nil
	}

	s.logger.Error("no readable task data, starting empty", "path", path, "err", decodeErr)
	s.setLoaded(nil, 0, LoadedEmpty, decodeErr)
	return nil
}

func (s *Storage) setLoaded(tasks []*task.Task, skipped int, from string, keepErr error) {
	if tasks == nil {
		tasks = []*task.Task{}
	}
	s.tasks = tasks
	s.skipped = skipped
	s.loadedFrom = from
	s.lastLoad = s.now().UTC()
	s.lastError = keepErr
	s.dirty = false
}

// decodeAll runs the full read pipeline: codec reversal, envelope parse,
// schema warnings, then per-node task decoding.
func (s *Storage) decodeAll(raw []byte) ([]*task.Task, int, error) {
	plain, err := s.codec.Decode(raw)
	if err != nil {
		return nil, 0, err
	}
	doc, err := decodeDocument(plain)
	if err != nil {
		return nil, 0, err
	}

	trimmed := bytes.TrimSpace(plain)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		for _, w := range validateDocument(trimmed) {
			s.logger.Warn("task file schema", "detail", w)
		}
	}

	tasks, skipped := task.DecodeTasks(doc.Tasks)
	if skipped > 0 {
		s.logger.Warn("dropped unreadable tasks", "count", skipped)
	}
	return tasks, skipped, nil
}

// Save writes tasks to the current scope immediately, discarding any
// pending debounced write of an older snapshot.
func (s *Storage) Save(tasks []*task.Task) error {
	s.ensureInit()
	s.deb.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(tasks)
}

// SaveDebounced queues tasks for writing after the configured delay.
// Rapid successive calls collapse into a single write of the newest
// snapshot. Write failures are logged and surfaced through Status.
func (s *Storage) SaveDebounced(tasks []*task.Task) {
	s.ensureInit()
	s.mu.Lock()
	if tasks == nil {
		tasks = []*task.Task{}
	}
	s.tasks = tasks
	s.dirty = true
	s.mu.Unlock()
	s.deb.Schedule(tasks)
}

// Flush writes any pending debounced snapshot now.
func (s *Storage) Flush() error {
	s.ensureInit()
	return s.deb.Flush()
}

// Close flushes any pending debounced write. The Storage stays usable
// afterwards; Close exists so callers can defer a final flush.
func (s *Storage) Close() error {
	s.ensureInit()
	return s.deb.Flush()
}

// saveSnapshot is the debouncer's save func.
func (s *Storage) saveSnapshot(tasks []*task.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.saveLocked(tasks); err != nil {
		s.logger.Error("debounced save failed", "err", err)
		return err
	}
	return nil
}

func (s *Storage) saveLocked(tasks []*task.Task) error {
	if tasks == nil {
		tasks = []*task.Task{}
	}
	path := s.scope.Path

	if err := s.resolver.EnsureDir(s.scope); err != nil {
		s.lastError = err
		return err
	}

	if s.cfg.Storage.AutoBackup {
		if name, err := s.backups.Create(path); err != nil {
			s.logger.Warn("backup failed", "path", path, "err", err)
		} else if name != "" {
			s.logger.Debug("backup written", "backup", filepath.Base(name))
			if removed, err := s.backups.Prune(path); err != nil {
				s.logger.Warn("backup prune failed", "err", err)
			} else if removed > 0 {
				s.logger.Debug("pruned old backups", "count", removed)
			}
		}
	}

	plain, err := encodeDocument(tasks, s.now())
	if err != nil {
		s.lastError = err
		return err
	}
	data := s.codec.Encode(plain)

	if err := writeFileAtomic(path, data, 0o644); err != nil {
		s.lastError = fmt.Errorf("write task file: %w", err)
		return s.lastError
	}

	s.tasks = tasks
	s.dirty = false
	s.lastSave = s.now().UTC()
	s.lastError = nil
	s.logger.Debug("saved tasks", "path", path, "tasks", task.Count(tasks), "bytes", len(data))
	return nil
}

// ToggleMode switches the active scope. Target forms:
//
//	""              flip between global and the detected project store
//	"global"        the per-user store
//	"project"       the detected project store (errors when none is found)
//	"custom:name"   a named store under the global custom directory
//	"custom"        like custom:name, asking the Selector for the name
//	"auto"          pick interactively from detected candidates
//
// Any pending debounced write is flushed to the old scope first; a flush
// failure aborts the switch. With auto-backup on, the old scope's file is
// snapshotted best effort before leaving it. After the switch the new
// scope is loaded and the update callback fired.
func (s *Storage) ToggleMode(target string) (Scope, error) {
	s.ensureInit()
	if err := s.deb.Flush(); err != nil {
		return Scope{}, fmt.Errorf("flush before mode switch: %w", err)
	}

	scope, err := s.pickScope(target)
	if err != nil {
		return Scope{}, err
	}

	if prev := s.Scope(); s.cfg.Storage.AutoBackup && prev.Path != scope.Path {
		if _, err := s.backups.Create(prev.Path); err != nil {
			s.logger.Warn("backup before mode switch failed", "path", prev.Path, "err", err)
		}
	}

	s.mu.Lock()
	old := s.scope
	s.scope = scope
	if err := s.loadLocked(); err != nil {
		s.scope = old
		s.mu.Unlock()
		return Scope{}, err
	}
	snapshot := s.tasks
	cb := s.onUpdate
	s.mu.Unlock()

	s.logger.Info("switched task store", "from", old.Label(), "to", scope.Label())
	if cb != nil {
		cb(snapshot)
	}
	return scope, nil
}

// pickScope resolves a ToggleMode target to a concrete scope, consulting
// the Selector when the target leaves a choice open. It must not hold
// s.mu: selectors block on user input.
func (s *Storage) pickScope(target string) (Scope, error) {
	if target == "" {
		cur := s.Scope()
		if cur.Mode == ModeGlobal {
			return s.resolver.ProjectScopeFrom(s.cfg.ProjectRoot)
		}
		return s.resolver.GlobalScope(), nil
	}

	mode, name, err := ParseTarget(target)
	if err != nil {
		return Scope{}, err
	}

	switch mode {
	case ModeGlobal:
		return s.resolver.GlobalScope(), nil
	case ModeProject:
		return s.resolver.ProjectScopeFrom(s.cfg.ProjectRoot)
	case ModeCustom:
		if name == "" {
			if s.selector == nil {
				return Scope{}, ErrNoSelector
			}
			name, err = s.selector.Name("Name for the custom store")
			if err != nil {
				return Scope{}, err
			}
		}
		return s.resolver.CustomScope(name)
	case ModeAuto:
		if s.selector == nil {
			return Scope{}, ErrNoSelector
		}
		return s.selector.Pick(s.resolver.DetectCandidates(s.cfg.ProjectRoot))
	default:
		return Scope{}, fmt.Errorf("invalid mode %q", mode)
	}
}

// BackupNow snapshots the current task file immediately, regardless of
// the auto-backup setting, and prunes to the retention count.
func (s *Storage) BackupNow() (string, error) {
	s.ensureInit()
	path := s.Scope().Path

	name, err := s.backups.Create(path)
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", fmt.Errorf("nothing to back up: %s does not exist", path)
	}
	if _, err := s.backups.Prune(path); err != nil {
		s.logger.Warn("backup prune failed", "err", err)
	}
	return name, nil
}

// ListBackups returns the current scope's backups, newest first.
func (s *Storage) ListBackups() ([]Backup, error) {
	s.ensureInit()
	return s.backups.List(s.Scope().Path)
}

// RestoreBackup replaces the task file with the given backup (the
// overwritten file is itself backed up first) and reloads. Any pending
// debounced write is discarded: the restore wins.
func (s *Storage) RestoreBackup(backupPath string) error {
	s.ensureInit()
	s.deb.Stop()

	s.mu.Lock()
	if err := s.backups.Restore(s.scope.Path, backupPath); err != nil {
		s.mu.Unlock()
		return err
	}
	err := s.loadLocked()
	snapshot := s.tasks
	cb := s.onUpdate
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.logger.Info("restored backup", "backup", filepath.Base(backupPath))
	if cb != nil {
		cb(snapshot)
	}
	return nil
}

// Info is a point-in-time snapshot of the store for status displays.
type Info struct {
	Mode        Mode
	Label       string
	Path        string
	Exists      bool
	TaskCount   int
	DoneCount   int
	Dirty       bool
	PendingSave bool
	LastSave    time.Time
	LastLoad    time.Time
	LoadedFrom  string
	Skipped     int
	Compression bool
	Encryption  bool
	AutoBackup  bool
	BackupCount int
	LastError   error
}

// Status reports the current state of the store.
func (s *Storage) Status() Info {
	s.ensureInit()

	s.mu.Lock()
	info := Info{
		Mode:        s.scope.Mode,
		Label:       s.scope.Label(),
		Path:        s.scope.Path,
		TaskCount:   task.Count(s.tasks),
		DoneCount:   task.CountByStatus(s.tasks)[task.StatusDone],
		Dirty:       s.dirty,
		LastSave:    s.lastSave,
		LastLoad:    s.lastLoad,
		LoadedFrom:  s.loadedFrom,
		Skipped:     s.skipped,
		Compression: s.codec.Compress,
		Encryption:  s.codec.Obfuscate,
		AutoBackup:  s.cfg.Storage.AutoBackup,
		LastError:   s.lastError,
	}
	s.mu.Unlock()

	info.PendingSave = s.deb.Pending()
	if _, err := os.Stat(info.Path); err == nil {
		info.Exists = true
	}
	if list, err := s.backups.List(info.Path); err == nil {
		info.BackupCount = len(list)
	}
	return info
}

// writeFileAtomic writes data to a sibling temp file and renames it over
// path, so readers never observe a half-written file.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if werr == nil {
		werr = cerr
	}
	if werr == nil {
		werr = os.Chmod(tmpName, perm)
	}
	if werr == nil {
		werr = os.Rename(tmpName, path)
	}
	if werr != nil {
		os.Remove(tmpName)
		return werr
	}
	return nil
}
