package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Dan7h3x/LazyDo/internal/config"
	"github.com/Dan7h3x/LazyDo/internal/utils"
)

// Resolver computes task file paths from configuration and a working
// directory. It never prompts and never writes; EnsureDir is the only
// operation that touches the filesystem beyond stat calls.
type Resolver struct {
	globalPath  string
	projectMode bool
	useGitRoot  bool
	markers     []string
	pattern     string
	customDir   string
}

// NewResolver builds a resolver from configuration.
func NewResolver(cfg *config.Config) *Resolver {
	global := cfg.GlobalTasksPath()
	return &Resolver{
		globalPath:  global,
		projectMode: cfg.Storage.ProjectMode,
		useGitRoot:  cfg.Storage.UseGitRoot,
		markers:     cfg.Markers(),
		pattern:     cfg.Storage.PathPattern,
		customDir:   filepath.Join(filepath.Dir(global), "custom"),
	}
}

// GlobalScope returns the user-wide store.
func (r *Resolver) GlobalScope() Scope {
	return Scope{Mode: ModeGlobal, Path: r.globalPath}
}

// ProjectScope returns the store for a given project root.
func (r *Resolver) ProjectScope(root string) Scope {
	return Scope{
		Mode: ModeProject,
		Root: root,
		Path: expandPattern(r.pattern, root, ""),
	}
}

// CustomScope returns the named store. Names are slugified before use; a
// name that slugifies to nothing is an error.
func (r *Resolver) CustomScope(name string) (Scope, error) {
	slug := utils.Slugify(name)
	if slug == "" {
		return Scope{}, fmt.Errorf("invalid store name %q", name)
	}
	return Scope{
		Mode: ModeCustom,
		Name: slug,
		Path: filepath.Join(r.customDir, slug+".json"),
	}, nil
}

// Resolve picks the scope for a working directory: the enclosing git
// repository when project mode and git detection are on, then the nearest
// marker directory, then the global store. Unusable working directories
// fall back to the global store.
func (r *Resolver) Resolve(cwd string) Scope {
	if !r.projectMode || cwd == "" {
		return r.GlobalScope()
	}
	if abs, err := filepath.Abs(cwd); err == nil {
		cwd = abs
	}
	if r.useGitRoot {
		if root, ok := findGitRoot(cwd); ok {
			return r.ProjectScope(root)
		}
	}
	if root, ok := r.findMarkerRoot(cwd); ok {
		return r.ProjectScope(root)
	}
	return r.GlobalScope()
}

// ProjectScopeFrom resolves a project scope from cwd, or fails when no
// project can be detected. Used when the caller asked for project mode
// explicitly and a silent fallback would be misleading.
func (r *Resolver) ProjectScopeFrom(cwd string) (Scope, error) {
	if abs, err := filepath.Abs(cwd); err == nil {
		cwd = abs
	}
	if r.useGitRoot {
		if root, ok := findGitRoot(cwd); ok {
			return r.ProjectScope(root), nil
		}
	}
	if root, ok := r.findMarkerRoot(cwd); ok {
		return r.ProjectScope(root), nil
	}
	return Scope{}, fmt.Errorf("no project detected from %s", cwd)
}

// DetectCandidates lists every plausible scope for interactive selection:
// the global store, the enclosing git repository, marker directories on
// the way up, and existing custom stores.
func (r *Resolver) DetectCandidates(cwd string) []Scope {
	candidates := []Scope{r.GlobalScope()}
	seen := map[string]bool{r.globalPath: true}

	add := func(s Scope) {
		if !seen[s.Path] {
			seen[s.Path] = true
			candidates = append(candidates, s)
		}
	}

	if abs, err := filepath.Abs(cwd); err == nil {
		cwd = abs
	}
	if cwd != "" {
		if root, ok := findGitRoot(cwd); ok {
			add(r.ProjectScope(root))
		}
		for dir := cwd; ; dir = filepath.Dir(dir) {
			for _, marker := range r.markers {
				if isDir(filepath.Join(dir, marker)) {
					add(r.ProjectScope(dir))
				}
			}
			if dir == filepath.Dir(dir) {
				break
			}
		}
	}

	customs, err := r.ListCustomStores()
	if err == nil {
		for _, c := range customs {
			add(c)
		}
	}

	return candidates
}

// ListCustomStores returns the named stores that exist on disk.
func (r *Resolver) ListCustomStores() ([]Scope, error) {
	entries, err := os.ReadDir(r.customDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read custom store dir: %w", err)
	}
	var scopes []Scope
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".json")
		scopes = append(scopes, Scope{
			Mode: ModeCustom,
			Name: name,
			Path: filepath.Join(r.customDir, e.Name()),
		})
	}
	return scopes, nil
}

// EnsureDir creates the directory the scope's task file lives in.
func (r *Resolver) EnsureDir(s Scope) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}
	return nil
}

// findGitRoot walks up from dir looking for a .git entry. A directory is
// a normal repository; a file covers worktrees and submodules.
func findGitRoot(dir string) (string, bool) {
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// findMarkerRoot walks up from dir looking for one of the marker
// directories. Marker entries that are plain files are ignored.
func (r *Resolver) findMarkerRoot(dir string) (string, bool) {
	for {
		for _, marker := range r.markers {
			if isDir(filepath.Join(dir, marker)) {
				return dir, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// expandPattern fills the {root} and {name} tokens of a path pattern.
func expandPattern(pattern, root, name string) string {
	out := strings.ReplaceAll(pattern, "{root}", root)
	out = strings.ReplaceAll(out, "{name}", name)
	return filepath.Clean(out)
}
