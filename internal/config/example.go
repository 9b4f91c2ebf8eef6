package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# LazyDo configuration file
# Values can be overridden by LAZYDO_* environment variables.

[storage]
# Global task file (supports ~ and environment variables)
path = "~/.local/share/lazydo/tasks.json"

# Keep a separate task file per project
project_mode = true

# Detect the project root from the enclosing git repository
use_git_root = true

# Directory names that mark a project root
markers = [".lazydo"]

# Where project task files live; {root} expands to the project root
path_pattern = "{root}/.lazydo/tasks.json"

# Copy the previous file aside before every save
auto_backup = true

# Backups kept per task file (0 keeps all)
max_backups = 1

# Run-length encode the stored file
compression = false

# Byte-shift obfuscation. This is not encryption in any real sense;
# it only keeps the file from being grepped casually.
encryption = false

# Quiet period before a debounced save hits disk
save_debounce = "1s"

[log]
# debug, info, warn, error
level = "info"

# text, json, logfmt
format = "text"
`
}
