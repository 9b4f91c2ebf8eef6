package config

import "time"

// SaveDebounce returns the parsed debounce interval, falling back to the
// default when unset or unparsable. Validate reports unparsable values;
// this getter never fails so late callers always have an interval.
func (c *Config) SaveDebounce() time.Duration {
	d, err := time.ParseDuration(c.Storage.SaveDebounce)
	if err != nil || d < 0 {
		d, _ = time.ParseDuration(DefaultSaveDebounce)
	}
	return d
}

// Markers returns the configured project marker names, or the defaults
// when none are set.
func (c *Config) Markers() []string {
	if len(c.Storage.Markers) == 0 {
		return DefaultMarkers()
	}
	return c.Storage.Markers
}

// GlobalTasksPath returns the global task file path with ~ and
// environment variables expanded.
func (c *Config) GlobalTasksPath() string {
	return expandPath(c.Storage.Path)
}
