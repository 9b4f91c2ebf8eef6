// Package utils provides shared utility functions used across multiple packages.
package utils

import "strings"

// Slugify converts a name into a filesystem-safe slug: lowercase, with
// letters, digits, dash and underscore kept and every other run of
// characters collapsed to a single dash. Returns "" if nothing survives.
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true // suppress a leading dash
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
			lastDash = false
		case r == '-':
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
