// Package utils provides shared utility functions used across multiple packages.
package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// SplitAndTrim splits s on sep, trims surrounding whitespace from every
// field and drops the empty ones.
func SplitAndTrim(s, sep string) []string {
	fields := strings.Split(s, sep)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// JSONPointerToPath rewrites a JSON Pointer (RFC 6901) as a dot path with
// bracketed array indices, e.g. "#/tasks/0/status" becomes
// "tasks[0].status", the form used in schema warning log lines.
func JSONPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, seg := range strings.Split(ptr, "/") {
		// ~1 and ~0 are the pointer escapes for / and ~.
		seg = strings.ReplaceAll(seg, "~1", "/")
		seg = strings.ReplaceAll(seg, "~0", "~")
		if seg == "" {
			continue
		}
		if idx, err := strconv.Atoi(seg); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg)
	}
	return b.String()
}
