package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"info", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"fatal", log.FatalLevel},
		{"unknown", log.InfoLevel},
		{"", log.InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewFromConfigRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewFromConfig(&buf, "warn", "text")

	logger.Info("quiet")
	logger.Warn("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Error("info message logged despite warn level")
	}
	if !strings.Contains(out, "loud") {
		t.Error("warn message missing from output")
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := NewNop()
	// Must not panic and must not write anywhere.
	logger.Error("nothing to see")
}
