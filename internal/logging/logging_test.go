package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"ERROR", LevelError},
		{"nonsense", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelWarn, Output: &buf, Prefix: "test"})

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info message leaked through warn level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("warn message missing")
	}
}

func TestFieldsAppearSorted(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelDebug, Output: &buf})

	logger.WithField("zeta", 1).WithField("alpha", 2).Info("msg")

	out := buf.String()
	za := strings.Index(out, "zeta")
	al := strings.Index(out, "alpha")
	if za < 0 || al < 0 {
		t.Fatalf("fields missing from %q", out)
	}
	if al > za {
		t.Errorf("fields not sorted: %q", out)
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	logger.Error("nothing should happen")
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelDebug, Output: &buf})
	logger.WithComponent("lsp").Info("ready")

	if !strings.Contains(buf.String(), "lsp") {
		t.Errorf("component missing from %q", buf.String())
	}
}
