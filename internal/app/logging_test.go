package app

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LogLevelDebug, "DEBUG"},
		{LogLevelInfo, "INFO"},
		{LogLevelWarn, "WARN"},
		{LogLevelError, "ERROR"},
		{LogLevelOff, "OFF"},
		{LogLevel(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		result := tt.level.String()
		if result != tt.expected {
			t.Errorf("LogLevel(%d).String() = '%s', expected '%s'", tt.level, result, tt.expected)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"debug", LogLevelDebug},
		{"DEBUG", LogLevelDebug},
		{"info", LogLevelInfo},
		{"warn", LogLevelWarn},
		{"warning", LogLevelWarn},
		{"WARNING", LogLevelWarn},
		{"error", LogLevelError},
		{"off", LogLevelOff},
		{"unknown", LogLevelWarn}, // Default
		{"", LogLevelWarn},        // Default
	}

	for _, tt := range tests {
		result := ParseLogLevel(tt.input)
		if result != tt.expected {
			t.Errorf("ParseLogLevel('%s') = %d, expected %d", tt.input, result, tt.expected)
		}
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LogLevelWarn, Output: &buf})

	logger.Debug("debug message")
	logger.Info("info message")
	if buf.Len() != 0 {
		t.Errorf("messages below warn were written: %q", buf.String())
	}

	logger.Warn("warn message")
	logger.Error("error %d", 42)
	out := buf.String()
	if !strings.Contains(out, "warn message") {
		t.Errorf("missing warn message: %q", out)
	}
	if !strings.Contains(out, "error 42") {
		t.Errorf("missing formatted error message: %q", out)
	}
	if !strings.Contains(out, "level=error") {
		t.Errorf("missing level field: %q", out)
	}
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LogLevelDebug, Output: &buf, Prefix: "test"})

	logger.WithComponent("shell").WithFields(map[string]any{"index": 3}).Debug("checkout")

	out := buf.String()
	for _, want := range []string{"app=test", "component=shell", "index=3", "msg=checkout"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestLogger_DerivedShareLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LogLevelError, Output: &buf})
	child := logger.WithComponent("lua")

	logger.SetLevel(LogLevelDebug)
	child.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("child did not follow parent level: %q", buf.String())
	}

	buf.Reset()
	logger.Disable()
	child.Error("hidden")
	if buf.Len() != 0 {
		t.Errorf("disabled logger wrote %q", buf.String())
	}

	logger.Enable()
	child.Error("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("enabled logger wrote nothing")
	}
}

func TestLogger_Off(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LogLevelOff, Output: &buf})
	logger.Error("nothing")
	if buf.Len() != 0 {
		t.Errorf("off logger wrote %q", buf.String())
	}
}

func TestLogger_SetOutput(t *testing.T) {
	var first, second bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LogLevelInfo, Output: &first})
	logger.SetOutput(&second)
	logger.Info("moved")

	if first.Len() != 0 || !strings.Contains(second.String(), "moved") {
		t.Errorf("first=%q second=%q", first.String(), second.String())
	}
}

func TestNullLogger(t *testing.T) {
	// Must not panic.
	NullLogger.Error("discarded")
	NullLogger.WithField("k", "v").Warn("discarded")
}
