package observability

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// TestParseLogLevel verifies that parseLogLevel correctly parses log level
// strings from environment variables, handling case-insensitivity and whitespace.
func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		env    string
		expect zapcore.Level
	}{
		{"", zap.WarnLevel},
		{"INFO", zap.InfoLevel},
		{"DEBUG", zap.DebugLevel},
		{"WARN", zap.WarnLevel},
		{"ERROR", zap.ErrorLevel},
		{"debug", zap.DebugLevel},
		{"  info  ", zap.InfoLevel},
		{"invalid", zap.WarnLevel},
	}
	for _, tt := range tests {
		level := parseLogLevel(tt.env)
		if got := level.Level(); got != tt.expect {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.env, got, tt.expect)
		}
	}
}

func TestLogOutput(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "stderr"},
		{"stdout", "stderr"},
		{" stderr ", "stderr"},
		{"/var/log/advisor.log", "/var/log/advisor.log"},
	}
	for _, tt := range tests {
		if got := logOutput(tt.in); got != tt.want {
			t.Errorf("logOutput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestNewLogger_WritesToConfiguredFile verifies that LOG_OUTPUT redirects JSON
// log lines to a file and that LOG_LEVEL is honoured.
func TestNewLogger_WritesToConfiguredFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "advisor.log")
	t.Setenv("LOG_OUTPUT", path)
	t.Setenv("LOG_LEVEL", "info")

	logger, err := NewLogger()
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	logger.Debug("hidden message")
	logger.Info("visible message")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "visible message") {
		t.Errorf("log file = %q, want info line", out)
	}
	if strings.Contains(out, "hidden message") {
		t.Errorf("log file = %q, debug line should be filtered", out)
	}
	if !strings.Contains(out, `"timestamp"`) {
		t.Errorf("log file = %q, want timestamp key", out)
	}
}
