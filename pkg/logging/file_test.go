package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func newTestLogger(t *testing.T, config FileLoggerConfig) *FileLogger {
	t.Helper()
	if config.Path == "" {
		config.Path = filepath.Join(t.TempDir(), "test.log")
	}
	logger, err := NewFileLogger(config)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	t.Cleanup(func() { logger.Close() })
	return logger
}

func readLog(t *testing.T, logger *FileLogger) string {
	t.Helper()
	content, err := os.ReadFile(logger.sink.config.Path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	return string(content)
}

func TestNewFileLogger_CreatesDirectory(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "dir", "test.log")
	newTestLogger(t, FileLoggerConfig{Path: logPath, Format: FormatText, Level: InfoLevel})

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Error("Log file was not created")
	}
}

func TestFileLogger_LogLevels(t *testing.T) {
	logger := newTestLogger(t, FileLoggerConfig{Format: FormatText, Level: WarnLevel})
	ctx := context.Background()

	logger.Debug(ctx, "debug message", nil)
	logger.Info(ctx, "info message", nil)
	logger.Warn(ctx, "warn message", nil)
	logger.Error(ctx, "error message", errors.New("boom"), nil)

	content := readLog(t, logger)
	for _, msg := range []string{"debug message", "info message"} {
		if strings.Contains(content, msg) {
			t.Errorf("log contains %q below the configured level", msg)
		}
	}
	for _, msg := range []string{"[WARN] warn message", "[ERROR] error message", `error="boom"`} {
		if !strings.Contains(content, msg) {
			t.Errorf("log does not contain %q\n%s", msg, content)
		}
	}
}

func TestFileLogger_JSONFormat(t *testing.T) {
	logger := newTestLogger(t, FileLoggerConfig{Format: FormatJSON, Level: DebugLevel})

	logger.Info(context.Background(), "Comparison completed", Fields{
		"left":    "/a",
		"entries": 42,
	})

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(readLog(t, logger))), &entry); err != nil {
		t.Fatalf("Failed to parse JSON log entry: %v", err)
	}

	want := map[string]interface{}{
		"level":   "INFO",
		"message": "Comparison completed",
		"left":    "/a",
		"entries": float64(42),
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("entry[%q] = %v, want %v", k, entry[k], v)
		}
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Error("JSON entry has no timestamp")
	}
	if _, ok := entry["error"]; ok {
		t.Error("JSON entry has an error field without an error")
	}
}

func TestFileLogger_TextFieldsAreSorted(t *testing.T) {
	logger := newTestLogger(t, FileLoggerConfig{Format: FormatText, Level: InfoLevel})

	logger.Info(context.Background(), "listed", Fields{"zeta": 1, "alpha": 2, "mid": 3})

	content := readLog(t, logger)
	if !strings.Contains(content, "listed alpha=2 mid=3 zeta=1") {
		t.Errorf("fields not sorted: %s", content)
	}
}

func TestFileLogger_WithFields(t *testing.T) {
	logger := newTestLogger(t, FileLoggerConfig{Format: FormatJSON, Level: InfoLevel})

	session := logger.WithFields(Fields{"component": "dircompare", "session_id": "s1"})
	comparison := session.WithFields(Fields{"comparison_id": "c1", "session_id": "override"})
	comparison.Info(context.Background(), "derived", Fields{"extra": true})
	logger.Info(context.Background(), "base", nil)

	lines := strings.Split(strings.TrimSpace(readLog(t, logger)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	var derived, base map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &derived); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &base); err != nil {
		t.Fatal(err)
	}

	if derived["component"] != "dircompare" || derived["comparison_id"] != "c1" ||
		derived["session_id"] != "override" || derived["extra"] != true {
		t.Errorf("derived entry = %v", derived)
	}
	if _, ok := base["component"]; ok {
		t.Error("WithFields leaked fields into the parent logger")
	}
}

func TestFileLogger_Rotation(t *testing.T) {
	logger := newTestLogger(t, FileLoggerConfig{
		Format:     FormatText,
		Level:      InfoLevel,
		MaxSize:    200,
		MaxBackups: 2,
	})
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		logger.Info(ctx, fmt.Sprintf("message %02d with some padding to fill the file", i), nil)
	}

	path := logger.sink.config.Path
	for _, name := range []string{path, path + ".1", path + ".2"} {
		if _, err := os.Stat(name); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}
	if _, err := os.Stat(path + ".3"); !os.IsNotExist(err) {
		t.Errorf("expected at most 2 backups, found %s.3", path)
	}
	if !strings.Contains(readLog(t, logger), "message 49") {
		t.Error("latest message not in the active log file")
	}
}

func TestFileLogger_ConcurrentDerivedLoggers(t *testing.T) {
	logger := newTestLogger(t, FileLoggerConfig{Format: FormatJSON, Level: InfoLevel})
	ctx := context.Background()

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			derived := logger.WithFields(Fields{"worker": w})
			for i := 0; i < 50; i++ {
				derived.Info(ctx, "tick", Fields{"i": i})
			}
		}(w)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(readLog(t, logger)), "\n")
	if len(lines) != 400 {
		t.Fatalf("got %d lines, want 400", len(lines))
	}
	for _, line := range lines {
		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("interleaved write: %q", line)
		}
	}
}

func TestFileLogger_WriteAfterClose(t *testing.T) {
	logger := newTestLogger(t, FileLoggerConfig{Format: FormatText, Level: InfoLevel})

	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	logger.Info(context.Background(), "dropped", nil)
	if err := logger.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if strings.Contains(readLog(t, logger), "dropped") {
		t.Error("entry written after Close")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"debug", DebugLevel},
		{"DEBUG", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"", InfoLevel},
		{"bogus", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLogger(&buf, InfoLevel, false)
	ctx := context.Background()

	logger.Debug(ctx, "hidden", nil)
	logger.WithFields(Fields{"path": "a/b"}).Warn(ctx, "Permission denied", nil)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug entry written at info level")
	}
	if !strings.Contains(out, "[WARN] Permission denied path=a/b") {
		t.Errorf("unexpected output %q", out)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestMulti(t *testing.T) {
	var a, b bytes.Buffer
	logger := Multi{
		NewConsoleLogger(&a, DebugLevel, false),
		NewConsoleLogger(&b, ErrorLevel, false),
		NewNullLogger(),
	}

	derived := logger.WithFields(Fields{"k": "v"})
	derived.Info(context.Background(), "info", nil)
	derived.Error(context.Background(), "fail", errors.New("x"), nil)

	if strings.Count(a.String(), "k=v") != 2 {
		t.Errorf("first logger output %q", a.String())
	}
	if strings.Contains(b.String(), "info") || !strings.Contains(b.String(), "fail") {
		t.Errorf("second logger output %q", b.String())
	}
	if err := logger.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
