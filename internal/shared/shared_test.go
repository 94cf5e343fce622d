package shared

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestLogger(t *testing.T) {
	t.Run("NewLogger", func(t *testing.T) {
		t.Run("Writes To The Given Writer", func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := NewLogger(buf)
			logger.Info("hello")

			if !strings.Contains(buf.String(), "hello") {
				t.Errorf("expected log output, got %q", buf.String())
			}
		})

		t.Run("Nil Writer Defaults To Stderr", func(t *testing.T) {
			if NewLogger(nil) == nil {
				t.Error("expected logger instance")
			}
		})
	})

	t.Run("WithLogger Attaches Fields", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := WithLogger(NewLogger(buf), "component", "test")
		logger.Info("tagged")

		out := buf.String()
		if !strings.Contains(out, "component") || !strings.Contains(out, "test") {
			t.Errorf("expected component field in output, got %q", out)
		}
	})

	t.Run("SetLogLevel Filters Output", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewLogger(buf)
		SetLogLevel(logger, log.ErrorLevel)

		logger.Info("invisible")
		if strings.Contains(buf.String(), "invisible") {
			t.Error("expected info to be filtered at error level")
		}

		logger.Error("visible")
		if !strings.Contains(buf.String(), "visible") {
			t.Error("expected error to pass the filter")
		}
	})

	t.Run("NewFileLogger Creates Parent Directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "app.log")

		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		logger.Info("to file")

		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		if !strings.Contains(string(content), "to file") {
			t.Errorf("expected log line in file, got %q", content)
		}
	})
}

func TestGenerateID(t *testing.T) {
	t.Run("Returns UUID-Shaped Strings", func(t *testing.T) {
		id := GenerateID()
		if len(id) != 36 {
			t.Errorf("expected 36-char UUID, got %d chars", len(id))
		}
	})

	t.Run("IDs Are Unique", func(t *testing.T) {
		seen := make(map[string]bool)
		for range 100 {
			id := GenerateID()
			if seen[id] {
				t.Fatalf("duplicate id %s", id)
			}
			seen[id] = true
		}
	})
}

func TestOpenBrowser(t *testing.T) {
	t.Run("Unsupported Platform", func(t *testing.T) {
		original := getRuntime
		getRuntime = func() string { return "plan9" }
		defer func() { getRuntime = original }()

		if err := OpenBrowser("http://localhost:3000"); err == nil {
			t.Error("expected error on unsupported platform")
		}
	})
}
