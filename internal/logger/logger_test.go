package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{Debug: false, ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}
	if Logger.GetLevel() != log.InfoLevel {
		t.Errorf("level = %v, want info", Logger.GetLevel())
	}

	Info("habit series created", "count", 3)
	Warn("notification skipped", "reason", "disabled")
}

func TestInitDebugMode(t *testing.T) {
	if err := Init(Config{Debug: true, ConfigDir: t.TempDir()}); err != nil {
		t.Fatalf("Failed to initialize logger in debug mode: %v", err)
	}
	if Logger.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v, want debug", Logger.GetLevel())
	}
}

func TestWithCarriesKeyvals(t *testing.T) {
	var buf bytes.Buffer
	Logger = log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	defer func() { Logger = nil }()

	With("series", "abc").Info("scheduled")
	if !strings.Contains(buf.String(), "series=abc") {
		t.Errorf("expected child logger output to contain series=abc, got %q", buf.String())
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// These should not panic when Logger is nil
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
	if With("k", "v") != nil {
		t.Error("With() should return nil when logging is off")
	}
}
