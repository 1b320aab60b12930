package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitDiscardWithoutDebug(t *testing.T) {
	Init(Config{})
	defer Shutdown()

	// Must not panic and must return a usable logger.
	Logger().Info("discarded")
	ForComponent(CompUI).Debug("also discarded")
}

func TestForComponentPicksUpLateInit(t *testing.T) {
	// Component logger created before Init must still reach the real
	// handler afterwards.
	log := ForComponent(CompStatus)

	dir := t.TempDir()
	Init(Config{LogDir: dir, Level: "debug", Debug: true})
	defer Shutdown()

	log.Info("transition", "paneId", "%1")

	data, err := os.ReadFile(filepath.Join(dir, "debug.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"component":"status"`) {
		t.Errorf("log missing component attr: %s", data)
	}
	if !strings.Contains(string(data), "transition") {
		t.Errorf("log missing message: %s", data)
	}
}

func TestInitLevelFiltering(t *testing.T) {
	dir := t.TempDir()
	Init(Config{LogDir: dir, Level: "warn", Debug: true})
	defer Shutdown()

	Logger().Info("should not appear")
	Logger().Warn("should appear")

	data, _ := os.ReadFile(filepath.Join(dir, "debug.log"))
	if strings.Contains(string(data), "should not appear") {
		t.Error("info message logged despite warn level")
	}
	if !strings.Contains(string(data), "should appear") {
		t.Error("warn message not logged")
	}
}
