package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jwebster45206/ai-dungeon-master/internal/config"
)

func TestSetup_Development(t *testing.T) {
	var buf bytes.Buffer
	log := Setup(&config.Config{Environment: "development", LogLevel: slog.LevelInfo}, &buf)

	log.Debug("hidden")
	WithGame(log, "abc").Info("entered room", "room_id", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug record written at info level")
	}
	if !strings.Contains(out, "game_id=abc") || !strings.Contains(out, "room_id=3") {
		t.Errorf("text output missing attributes: %q", out)
	}
}

func TestSetup_ProductionIsJSON(t *testing.T) {
	var buf bytes.Buffer
	log := Setup(&config.Config{Environment: "production", LogLevel: slog.LevelDebug}, &buf)

	WithError(log, errors.New("disk full")).Warn("save failed")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if rec["msg"] != "save failed" || rec["error"] != "disk full" {
		t.Errorf("record = %v", rec)
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dungeon.log")
	f, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	defer f.Close()
	if _, err := f.WriteString("line\n"); err != nil {
		t.Fatal(err)
	}
}
