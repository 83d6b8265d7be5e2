package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNew_DefaultsToWarnOnStderr(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(Options{Stderr: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer closer.Close()

	if logger.GetLevel() != logrus.WarnLevel {
		t.Fatalf("expected warn level, got %s", logger.GetLevel())
	}
	logger.Info("hidden")
	logger.WithField("task", 3).Warn("forced")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected info to be filtered, got %q", out)
	}
	if !strings.Contains(out, "level=warning") || !strings.Contains(out, "msg=forced") || !strings.Contains(out, "task=3") {
		t.Errorf("unexpected output %q", out)
	}
	if strings.Contains(out, "time=") {
		t.Errorf("expected no timestamp, got %q", out)
	}
}

func TestNew_Level(t *testing.T) {
	tests := []struct {
		level   string
		want    logrus.Level
		wantErr bool
	}{
		{level: "debug", want: logrus.DebugLevel},
		{level: " INFO ", want: logrus.InfoLevel},
		{level: "error", want: logrus.ErrorLevel},
		{level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger, _, err := New(Options{Level: tt.level, Stderr: &bytes.Buffer{}})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if logger.GetLevel() != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, logger.GetLevel())
			}
		})
	}
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "p2gan.log")
	logger, closer, err := New(Options{Level: "info", File: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.WithField("passes", 2).Info("resolved")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", data, err)
	}
	if entry["msg"] != "resolved" || entry["passes"] != float64(2) {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestDiscard(t *testing.T) {
	Discard().Error("nothing")
}
