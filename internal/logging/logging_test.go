package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/IshaanNene/NewsPulse/internal/config"
)

func TestNewFormats(t *testing.T) {
	tests := []struct {
		format string
		check  func(t *testing.T, out string)
	}{
		{"text", func(t *testing.T, out string) {
			if !strings.Contains(out, "msg=hello") || !strings.Contains(out, "channel=BBC") {
				t.Errorf("unexpected text output %q", out)
			}
		}},
		{"json", func(t *testing.T, out string) {
			var m map[string]any
			if err := json.Unmarshal([]byte(out), &m); err != nil || m["channel"] != "BBC" {
				t.Errorf("unexpected json output %q (%v)", out, err)
			}
		}},
		{"tint", func(t *testing.T, out string) {
			if !strings.Contains(out, "hello") || !strings.Contains(out, "BBC") {
				t.Errorf("unexpected tint output %q", out)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := New(config.LoggingConfig{Level: "info", Format: tt.format}, &buf)
			if err != nil {
				t.Fatal(err)
			}
			logger.Debug("hidden")
			logger.Info("hello", "channel", "BBC")
			if strings.Contains(buf.String(), "hidden") {
				t.Error("debug line written at info level")
			}
			tt.check(t, buf.String())
		})
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	if _, err := New(config.LoggingConfig{Level: "loud"}, &bytes.Buffer{}); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := New(config.LoggingConfig{Format: "xml"}, &bytes.Buffer{}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]slog.Level{"debug": slog.LevelDebug, "": slog.LevelInfo, "WARN": slog.LevelWarn, "error": slog.LevelError} {
		if got, err := ParseLevel(name); err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v", name, got, err)
		}
	}
}

func TestOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	w, closeFn, err := Output(path)
	if err != nil {
		t.Fatal(err)
	}
	logger, _ := New(config.LoggingConfig{}, w)
	logger.Info("to file")
	if err := closeFn(); err != nil {
		t.Fatal(err)
	}
}
