package blitz2d

import (
	"bytes"
	"log/slog"
	"testing"
)

func TestLoggerDefaultsSilent(t *testing.T) {
	l := Logger()
	if l == nil {
		t.Fatal("Logger returned nil")
	}
	if l.Enabled(nil, slog.LevelError) {
		t.Error("default logger should discard everything")
	}
}

func TestSetLogger(t *testing.T) {
	defer SetLogger(nil)

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	Logger().Info("hello")
	if buf.Len() == 0 {
		t.Error("configured logger received no output")
	}

	SetLogger(nil)
	if Logger().Enabled(nil, slog.LevelError) {
		t.Error("nil should restore the silent default")
	}
}
