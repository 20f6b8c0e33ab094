package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"", slog.LevelWarn, false},
		{" error ", slog.LevelError, false},
		{"loud", slog.LevelWarn, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "info")
	if err != nil {
		t.Fatal(err)
	}

	logger.Debug("hidden")
	logger.Info("sampled", "samples", 500)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug record leaked at info level")
	}
	if !strings.Contains(out, "samples=500") {
		t.Errorf("missing info record: %q", out)
	}

	if _, err := New(&buf, "nope"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestWrapError(t *testing.T) {
	if WrapError(nil, "ctx") != nil {
		t.Error("nil error should stay nil")
	}

	base := errors.New("disk full")
	err := WrapError(base, "saving %s", "figure")
	if !errors.Is(err, base) {
		t.Error("wrapped error lost its cause")
	}
	if err.Error() != "saving figure: disk full" {
		t.Errorf("got %q", err.Error())
	}
}
