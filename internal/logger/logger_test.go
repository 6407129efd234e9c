package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		in     string
		want   slog.Level
		wantOk bool
	}{
		{"debug", slog.LevelDebug, true},
		{"DBG", slog.LevelDebug, true},
		{"info", slog.LevelInfo, true},
		{"warn", slog.LevelWarn, true},
		{"err", slog.LevelError, true},
		{"loud", slog.LevelInfo, false},
	}
	for _, tt := range tests {
		got, ok := levelFromString(tt.in)
		if got != tt.want || ok != tt.wantOk {
			t.Errorf("levelFromString(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOk)
		}
	}
}

func TestResolveLevelEnv(t *testing.T) {
	t.Setenv(EnvLevel, "error")
	if got := ResolveLevel("debug"); got != slog.LevelError {
		t.Errorf("ResolveLevel(debug) with %s=error = %v; want ERROR", EnvLevel, got)
	}
	t.Setenv(EnvLevel, "bogus")
	if got := ResolveLevel("debug"); got != slog.LevelDebug {
		t.Errorf("ResolveLevel(debug) with bogus env = %v; want DEBUG", got)
	}
}

func TestInitLogger(t *testing.T) {
	t.Setenv(EnvLevel, "")
	defer Discard()

	path := filepath.Join(t.TempDir(), "nested", "wflpat.log")
	closer, err := InitLogger(path, "info")
	if err != nil {
		t.Fatalf("InitLogger() error = %v", err)
	}
	slog.Debug("hidden")
	slog.Info("compiled", "pattern", "phone")
	closer.Close()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(b)
	if !strings.Contains(out, "msg=compiled") || !strings.Contains(out, "pattern=phone") {
		t.Errorf("log output = %q; want the info record", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("log output = %q; debug record should be filtered", out)
	}
}
