package logger

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func fixedLogger(buf *bytes.Buffer, verbose bool) *Logger {
	l := New(buf, verbose, false)
	l.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 6000000, time.UTC) }
	return l
}

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, false)

	l.Debug("hidden %d", 1)
	l.Info("shown %d", 2)
	l.Warn("warned")

	want := "[03:04:05.006 INFO] shown 2\n[03:04:05.006 WARN] warned\n"
	if buf.String() != want {
		t.Fatalf("got %q want %q", buf.String(), want)
	}

	buf.Reset()
	l.SetLevel("error")
	l.Warn("dropped")
	l.Error("kept")
	if got := buf.String(); got != "[03:04:05.006 ERROR] kept\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestVerboseEnablesDebug(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, true)
	l.Debug("details")
	if !strings.Contains(buf.String(), "DEBUG] details") {
		t.Fatalf("debug message missing: %q", buf.String())
	}
	if !l.Enabled(LevelDebug) {
		t.Fatal("verbose logger should enable debug")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"DEBUG":   LevelDebug,
		" info ":  LevelInfo,
		"warning": LevelWarn,
		"Error":   LevelError,
		"none":    LevelNone,
		"bogus":   LevelInfo,
	}
	for input, want := range tests {
		if got := ParseLevel(input); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestNoneSilencesEverything(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, true).WithLevel(LevelNone)
	l.Error("nothing")
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}
