package sessionlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)
	}
}

func TestLogCreatesDirOnFirstWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "SetupLogs", "nested")
	l := New(dir, "setup.log").WithClock(fixedClock())

	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("expected log dir to be absent before first write, err=%v", err)
	}

	if err := l.Log("==== Starting USB Device Setup ===="); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "setup.log"))
	if err != nil {
		t.Fatalf("log file not created: %v", err)
	}
	want := "2024-03-09 14:05:07 - ==== Starting USB Device Setup ====\n"
	if string(data) != want {
		t.Errorf("expected %q, got %q", want, string(data))
	}
}

func TestLogAppends(t *testing.T) {
	dir := t.TempDir()
	l := New(dir, "setup.log").WithClock(fixedClock())

	l.Log("first")
	l.Log("Detected Scanner on COM9")

	data, err := os.ReadFile(l.Path())
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), lines)
	}
	if !strings.HasSuffix(lines[1], " - Detected Scanner on COM9") {
		t.Errorf("unexpected second line: %q", lines[1])
	}
}

func TestLogUnwritableReturnsError(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	// A regular file where the directory should be makes MkdirAll fail.
	l := New(filepath.Join(blocker, "logs"), "setup.log")
	if err := l.Log("hello"); err == nil {
		t.Fatal("expected error when log dir cannot be created")
	}
}
