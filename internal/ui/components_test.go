package ui

import (
	"strings"
	"testing"
)

func TestDialogContainsTitleAndWrappedText(t *testing.T) {
	out := Dialog("Device Setup", "Please plug in Boarding Pass Barcode Scanner now.", 30, false)

	if !strings.Contains(out, "Device Setup") {
		t.Errorf("expected title in dialog, got:\n%s", out)
	}
	if !strings.Contains(out, "Barcode") {
		t.Errorf("expected text in dialog, got:\n%s", out)
	}
	if lines := strings.Split(out, "\n"); len(lines) < 4 {
		t.Errorf("expected wrapped body across several lines, got %d lines", len(lines))
	}
}

func TestDialogEnforcesMinimumWidth(t *testing.T) {
	out := Dialog("X", "y", 5, true)
	first := strings.Split(out, "\n")[0]
	if !strings.Contains(first, "╮") {
		t.Errorf("expected closed top border, got %q", first)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("COM7", 10); got != "COM7" {
		t.Errorf("expected short string untouched, got %q", got)
	}
	got := Truncate("USB VID:PID=0403:6001 SER=A12B", 12)
	if !strings.HasSuffix(got, "…") {
		t.Errorf("expected ellipsis, got %q", got)
	}
	if strings.Contains(got, "SER=") {
		t.Errorf("expected tail to be cut, got %q", got)
	}
}
