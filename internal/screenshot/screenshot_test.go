package screenshot

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/buckleypaul/comsetup/internal/logging"
)

type recordingLog struct {
	lines []string
	err   error
}

func (r *recordingLog) Log(message string) error {
	r.lines = append(r.lines, message)
	return r.err
}

func testScreen(log LineLogger, available bool, grab func() (image.Image, error)) *Screen {
	return &Screen{
		log:       log,
		available: func() bool { return available },
		grab:      grab,
		diag:      logging.Nop(),
	}
}

func solid() (image.Image, error) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for x := 0; x < 4; x++ {
		for y := 0; y < 3; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	return img, nil
}

func TestCaptureSavesPNG(t *testing.T) {
	log := &recordingLog{}
	path := filepath.Join(t.TempDir(), "shots", "20240309_140507_SICK_Hand_Scanner.png")

	testScreen(log, true, solid).Capture(path)

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected screenshot file, got %v", err)
	}
	if len(log.lines) != 1 || log.lines[0] != "Screenshot saved to "+path {
		t.Errorf("unexpected log lines: %v", log.lines)
	}
}

func TestCaptureSavesJPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.jpg")
	testScreen(&recordingLog{}, true, solid).Capture(path)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected screenshot file, got %v", err)
	}
	if len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
		t.Errorf("expected JPEG magic bytes in %d byte file", len(data))
	}
}

func TestCaptureUnavailableSkips(t *testing.T) {
	log := &recordingLog{}
	grabbed := false
	path := filepath.Join(t.TempDir(), "shot.png")

	testScreen(log, false, func() (image.Image, error) {
		grabbed = true
		return solid()
	}).Capture(path)

	if grabbed {
		t.Error("expected no capture attempt when unavailable")
	}
	if len(log.lines) != 1 || !strings.HasSuffix(log.lines[0], "screenshot skipped") {
		t.Errorf("unexpected log lines: %v", log.lines)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected no file, got err=%v", err)
	}
}

func TestCaptureErrorIsSwallowed(t *testing.T) {
	log := &recordingLog{}
	testScreen(log, true, func() (image.Image, error) {
		return nil, errors.New("display locked")
	}).Capture(filepath.Join(t.TempDir(), "shot.png"))

	if len(log.lines) != 1 || log.lines[0] != "Failed to take screenshot: display locked" {
		t.Errorf("unexpected log lines: %v", log.lines)
	}
}

func TestCapturePanicIsRecovered(t *testing.T) {
	log := &recordingLog{}
	testScreen(log, true, func() (image.Image, error) {
		panic("xgb: connection refused")
	}).Capture(filepath.Join(t.TempDir(), "shot.png"))

	if len(log.lines) != 1 || !strings.Contains(log.lines[0], "connection refused") {
		t.Errorf("unexpected log lines: %v", log.lines)
	}
}

func TestCaptureUnknownExtension(t *testing.T) {
	log := &recordingLog{}
	testScreen(log, true, solid).Capture(filepath.Join(t.TempDir(), "shot.bmp"))

	if len(log.lines) != 1 || !strings.Contains(log.lines[0], "unsupported image format") {
		t.Errorf("unexpected log lines: %v", log.lines)
	}
}

func TestCaptureLogFailureDoesNotPanic(t *testing.T) {
	log := &recordingLog{err: errors.New("read-only filesystem")}
	testScreen(log, false, solid).Capture("ignored.png")

	if len(log.lines) != 1 {
		t.Errorf("expected one attempted line, got %v", log.lines)
	}
}

func TestFileName(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

	if got := FileName(ts, "Boarding Pass Barcode Scanner", ""); got != "20240309_140507_Boarding_Pass_Barcode_Scanner.png" {
		t.Errorf("unexpected file name %q", got)
	}
	if got := FileName(ts, "Scanner", "jpg"); got != "20240309_140507_Scanner.jpg" {
		t.Errorf("unexpected file name %q", got)
	}
}
