// Package screenshot captures the full screen as evidence of a detected
// device. Capture failures are logged and never abort a session.
package screenshot

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kbinani/screenshot"
	"github.com/rs/zerolog"

	"github.com/buckleypaul/comsetup/internal/logging"
)

// DefaultExt is used when no extension is configured.
const DefaultExt = ".png"

const fileTimeFormat = "20060102_150405"

// LineLogger receives session log lines.
type LineLogger interface {
	Log(message string) error
}

// Capturer saves an image of the current screen to path.
type Capturer interface {
	Capture(path string)
}

// Screen captures the union of all active displays.
type Screen struct {
	log       LineLogger
	available func() bool
	grab      func() (image.Image, error)
	diag      zerolog.Logger
}

// NewScreen returns a Capturer backed by the OS screen capture API.
func NewScreen(log LineLogger) *Screen {
	return &Screen{
		log:       log,
		available: func() bool { return screenshot.NumActiveDisplays() > 0 },
		grab:      grabAllDisplays,
		diag:      logging.WithComponent("screenshot"),
	}
}

func grabAllDisplays() (image.Image, error) {
	n := screenshot.NumActiveDisplays()
	var bounds image.Rectangle
	for i := 0; i < n; i++ {
		bounds = bounds.Union(screenshot.GetDisplayBounds(i))
	}
	img, err := screenshot.CaptureRect(bounds)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// Capture implements Capturer. Every outcome is written to the session log.
func (s *Screen) Capture(path string) {
	defer func() {
		if r := recover(); r != nil {
			s.note(fmt.Sprintf("Failed to take screenshot: %v", r))
		}
	}()

	if !s.available() {
		s.note("Screen capture unavailable; screenshot skipped")
		return
	}

	img, err := s.grab()
	if err != nil {
		s.note(fmt.Sprintf("Failed to take screenshot: %v", err))
		return
	}

	if err := save(path, img); err != nil {
		s.note(fmt.Sprintf("Failed to take screenshot: %v", err))
		return
	}

	s.note(fmt.Sprintf("Screenshot saved to %s", path))
}

// note logs a line. Write failures are only reported as diagnostics.
func (s *Screen) note(message string) {
	if s.log == nil {
		return
	}
	if err := s.log.Log(message); err != nil {
		s.diag.Warn().Err(err).Str("line", message).Msg("session log write failed")
	}
}

func save(path string, img image.Image) error {
	encode, err := encoderFor(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

func encoderFor(path string) (func(io.Writer, image.Image) error, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return png.Encode, nil
	case ".jpg", ".jpeg":
		return func(w io.Writer, img image.Image) error {
			return jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
		}, nil
	default:
		return nil, fmt.Errorf("unsupported image format %q", filepath.Ext(path))
	}
}

// FileName builds "YYYYMMDD_HHMMSS_<device>" plus ext, with spaces in the
// device name replaced by underscores.
func FileName(t time.Time, device, ext string) string {
	if ext == "" {
		ext = DefaultExt
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return t.Format(fileTimeFormat) + "_" + strings.ReplaceAll(device, " ", "_") + ext
}
