// Package setup drives a guided device onboarding session: prompt the
// operator, wait for the device's serial port, capture evidence, confirm.
package setup

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/buckleypaul/comsetup/internal/logging"
	"github.com/buckleypaul/comsetup/internal/notify"
	"github.com/buckleypaul/comsetup/internal/screenshot"
	"github.com/buckleypaul/comsetup/internal/serial"
)

// SessionLog is the operator-facing log. Screenshots are stored in Dir.
type SessionLog interface {
	Log(message string) error
	Dir() string
}

// Runner runs one setup session over an ordered device list.
type Runner struct {
	Enumerator    serial.Enumerator
	Notifier      notify.Notifier
	Capturer      screenshot.Capturer
	Log           SessionLog
	Interval      time.Duration
	WaitTimeout   time.Duration
	ScreenshotExt string
	Now           func() time.Time

	diag zerolog.Logger
}

// Run prompts for each device in order and waits for it to appear.
//
// Errors raised while handling devices are caught: they are logged, shown
// in an error dialog, and reported in Result.Err with StatusAborted. The
// returned error is non-nil only when the session could not start at all
// (session log unwritable or ports not listable).
func (r *Runner) Run(ctx context.Context, devices []Device) (Result, error) {
	r.diag = logging.WithComponent("setup")
	if r.Now == nil {
		r.Now = time.Now
	}

	res := Result{
		Detected: make(map[string]string, len(devices)),
		Started:  r.Now(),
	}

	if err := r.Log.Log("==== Starting USB Device Setup ===="); err != nil {
		return r.finish(res, StatusAborted, err), err
	}
	initial, err := r.Enumerator.ListPorts()
	if err != nil {
		err = fmt.Errorf("snapshot ports: %w", err)
		return r.finish(res, StatusAborted, err), err
	}

	snapshot := serial.PortMap(initial)
	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	seen := NewSeenPorts(names...)
	watcher := serial.NewWatcher(r.Enumerator, r.Log, r.Interval)
	r.diag.Info().
		Interface("ports", snapshot).
		Int("devices", len(devices)).
		Dur("interval", watcher.Interval()).
		Msg("session started")

	for _, d := range devices {
		det, err := r.setupDevice(ctx, watcher, seen, d)
		if err != nil {
			return r.abort(res, err), nil
		}
		res.Detected[d.Name] = det.Port
		res.Detections = append(res.Detections, det)
	}

	if err := r.Notifier.Notify("Setup Complete", "All devices have been detected and logged."); err != nil {
		return r.abort(res, err), nil
	}
	if err := r.Log.Log("Setup completed successfully."); err != nil {
		return r.abort(res, err), nil
	}

	r.diag.Info().Int("devices", len(res.Detections)).Msg("session completed")
	return r.finish(res, StatusCompleted, nil), nil
}

func (r *Runner) setupDevice(ctx context.Context, w *serial.Watcher, seen *SeenPorts, d Device) (Detection, error) {
	if err := r.Notifier.Notify("Device Setup", fmt.Sprintf("Please plug in %s now.", d.Name)); err != nil {
		return Detection{}, err
	}
	if err := r.Log.Log(fmt.Sprintf("Prompted user to connect %s", d.Name)); err != nil {
		return Detection{}, err
	}

	waitCtx := ctx
	if r.WaitTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, r.WaitTimeout)
		defer cancel()
	}

	port, err := w.AwaitNewPort(waitCtx, seen.Contains)
	if err != nil {
		return Detection{}, fmt.Errorf("waiting for %s: %w", d.Name, err)
	}
	if err := r.Log.Log(fmt.Sprintf("Detected %s on %s (HWID: %s)", d.Name, port.Name, port.HWID)); err != nil {
		return Detection{}, err
	}

	det := Detection{
		Device:       d.Name,
		Port:         port.Name,
		HWID:         port.HWID,
		ExpectedPort: d.ExpectedPort,
		Matched:      d.ExpectedPort == "" || strings.EqualFold(d.ExpectedPort, port.Name),
		DetectedAt:   r.Now(),
	}
	if !det.Matched {
		r.diag.Warn().
			Str("device", d.Name).
			Str("expected", d.ExpectedPort).
			Str("port", port.Name).
			Msg("device appeared on a different port than expected")
	}

	det.Screenshot = filepath.Join(r.Log.Dir(), screenshot.FileName(det.DetectedAt, d.Name, r.ScreenshotExt))
	if r.Capturer != nil {
		r.Capturer.Capture(det.Screenshot)
	}

	msg := fmt.Sprintf("%s detected on %s\nHWID: %s", d.Name, port.Name, port.HWID)
	if err := r.Notifier.Notify("Device Detected", msg); err != nil {
		return Detection{}, err
	}

	if !seen.Claim(port.Name) {
		return Detection{}, fmt.Errorf("port %s already claimed by another device", port.Name)
	}
	return det, nil
}

// abort reports a caught error through the log and an error dialog. Both
// are best effort; the error is not raised further.
func (r *Runner) abort(res Result, err error) Result {
	if logErr := r.Log.Log(fmt.Sprintf("Error during setup: %v", err)); logErr != nil {
		r.diag.Error().Err(logErr).Msg("could not record setup error")
	}
	if dlgErr := r.Notifier.Error("Setup Error", err.Error()); dlgErr != nil {
		r.diag.Error().Err(dlgErr).Msg("could not show error dialog")
	}
	r.diag.Error().Err(err).Int("detected", len(res.Detections)).Msg("session aborted")
	return r.finish(res, StatusAborted, err)
}

func (r *Runner) finish(res Result, status Status, err error) Result {
	res.Status = status
	res.Err = err
	res.Finished = r.Now()
	return res
}
