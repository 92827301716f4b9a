package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/buckleypaul/comsetup/internal/notify"
	"github.com/buckleypaul/comsetup/internal/screenshot"
	"github.com/buckleypaul/comsetup/internal/serial"
)

type fakeNotifier struct {
	titles []string
	errors []string
}

func (f *fakeNotifier) Notify(title, text string) error {
	f.titles = append(f.titles, title)
	return nil
}

func (f *fakeNotifier) Error(title, text string) error {
	f.errors = append(f.errors, text)
	return nil
}

type noCapture struct{}

func (noCapture) Capture(string) {}

// fakes installs scripted collaborators and restores the real ones after
// the test. The enumerator walks listings, repeating the last one.
func fakes(t *testing.T, listings ...[]serial.Port) *fakeNotifier {
	t.Helper()
	origEnum, origNotify, origCapt, origWD := newEnumerator, newNotifier, newCapturer, workDir
	t.Cleanup(func() {
		newEnumerator, newNotifier, newCapturer, workDir = origEnum, origNotify, origCapt, origWD
	})

	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	workDir = func() (string, error) { return tmp, nil }

	n := &fakeNotifier{}
	calls := 0
	newEnumerator = func() serial.Enumerator {
		return serial.FuncEnumerator(func() ([]serial.Port, error) {
			if len(listings) == 0 {
				return nil, errors.New("no serial registry")
			}
			i := calls
			calls++
			if i >= len(listings) {
				i = len(listings) - 1
			}
			return listings[i], nil
		})
	}
	newNotifier = func(kind string) (notify.Notifier, error) { return n, nil }
	newCapturer = func(screenshot.LineLogger) screenshot.Capturer { return noCapture{} }
	return n
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}
