// Package notify shows blocking modal dialogs to the operator.
package notify

import (
	"errors"
	"fmt"
)

// ErrUnavailable is returned when there is no interactive session that can
// show a dialog. Callers treat it as fatal.
var ErrUnavailable = errors.New("no interactive session available for dialogs")

// ErrInterrupted is returned when the operator aborts a terminal dialog
// with ctrl+c instead of dismissing it.
var ErrInterrupted = errors.New("dialog interrupted")

// Notifier displays a modal dialog and returns once it is dismissed.
type Notifier interface {
	Notify(title, text string) error
	Error(title, text string) error
}

const (
	KindDesktop  = "desktop"
	KindTerminal = "terminal"
)

// New returns the notifier for kind. An empty kind selects the desktop.
func New(kind string) (Notifier, error) {
	switch kind {
	case "", KindDesktop:
		return Desktop{}, nil
	case KindTerminal:
		return NewTerminal(), nil
	default:
		return nil, fmt.Errorf("unknown dialog kind %q (want %s or %s)", kind, KindDesktop, KindTerminal)
	}
}
