package notify

import (
	"errors"
	"fmt"

	"github.com/ncruces/zenity"
)

// Desktop shows native message boxes: MessageBox on Windows, an alert on
// macOS, and the zenity/kdialog helpers on Linux desktops.
type Desktop struct{}

// Notify implements Notifier.
func (Desktop) Notify(title, text string) error {
	return desktopErr(zenity.Info(text, zenity.Title(title)))
}

// Error implements Notifier.
func (Desktop) Error(title, text string) error {
	return desktopErr(zenity.Error(text, zenity.Title(title)))
}

func desktopErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, zenity.ErrCanceled):
		// Closing the window dismisses it just like OK.
		return nil
	default:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}
