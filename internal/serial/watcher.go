package serial

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/buckleypaul/comsetup/internal/logging"
)

// DefaultPollInterval is the pause between enumerations while waiting.
const DefaultPollInterval = time.Second

// LineLogger receives session log lines. Write failures are returned.
type LineLogger interface {
	Log(message string) error
}

// Watcher polls an Enumerator until a port outside a known set appears.
type Watcher struct {
	enum     Enumerator
	log      LineLogger
	interval time.Duration
	diag     zerolog.Logger
}

// NewWatcher creates a Watcher. A non-positive interval falls back to
// DefaultPollInterval. log may be nil.
func NewWatcher(enum Enumerator, log LineLogger, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Watcher{
		enum:     enum,
		log:      log,
		interval: interval,
		diag:     logging.WithComponent("watcher"),
	}
}

// Interval returns the poll interval in use.
func (w *Watcher) Interval() time.Duration {
	return w.interval
}

// AwaitNewPort blocks until the enumerator reports a port for which seen
// returns false, and returns the first such port in enumeration order.
// There is no built-in timeout; it returns early only when ctx is done or
// the enumerator fails.
func (w *Watcher) AwaitNewPort(ctx context.Context, seen func(name string) bool) (Port, error) {
	if w.log != nil {
		if err := w.log.Log("Waiting for new COM port..."); err != nil {
			return Port{}, err
		}
	}

	for polls := 1; ; polls++ {
		if err := ctx.Err(); err != nil {
			return Port{}, err
		}

		ports, err := w.enum.ListPorts()
		if err != nil {
			return Port{}, fmt.Errorf("poll %d: %w", polls, err)
		}
		for _, p := range ports {
			if !seen(p.Name) {
				w.diag.Debug().Str("port", p.Name).Int("polls", polls).Msg("new port")
				return p, nil
			}
		}

		w.diag.Debug().Int("ports", len(ports)).Int("polls", polls).Msg("no new port")

		timer := time.NewTimer(w.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return Port{}, ctx.Err()
		case <-timer.C:
		}
	}
}
