// Package cli implements the comsetup command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/buckleypaul/comsetup/internal/logging"
	"github.com/buckleypaul/comsetup/internal/notify"
	"github.com/buckleypaul/comsetup/internal/screenshot"
	"github.com/buckleypaul/comsetup/internal/serial"
)

var version = "0.1.0"

// Collaborators are swapped out by tests.
var (
	newEnumerator = func() serial.Enumerator { return serial.SystemEnumerator{} }
	newNotifier   = notify.New
	newCapturer   = func(log screenshot.LineLogger) screenshot.Capturer { return screenshot.NewScreen(log) }
	newMonitor    = serial.NewMonitor
	workDir       = os.Getwd
	notifyContext = signal.NotifyContext
)

type globalOptions struct {
	debug      bool
	logLevel   string
	jsonOutput bool
}

// interruptContext is cancelled on the first SIGINT or SIGTERM. Signal
// handling is released right away, so a second signal terminates the
// process even while a dialog blocks the run.
func interruptContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, stop := notifyContext(parent, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop()
	}()
	return ctx, stop
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}
	run := newRunCmd(g)

	root := &cobra.Command{
		Use:   "comsetup",
		Short: "Guided serial device onboarding",
		Long: `comsetup walks an operator through plugging in a list of serial devices.
For each device it waits for a new COM port, logs it, takes a screenshot
and confirms the detection in a dialog.`,
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         run.RunE,
	}
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := logging.Init(logging.Config{Level: g.logLevel, Debug: g.debug, Output: cmd.ErrOrStderr()}); err != nil {
			return fmt.Errorf("init logging: %w", err)
		}
		return nil
	}

	root.PersistentFlags().BoolVar(&g.debug, "debug", false, "Verbose diagnostics on stderr")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Diagnostic level: debug, info, warn, error (--debug wins)")
	root.PersistentFlags().BoolVar(&g.jsonOutput, "json", false, "Output in JSON format")
	// The bare command behaves like "run", so it shares run's flags.
	root.Flags().AddFlagSet(run.Flags())

	root.AddCommand(run)
	root.AddCommand(newPortsCmd(g))
	root.AddCommand(newHistoryCmd(g))
	root.AddCommand(newMonitorCmd())
	root.AddCommand(newConfigCmd(g))
	return root
}
