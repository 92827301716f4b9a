package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/buckleypaul/comsetup/internal/config"
	"github.com/buckleypaul/comsetup/internal/logging"
	"github.com/buckleypaul/comsetup/internal/sessionlog"
	"github.com/buckleypaul/comsetup/internal/setup"
	"github.com/buckleypaul/comsetup/internal/store"
)

type runOptions struct {
	*globalOptions
	plan       string
	dialog     string
	logDir     string
	interval   time.Duration
	timeout    time.Duration
	ext        string
	strictExit bool
}

func newRunCmd(g *globalOptions) *cobra.Command {
	o := &runOptions{globalOptions: g}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the guided device setup",
		Long: `Prompt for each device in the plan, wait for its serial port to appear,
and record the detection. The exit code is 0 even when setup is aborted,
unless --strict-exit is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetup(cmd, o)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.plan, "plan", "p", "", "Device plan file (.yaml, .yml or .json)")
	f.StringVar(&o.dialog, "dialog", "", "Dialog style: desktop or terminal")
	f.StringVar(&o.logDir, "log-dir", "", "Directory for the session log and screenshots")
	f.DurationVar(&o.interval, "interval", 0, "Port poll interval")
	f.DurationVar(&o.timeout, "timeout", 0, "Give up waiting for a device after this long (0 waits forever)")
	f.StringVar(&o.ext, "screenshot-ext", "", "Screenshot format by extension: .png or .jpg")
	f.BoolVar(&o.strictExit, "strict-exit", false, "Exit non-zero when setup is aborted")
	return cmd
}

// applyFlags layers explicitly set flags over the loaded config.
func applyFlags(cmd *cobra.Command, o *runOptions, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("dialog") {
		cfg.Dialog = o.dialog
	}
	if f.Changed("log-dir") {
		cfg.LogDir = o.logDir
	}
	if f.Changed("interval") {
		cfg.PollInterval = o.interval.String()
	}
	if f.Changed("timeout") {
		cfg.WaitTimeout = o.timeout.String()
	}
	if f.Changed("screenshot-ext") {
		cfg.ScreenshotExt = o.ext
	}
	if f.Changed("strict-exit") {
		cfg.StrictExit = o.strictExit
	}
}

func runSetup(cmd *cobra.Command, o *runOptions) error {
	cwd, err := workDir()
	if err != nil {
		return err
	}

	cfg := config.Load(cwd)
	applyFlags(cmd, o, &cfg)

	devices, err := config.ResolveDevices(cfg, o.plan)
	if err != nil {
		return err
	}
	interval, err := cfg.Interval()
	if err != nil {
		return err
	}
	timeout, err := cfg.Timeout()
	if err != nil {
		return err
	}
	notifier, err := newNotifier(cfg.Dialog)
	if err != nil {
		return err
	}

	log := sessionlog.New(cfg.LogDir, cfg.LogFile)
	runner := &setup.Runner{
		Enumerator:    newEnumerator(),
		Notifier:      notifier,
		Capturer:      newCapturer(log),
		Log:           log,
		Interval:      interval,
		WaitTimeout:   timeout,
		ScreenshotExt: cfg.ScreenshotExt,
	}

	ctx, stop := interruptContext(cmd.Context())
	defer stop()

	res, runErr := runner.Run(ctx, devices)
	rec := recordSession(cfg.LogDir, res, log.Path())
	if runErr != nil {
		return runErr
	}

	if o.jsonOutput {
		if err := printJSON(cmd.OutOrStdout(), rec); err != nil {
			return err
		}
	} else if err := printDetections(cmd.OutOrStdout(), res); err != nil {
		return err
	}

	if !res.OK() && cfg.StrictExit {
		return fmt.Errorf("setup aborted: %w", res.Err)
	}
	return nil
}

func historyStore(logDir string) *store.Store {
	return store.New(filepath.Join(logDir, ".comsetup"))
}

// recordSession saves the run to history and returns the stored record.
// When saving fails the record is returned without an ID.
func recordSession(logDir string, res setup.Result, logFile string) store.SessionRecord {
	diag := logging.WithComponent("cli")
	rec := store.RecordFromResult(res, logFile)
	saved, err := historyStore(logDir).AddSession(rec)
	if err != nil {
		diag.Warn().Err(err).Msg("could not save session history")
		return rec
	}
	diag.Debug().Str("session", saved.ID).Msg("session saved")
	return saved
}

func printDetections(w io.Writer, res setup.Result) error {
	if len(res.Detections) == 0 {
		fmt.Fprintf(w, "No devices detected (%s).\n", res.Status)
		return nil
	}

	dets := append([]setup.Detection(nil), res.Detections...)
	sort.SliceStable(dets, func(i, j int) bool { return dets[i].DetectedAt.Before(dets[j].DetectedAt) })

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DEVICE\tPORT\tHWID")
	fmt.Fprintln(tw, "------\t----\t----")
	for _, d := range dets {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Device, d.Port, d.HWID)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nSetup %s: %d device(s) detected.\n", res.Status, len(dets))
	return nil
}
