package cli

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/buckleypaul/comsetup/internal/config"
	"github.com/buckleypaul/comsetup/internal/store"
	"github.com/buckleypaul/comsetup/internal/ui"
)

func newHistoryCmd(g *globalOptions) *cobra.Command {
	var logDir string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past setup sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := workDir()
			if err != nil {
				return err
			}
			cfg := config.Load(cwd)
			if cmd.Flags().Changed("log-dir") {
				cfg.LogDir = logDir
			}

			sessions, err := historyStore(cfg.LogDir).Sessions()
			if err != nil {
				return fmt.Errorf("failed to read history: %w", err)
			}
			if g.jsonOutput {
				if sessions == nil {
					sessions = []store.SessionRecord{}
				}
				return printJSON(cmd.OutOrStdout(), sessions)
			}
			return printSessions(cmd.OutOrStdout(), sessions, isTerminalWriter(cmd.OutOrStdout()))
		},
	}
	cmd.Flags().StringVar(&logDir, "log-dir", "", "Directory holding the session log")
	return cmd
}

// printSessions writes the history table. styled adds a heading, status
// badges and a summary line for terminals.
func printSessions(w io.Writer, sessions []store.SessionRecord, styled bool) error {
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No sessions recorded.")
		return nil
	}

	if styled {
		fmt.Fprintln(w, ui.Title("Setup sessions"))
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tSTATUS\tDEVICES\tDURATION\tERROR")
	fmt.Fprintln(tw, "-------\t------\t-------\t--------\t-----")
	for _, s := range sessions {
		status := s.Status
		if styled {
			if s.Status == "completed" {
				status = ui.SuccessBadge(s.Status)
			} else {
				status = ui.ErrorBadge(s.Status)
			}
		}
		errText := s.Error
		if errText == "" {
			errText = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			s.Started.Format("2006-01-02 15:04:05"),
			status,
			len(s.Devices),
			s.Duration().Round(time.Second),
			ui.Truncate(errText, 50),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if styled {
		fmt.Fprintln(w, ui.Footnote(fmt.Sprintf("%d session(s)", len(sessions))))
	}
	return nil
}

func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
