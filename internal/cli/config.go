package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/buckleypaul/comsetup/internal/config"
)

func newConfigCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change comsetup settings",
	}
	cmd.AddCommand(newConfigShowCmd(g))
	cmd.AddCommand(newConfigSetCmd())
	return cmd
}

func newConfigShowCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := workDir()
			if err != nil {
				return err
			}
			cfg := config.Load(cwd)
			if g.jsonOutput {
				return printJSON(cmd.OutOrStdout(), cfg)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "log_dir:        %s\n", cfg.LogDir)
			fmt.Fprintf(w, "log_file:       %s\n", cfg.LogFile)
			fmt.Fprintf(w, "poll_interval:  %s\n", cfg.PollInterval)
			fmt.Fprintf(w, "wait_timeout:   %s\n", orNone(cfg.WaitTimeout))
			fmt.Fprintf(w, "dialog:         %s\n", cfg.Dialog)
			fmt.Fprintf(w, "screenshot_ext: %s\n", cfg.ScreenshotExt)
			fmt.Fprintf(w, "strict_exit:    %t\n", cfg.StrictExit)
			fmt.Fprintf(w, "devices:        %d\n", len(cfg.Devices))
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	var global bool

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a setting in the local or global config file",
		Long: fmt.Sprintf(`Change a setting and save it to .comsetup/config.json in the working
directory, or to ~/.config/comsetup/config.json with --global.

Keys: %s`, strings.Join(config.Keys(), ", ")),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := workDir()
			if err != nil {
				return err
			}
			cfg, err := config.LoadFile(cwd, global)
			if err != nil {
				return err
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := config.Save(cfg, cwd, global); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			path, _ := config.Path(cwd, global)
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", args[0], args[1], path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&global, "global", false, "Write the global config instead of the local one")
	return cmd
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
