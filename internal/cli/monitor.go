package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/buckleypaul/comsetup/internal/serial"
)

func newMonitorCmd() *cobra.Command {
	var (
		baud int
		send string
	)

	cmd := &cobra.Command{
		Use:   "monitor <port>",
		Short: "Print data received on a serial port",
		Long: `Open a serial port and print whatever the device sends until interrupted. Useful to check a scanner right after setup.
With --send, the text is written to the port (followed by CR LF) before streaming, e.g. a scanner trigger command.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := newMonitor()
			if err := m.Connect(args[0], baud); err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer m.Disconnect()

			fmt.Fprintf(cmd.ErrOrStderr(), "Monitoring %s @ %d (ctrl+c to stop)\n", m.PortName(), baud)

			if send != "" {
				if err := m.Write([]byte(send + "\r\n")); err != nil {
					return fmt.Errorf("failed to send to %s: %w", m.PortName(), err)
				}
			}

			ctx, stop := interruptContext(cmd.Context())
			defer stop()
			return m.Stream(ctx, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVarP(&baud, "baud", "b", serial.DefaultBaudRate, "Baud rate")
	cmd.Flags().StringVar(&send, "send", "", "Text to write to the port before streaming")
	return cmd
}
