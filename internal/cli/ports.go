package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/buckleypaul/comsetup/internal/serial"
	"github.com/buckleypaul/comsetup/internal/ui"
)

const hwidColumnWidth = 40

func newPortsCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ports [query]",
		Short: "List attached serial ports",
		Long:  `List serial ports visible to the OS with their hardware IDs. An optional query fuzzy-matches port name, hardware ID and product.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ports, err := newEnumerator().ListPorts()
			if err != nil {
				return fmt.Errorf("failed to list ports: %w", err)
			}
			if len(args) == 1 {
				ports = filterPorts(ports, args[0])
			}
			if g.jsonOutput {
				return printJSON(cmd.OutOrStdout(), ports)
			}
			return printPorts(cmd.OutOrStdout(), ports, isTerminalWriter(cmd.OutOrStdout()))
		},
	}
}

type portSource []serial.Port

func (s portSource) String(i int) string {
	p := s[i]
	return p.Name + " " + p.HWID + " " + p.Product
}

func (s portSource) Len() int { return len(s) }

// filterPorts keeps ports matching query, best match first.
func filterPorts(ports []serial.Port, query string) []serial.Port {
	matches := fuzzy.FindFrom(query, portSource(ports))
	out := make([]serial.Port, 0, len(matches))
	for _, m := range matches {
		out = append(out, ports[m.Index])
	}
	return out
}

// printPorts writes the port table. styled adds a heading and a summary
// line for terminals.
func printPorts(w io.Writer, ports []serial.Port, styled bool) error {
	if len(ports) == 0 {
		fmt.Fprintln(w, "No serial ports found.")
		return nil
	}

	if styled {
		fmt.Fprintln(w, ui.Title("Serial ports"))
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PORT\tHWID\tPRODUCT")
	fmt.Fprintln(tw, "----\t----\t-------")
	for _, p := range ports {
		product := p.Product
		if product == "" {
			product = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Name, ui.Truncate(p.HWID, hwidColumnWidth), product)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if styled {
		fmt.Fprintln(w, ui.Footnote(fmt.Sprintf("%d port(s)", len(ports))))
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
