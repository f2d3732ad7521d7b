package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/flimmer/internal/logtail"
)

func (a *App) logCmd() *cobra.Command {
	var lines int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Print the end of the debug log",
		Long: `Print the last entries of the debug log written by --debug.
The path follows --debug-log.`,
		Example: `  flimmer log
  flimmer log -n 100 --debug-log /tmp/flimmer-debug.log`,
		Args: cobra.NoArgs,
		// Reading the log must not truncate it.
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := logtail.Read(a.debugLog, lines)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(out, formatMuted("Kein Debug-Log unter "+a.debugLog))
				return nil
			}
			for _, line := range entries {
				_, _ = fmt.Fprintln(out, formatLogLine(line))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 40, "Number of lines to print (0 prints all)")
	return cmd
}

func formatLogLine(line string) string {
	e, ok := logtail.Parse(line)
	if !ok {
		return line
	}
	event := formatHeader(e.Event)
	if e.IsError() {
		event = formatError(e.Event)
	}
	out := fmt.Sprintf("%s %s", formatMuted(e.Time), event)
	if detail := e.Detail(); detail != "" {
		out += " " + detail
	}
	return out
}
