package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"

	"github.com/five82/flimmer/internal/app"
	"github.com/five82/flimmer/internal/films"
	"github.com/five82/flimmer/internal/state"
	"github.com/five82/flimmer/internal/ui"
)

func (a *App) listCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the film list or the watch list",
		Long: `Fetch the films collection and print it.

When the backend cannot be reached, the last cached collection is printed
instead, marked with the time it was cached.`,
		Example: `  flimmer list
  flimmer list --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := app.Setup(a.opts)
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			syncer := env.NewSyncer()
			refreshErr := syncer.Refresh(a.ctx)
			snap := syncer.Store.Snapshot()
			if refreshErr != nil {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), formatError(films.TextLoadFailed+": "+refreshErr.Error()))
				if !snap.Loaded {
					return fmt.Errorf("list films: %w", refreshErr)
				}
			}

			printFilms(cmd.OutOrStdout(), a.viewFor(watch), snap, termWidth())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Print the watch list (films not yet watched)")
	return cmd
}

// printFilms writes one view of the collection, truncating rows to width.
func printFilms(w io.Writer, view ui.ViewID, snap state.Snapshot, width int) {
	_, _ = fmt.Fprintln(w, formatHeader(view.Title()))
	if snap.Stale {
		_, _ = fmt.Fprintln(w, formatWarning("Offline-Cache vom "+formatCachedAt(snap.CachedAt)))
	}

	items := snap.Films
	if view == ui.ViewWatch {
		items = films.WatchList(items)
	}
	if len(items) == 0 {
		_, _ = fmt.Fprintln(w, formatWarning(films.TextNoFilms))
		return
	}

	rowWidth := max(width-8, 10)
	for _, f := range items {
		id := "   "
		if f.ID > 0 {
			id = fmt.Sprintf("#%-3d", f.ID)
		}
		label := f.Label()
		if ansi.StringWidth(label) > rowWidth {
			label = ansi.Truncate(label, rowWidth, "…")
		}
		line := fmt.Sprintf("  %s %s", formatMuted(id), formatTitle(label))
		if view == ui.ViewFilms && f.Watched {
			line += " " + formatWatched("✓")
		}
		_, _ = fmt.Fprintln(w, line)
	}
}

func formatCachedAt(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("02.01.2006 15:04")
}
