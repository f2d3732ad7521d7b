package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/flimmer/internal/app"
	"github.com/five82/flimmer/internal/films"
)

func (a *App) addCmd() *cobra.Command {
	var (
		year string
		seen bool
	)

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a film",
		Long: `Add a film to the collection. New films are unwatched and therefore
also appear on the watch list, unless --seen is given.`,
		Example: `  flimmer add "Der Himmel über Berlin" --year 1987
  flimmer add Heat --seen`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var title string
			if len(args) == 1 {
				title = args[0]
			}
			film, err := films.New(title, year)
			if errors.Is(err, films.ErrEmptyTitle) {
				// Validated before any request is made.
				return errors.New(films.TextTitleRequired)
			}
			if err != nil {
				return err
			}
			film.Watched = seen

			env, err := app.Setup(a.opts)
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			syncer := env.NewSyncer()
			// Load first so the cache keeps the whole collection. A failed
			// load does not stop the add; the syncer only writes the cache
			// when it holds a loaded list.
			if err := syncer.Refresh(a.ctx); err != nil {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), formatWarning(films.TextLoadFailed+": "+err.Error()))
			}
			stored, err := syncer.Add(a.ctx, film)
			if err != nil {
				return fmt.Errorf("%s: %w", films.TextSaveFailed, err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Hinzugefügt: %s\n", formatTitle(stored.Label()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&year, "year", "y", "", "Release year (optional)")
	cmd.Flags().BoolVar(&seen, "seen", false, "Mark the film as already watched")
	return cmd
}
