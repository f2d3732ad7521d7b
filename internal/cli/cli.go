package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/flimmer/internal/app"
	"github.com/five82/flimmer/internal/debuglog"
	"github.com/five82/flimmer/internal/ui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	ctx  context.Context
	opts app.Options
	root *cobra.Command

	debug    bool
	debugLog string
}

// NewApp creates the command tree. ctx bounds every backend request.
func NewApp(ctx context.Context) *App {
	if ctx == nil {
		ctx = context.Background()
	}
	a := &App{ctx: ctx}

	a.root = &cobra.Command{
		Use:   "flimmer",
		Short: "Manage your film list and watch list from the terminal",
		Long: `flimmer keeps a personal film list and a watch list in sync with a
REST backend that serves GET/POST {base}/films.

Without a subcommand the interactive terminal UI starts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return debuglog.Init(a.debug, a.debugLog)
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.Run(a.ctx, a.opts)
		},
	}

	a.root.Flags().StringVar(&a.opts.View, "view", "", "View to open: films or watch (default: last used)")
	a.root.Flags().IntVar(&a.opts.PollEvery, "poll", 0, "Refresh interval in seconds (default: poll_interval from config)")

	pf := a.root.PersistentFlags()
	pf.StringVar(&a.opts.ConfigPath, "config", "", "Config file path (default "+defaultConfigHint+")")
	pf.StringVar(&a.opts.BaseURL, "base-url", "", "Backend base URL, overrides backend_base_url")
	pf.BoolVar(&a.opts.NoCache, "no-cache", false, "Do not read or write the offline cache")
	pf.BoolVar(&a.debug, "debug", false, "Write a JSON debug log to "+debuglog.DefaultPath)
	pf.StringVar(&a.debugLog, "debug-log", debuglog.DefaultPath, "Debug log path used with --debug")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.logCmd())

	return a
}

const defaultConfigHint = "~/.config/flimmer/config.toml"

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "flimmer %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	defer debuglog.Close()
	return a.root.Execute()
}

func (a *App) viewFor(watch bool) ui.ViewID {
	if watch {
		return ui.ViewWatch
	}
	return ui.ViewFilms
}
