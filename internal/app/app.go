package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/five82/flimmer/internal/cache"
	"github.com/five82/flimmer/internal/config"
	"github.com/five82/flimmer/internal/debuglog"
	"github.com/five82/flimmer/internal/films"
	"github.com/five82/flimmer/internal/prefs"
	"github.com/five82/flimmer/internal/state"
	"github.com/five82/flimmer/internal/ui"
)

// Options configure the flimmer application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/flimmer/prefs.toml
	BaseURL    string // overrides backend_base_url when set
	PollEvery  int    // seconds; zero uses the configured interval
	View       string // "films" or "watch"; empty uses the last view
	NoCache    bool
}

// Env holds the dependencies shared by the TUI and the CLI commands.
type Env struct {
	Config config.Config
	Client *films.Client
	Cache  *cache.SQLite // nil when the cache is disabled or unavailable
}

// Setup loads configuration, applies flag overrides and builds the backend
// client and offline cache.
func Setup(opts Options) (*Env, error) {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return nil, err
	}

	client, err := films.NewClient(cfg.BackendBaseURL, cfg.RequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("init films client: %w", err)
	}

	env := &Env{Config: cfg, Client: client}
	if !opts.NoCache && cfg.CachePath != "" {
		c, err := cache.Open(cfg.CachePath)
		if err != nil {
			// The cache is optional; run without it.
			debuglog.Error("open cache", err)
		} else {
			env.Cache = c
		}
	}
	return env, nil
}

// LoadConfig returns the effective configuration: defaults, then the config
// file, then FLIMMER_* variables, then flags.
func LoadConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if v := strings.TrimSpace(opts.BaseURL); v != "" {
		cfg.BackendBaseURL = v
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = time.Duration(opts.PollEvery) * time.Second
	}
	return cfg, nil
}

// NewSyncer returns a syncer bound to a fresh store.
func (e *Env) NewSyncer() *state.Syncer {
	s := &state.Syncer{
		Store:    &state.Store{},
		Fetcher:  e.Client,
		CacheKey: e.Client.BaseURL(),
	}
	if e.Cache != nil {
		s.Cache = e.Cache
	}
	return s
}

// Close releases the cache.
func (e *Env) Close() error {
	if e == nil || e.Cache == nil {
		return nil
	}
	return e.Cache.Close()
}

// Run boots the flimmer TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	env, err := Setup(opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := env.Close(); err != nil {
			debuglog.Error("close cache", err)
		}
	}()

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs := prefs.Load(prefsPath)

	theme := userPrefs.Theme
	if env.Config.Theme != "" {
		theme = env.Config.Theme
	}
	view := ui.ParseView(opts.View)
	if strings.TrimSpace(opts.View) == "" {
		view = ui.ParseView(userPrefs.LastView)
	}

	filmSync := env.NewSyncer()
	watchSync := env.NewSyncer()

	target := &Target{}
	StartPoller(ctx, target, env.Config.PollInterval)

	debuglog.Event("APP_START", map[string]any{
		"backend": env.Client.BaseURL(),
		"view":    view.String(),
		"poll":    env.Config.PollInterval.String(),
		"cache":   env.Cache != nil,
		"pid":     os.Getpid(),
	})

	return ui.Run(ui.Options{
		Context:   ctx,
		Films:     filmSync,
		Watch:     watchSync,
		View:      view,
		OnMount:   target.Set,
		PollTick:  time.Second,
		ThemeName: theme,
		PrefsPath: prefsPath,
		Backend:   env.Client.BaseURL(),
	})
}
