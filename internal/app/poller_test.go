package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/five82/flimmer/internal/films"
	"github.com/five82/flimmer/internal/state"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second}, // Would be 32s, capped to 30s
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 20; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

func TestCalculateBackoff_LongInterval(t *testing.T) {
	if got := calculateBackoff(3, time.Minute); got != time.Minute {
		t.Fatalf("calculateBackoff(3, 1m) = %v, want 1m", got)
	}
}

type countingFetcher struct {
	calls atomic.Int32
	err   error
}

func (f *countingFetcher) ListFilms(context.Context) ([]films.Film, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return []films.Film{{Title: "Alien"}}, nil
}

func (f *countingFetcher) AddFilm(_ context.Context, film films.Film) (films.Film, error) {
	return film, nil
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestStartPoller_RefreshesTarget(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fetcher := &countingFetcher{}
	syncer := &state.Syncer{Store: &state.Store{}, Fetcher: fetcher}
	target := &Target{}
	target.Set(syncer)

	StartPoller(ctx, target, 10*time.Millisecond)

	waitFor(t, func() bool { return fetcher.calls.Load() >= 2 })
	if snap := syncer.Store.Snapshot(); !snap.Loaded || len(snap.Films) != 1 {
		t.Fatalf("snapshot = %#v, want poller to fill the store", snap)
	}
}

func TestStartPoller_FollowsTargetChange(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := &countingFetcher{}
	second := &countingFetcher{}
	target := &Target{}
	target.Set(&state.Syncer{Store: &state.Store{}, Fetcher: first})

	StartPoller(ctx, target, 10*time.Millisecond)
	waitFor(t, func() bool { return first.calls.Load() >= 1 })

	target.Set(&state.Syncer{Store: &state.Store{}, Fetcher: second})
	waitFor(t, func() bool { return second.calls.Load() >= 1 })
}

func TestStartPoller_RecordsFailures(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fetcher := &countingFetcher{err: errors.New("connection refused")}
	syncer := &state.Syncer{Store: &state.Store{}, Fetcher: fetcher}
	target := &Target{}
	target.Set(syncer)

	StartPoller(ctx, target, 5*time.Millisecond)

	waitFor(t, func() bool { return syncer.Store.Snapshot().ConsecutiveFailures >= 2 })
	if !syncer.Store.Snapshot().IsOffline() {
		t.Fatal("store should report offline after repeated failures")
	}
}

func TestLoadConfig_FlagsOverride(t *testing.T) {
	t.Setenv("FLIMMER_BACKEND_BASE_URL", "http://env:9000")
	path := t.TempDir() + "/config.toml"

	cfg, err := LoadConfig(Options{ConfigPath: path, PollEvery: 7})
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.BackendBaseURL != "http://env:9000" {
		t.Fatalf("BackendBaseURL = %q, want env value", cfg.BackendBaseURL)
	}
	if cfg.PollInterval != 7*time.Second {
		t.Fatalf("PollInterval = %v, want 7s", cfg.PollInterval)
	}

	cfg, err = LoadConfig(Options{ConfigPath: path, BaseURL: "http://flag:1"})
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.BackendBaseURL != "http://flag:1" {
		t.Fatalf("BackendBaseURL = %q, want flag value", cfg.BackendBaseURL)
	}
}

func TestSetup_WiresCache(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FLIMMER_CACHE_PATH", dir+"/cache.db")

	env, err := Setup(Options{ConfigPath: dir + "/config.toml", BaseURL: "localhost:8080/api"})
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	defer func() { _ = env.Close() }()

	if env.Cache == nil {
		t.Fatal("Setup should open the cache")
	}
	s := env.NewSyncer()
	if s.Cache == nil || s.CacheKey != "http://localhost:8080/api" {
		t.Fatalf("syncer cache=%v key=%q", s.Cache, s.CacheKey)
	}

	noCache, err := Setup(Options{ConfigPath: dir + "/config.toml", NoCache: true})
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	if noCache.Cache != nil || noCache.NewSyncer().Cache != nil {
		t.Fatal("NoCache should leave the cache unset")
	}
}
