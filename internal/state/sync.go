package state

import (
	"context"
	"fmt"
	"time"

	"github.com/five82/flimmer/internal/debuglog"
	"github.com/five82/flimmer/internal/films"
)

// Cache keeps the last collection fetched from a backend.
type Cache interface {
	SaveFilms(ctx context.Context, key string, items []films.Film) error
	LoadFilms(ctx context.Context, key string) ([]films.Film, time.Time, error)
}

// Syncer moves data between the backend, a Store and an optional Cache.
type Syncer struct {
	Store    *Store
	Fetcher  films.Fetcher
	Cache    Cache  // optional
	CacheKey string // usually the backend base URL
}

// Refresh fetches the collection into the store. On failure the store keeps
// its data; if it has none yet, the cached collection is restored.
func (s *Syncer) Refresh(ctx context.Context) error {
	if s == nil || s.Store == nil || s.Fetcher == nil {
		return fmt.Errorf("syncer is not configured")
	}
	gen := s.Store.Generation()
	items, err := s.Fetcher.ListFilms(ctx)
	if err != nil {
		s.Store.UpdateSince(gen, nil, err)
		debuglog.Error("list films", err)
		s.restoreFromCache(ctx)
		return err
	}
	if !s.Store.UpdateSince(gen, items, nil) {
		// A film was added while the list was in flight.
		debuglog.Event("REFRESH_DISCARDED", map[string]any{"films": len(items)})
		return nil
	}
	if s.Cache != nil {
		if err := s.Cache.SaveFilms(ctx, s.CacheKey, items); err != nil {
			debuglog.Error("save film cache", err)
		}
	}
	return nil
}

// Add submits film to the backend and appends the stored version.
func (s *Syncer) Add(ctx context.Context, film films.Film) (films.Film, error) {
	if s == nil || s.Store == nil || s.Fetcher == nil {
		return films.Film{}, fmt.Errorf("syncer is not configured")
	}
	stored, err := s.Fetcher.AddFilm(ctx, film)
	if err != nil {
		debuglog.Error("add film", err)
		return films.Film{}, err
	}
	// Without a loaded collection the store holds only this film; caching
	// it would replace the full list stored earlier.
	loaded := s.Store.Snapshot().Loaded
	s.Store.Append(stored)
	debuglog.Event("FILM_ADDED", map[string]any{"title": stored.Title, "year": string(stored.Year)})
	if s.Cache != nil && loaded {
		if err := s.Cache.SaveFilms(ctx, s.CacheKey, s.Store.Snapshot().Films); err != nil {
			debuglog.Error("save film cache", err)
		}
	}
	return stored, nil
}

func (s *Syncer) restoreFromCache(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	items, cachedAt, err := s.Cache.LoadFilms(ctx, s.CacheKey)
	if err != nil {
		debuglog.Error("load film cache", err)
		return
	}
	if cachedAt.IsZero() {
		return
	}
	if s.Store.Restore(items, cachedAt) {
		debuglog.Event("CACHE_RESTORED", map[string]any{"films": len(items), "cached_at": cachedAt.Format(time.RFC3339)})
	}
}
