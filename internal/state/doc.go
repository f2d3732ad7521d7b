// Package state holds the film collection each view renders.
//
// A Store is a mutex-guarded snapshot shared between the background poller
// (writer) and the TUI refresh loop (reader):
//
//	Poller:                        UI:
//	┌──────────────────┐          ┌──────────────────┐
//	│ Syncer.Refresh() │          │                  │
//	│       ↓          │          │                  │
//	│ store.Update()   │─────────→│ store.Snapshot() │
//	│       ↓          │ (mutex)  │       ↓          │
//	│  repeat...       │          │  render view     │
//	└──────────────────┘          └──────────────────┘
//
// Update semantics:
//
//	store.Update(items, nil)  // replace films, clear error, reset failures
//	store.Update(nil, err)    // keep films, record err, failures++
//
// Snapshot returns copies, so the UI may hold on to a snapshot while the
// poller writes the next one. The zero Store is ready to use.
//
// Syncer ties a Store to a films.Fetcher and an optional Cache. A failed
// refresh on a store that never loaded falls back to the cached collection,
// which is flagged as Stale until live data arrives.
package state
