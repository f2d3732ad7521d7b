// Package app is the composition root for flimmer.
//
// Setup turns Options into an Env: the effective configuration (defaults,
// config file, FLIMMER_* variables, flags), a films.Client for the backend and
// the optional SQLite cache. The CLI commands use Setup directly; Run builds
// one state.Syncer per view on top of it and hands them to the TUI.
//
// Data flow:
//
//	┌──────────┐   mount    ┌────────┐  Set   ┌──────────────┐
//	│  ui.Run  │──────────→ │ Target │←────── │ view switch  │
//	└────┬─────┘            └───┬────┘        └──────────────┘
//	     │ tea.Cmd              │ every PollInterval
//	     ↓                      ↓
//	 Syncer.Refresh/Add     Syncer.Refresh
//	     │                      │
//	     └──────→ state.Store ←─┘
//
// The poller starts one interval after launch, since each view fetches when
// it is mounted. While refreshes fail the delay doubles per failure up to
// maxBackoff; a successful refresh resets it.
package app
