// Package config loads flimmer's runtime configuration.
//
// # Resolution Order
//
// Values are layered, later layers winning:
//
//  1. Built-in defaults (see Default)
//  2. The TOML file at the given path, or ~/.config/flimmer/config.toml
//  3. FLIMMER_* environment variables
//  4. Command-line flags (applied by the caller)
//
// A missing config file is not an error. Only variables carrying the
// FLIMMER_ prefix are read from the environment; everything else in the
// process environment stays invisible to the application.
//
// # TOML Format
//
//	backend_base_url = "http://localhost:8080"
//	request_timeout = "5s"
//	poll_interval = "30s"
//	cache_path = "~/.local/share/flimmer/cache.db"
//	theme = "Nightfox"
//
// Durations use time.ParseDuration syntax. A poll_interval of "0s" disables
// background refreshes. Tilde expansion is applied to cache_path.
//
// # Environment Variables
//
//   - FLIMMER_BACKEND_BASE_URL
//   - FLIMMER_REQUEST_TIMEOUT
//   - FLIMMER_POLL_INTERVAL
//   - FLIMMER_CACHE_PATH
//   - FLIMMER_THEME
package config
