// Package cli defines the flimmer command tree.
//
// The root command starts the terminal UI; subcommands cover the same
// operations for scripts:
//
//	flimmer                      start the TUI (--view films|watch, --poll SECONDS)
//	flimmer list [--watch]       print the film list or the watch list
//	flimmer add TITLE [--year Y] add a film
//	flimmer config               print the effective configuration
//	flimmer log [-n N]           print the end of the debug log
//	flimmer version
//
// Global flags: --config, --base-url, --no-cache, --debug, --debug-log.
package cli
