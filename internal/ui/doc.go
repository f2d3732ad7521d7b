// Package ui implements the flimmer terminal interface with Bubble Tea.
//
// # Views
//
// Two views share one implementation (listView) and differ only in their
// heading and filter:
//
//   - 1: the film list, every film of the collection
//   - 2: the watch list, films not yet marked as watched
//
// Each view owns a state.Syncer. Mounting a view (at start or when switching)
// fetches its collection in a tea.Cmd and tells the poller, via
// Options.OnMount, which syncer to keep refreshing. A one second tick re-reads
// the mounted store so poller results show up without user input.
//
// # Add form
//
// Below the list sit a title input, a year input and a button. Tab and
// shift+tab move between them; enter in any of them submits. An empty title
// shows the validation text and never reaches the backend. After a successful
// add the film is appended, the inputs are cleared and focus returns to the
// title input. A failed add keeps the form contents.
//
// While an input has focus it receives every key except tab, shift+tab,
// enter, esc and ctrl+c; esc leaves the form, a second esc quits.
//
// # Messages
//
//	tickMsg          re-read the mounted store
//	snapshotMsg      store contents for a view
//	filmsLoadedMsg   fetch finished
//	filmsErrorMsg    fetch or add failed (op tells which)
//	filmAddedMsg     add finished
//	flashClearMsg    hide a transient status message
//
// Only Update mutates the model; network I/O happens inside commands.
package ui
