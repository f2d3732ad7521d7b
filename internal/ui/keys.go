package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Escape     key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Reload     key.Binding

	// View switching
	FilmList  key.Binding
	WatchList key.Binding

	// List
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Copy   key.Binding

	// Form
	AddFilm   key.Binding
	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "Beenden"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Formular verlassen / Beenden"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Hilfe"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Farbschema wechseln"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Neu laden"),
		),

		FilmList: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Film-Liste"),
		),
		WatchList: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Watch-Liste"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "Nach oben"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "Nach unten"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Anfang"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Ende"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "Titel kopieren"),
		),

		AddFilm: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Film hinzufügen"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Nächstes Feld"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Vorheriges Feld"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Speichern"),
		),
	}
}

// ShortHelp returns key bindings for the command bar.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.FilmList, k.WatchList, k.AddFilm, k.Reload, k.Help, k.Quit}
}

// FormHelp returns the bindings shown while the add form has focus.
func (k keyMap) FormHelp() []key.Binding {
	return []key.Binding{k.NextField, k.PrevField, k.Submit, k.Escape}
}

// FullHelp returns key bindings grouped for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.FilmList, k.WatchList, k.Reload},
		{k.Up, k.Down, k.Top, k.Bottom, k.Copy},
		{k.AddFilm, k.NextField, k.PrevField, k.Submit, k.Escape},
		{k.CycleTheme, k.Help, k.Quit},
	}
}
