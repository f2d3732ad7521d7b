package films

// Fixed user-facing texts shared by the TUI and the CLI.
const (
	TextNoFilms          = "Keine Filme vorhanden"
	TextTitleRequired    = "Bitte geben Sie einen Titel ein."
	TextTitlePlaceholder = "Film hinzufügen"
	TextYearPlaceholder  = "Jahr"
	TextAddButton        = "Film hinzufügen"
	TextFilmListTitle    = "🎬 Meine Film-Liste"
	TextWatchListTitle   = "🎬 Meine Watch-Liste"
	TextLoadFailed       = "Filme konnten nicht geladen werden"
	TextSaveFailed       = "Film konnte nicht gespeichert werden"
)
