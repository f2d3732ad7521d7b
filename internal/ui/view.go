package ui

import (
	"strings"

	"github.com/five82/flimmer/internal/films"
)

// ViewID identifies one of the two film views.
type ViewID int

const (
	ViewFilms ViewID = iota
	ViewWatch

	viewCount
)

// ParseView maps a flag or prefs value to a view. Unknown values select the
// film list.
func ParseView(s string) ViewID {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "watch", "watchlist", "watch-list", "2":
		return ViewWatch
	default:
		return ViewFilms
	}
}

// String returns the name used in flags and prefs.
func (v ViewID) String() string {
	if v == ViewWatch {
		return "watch"
	}
	return "films"
}

// Title is the page heading of the view.
func (v ViewID) Title() string {
	if v == ViewWatch {
		return films.TextWatchListTitle
	}
	return films.TextFilmListTitle
}

func (v ViewID) tabLabel() string {
	if v == ViewWatch {
		return "Watch-Liste"
	}
	return "Filme"
}

// visible applies the view's filter to the collection.
func (v ViewID) visible(items []films.Film) []films.Film {
	if v == ViewWatch {
		return films.WatchList(items)
	}
	return items
}
