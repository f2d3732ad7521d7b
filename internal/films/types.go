package films

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrEmptyTitle is returned when a film is created without a usable title.
var ErrEmptyTitle = errors.New("title cannot be empty")

// Film mirrors a film object of the /films collection.
type Film struct {
	ID      int64  `json:"id,omitempty"`
	Title   string `json:"title"`
	Year    Year   `json:"year,omitempty"`
	Watched bool   `json:"watched"`
}

// New builds a Film from raw form input. The title is required, the year is
// optional and kept as entered.
func New(title, year string) (Film, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Film{}, ErrEmptyTitle
	}
	return Film{Title: title, Year: Year(strings.TrimSpace(year))}, nil
}

// OnWatchList reports whether the film belongs on the watch list.
func (f Film) OnWatchList() bool {
	return !f.Watched
}

// Label returns the title followed by the year in parentheses when known.
func (f Film) Label() string {
	if f.Year.IsZero() {
		return f.Title
	}
	return fmt.Sprintf("%s (%s)", f.Title, f.Year)
}

// WatchList returns the films still to be watched, preserving order.
func WatchList(items []Film) []Film {
	out := make([]Film, 0, len(items))
	for _, f := range items {
		if f.OnWatchList() {
			out = append(out, f)
		}
	}
	return out
}

// Year holds a release year. Backends send it either as a JSON number or as
// text, so both are accepted and the textual form is kept.
type Year string

// IsZero reports whether no year is set.
func (y Year) IsZero() bool {
	return strings.TrimSpace(string(y)) == ""
}

// Int returns the numeric year and whether the value consists of ASCII
// digits only.
func (y Year) Int() (int, bool) {
	s := strings.TrimSpace(string(y))
	if !isDigits(s) {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// MarshalJSON writes the year verbatim when it is a JSON number literal and
// as a string otherwise, so the text survives a round trip unchanged.
func (y Year) MarshalJSON() ([]byte, error) {
	if y.IsZero() {
		return []byte("null"), nil
	}
	s := strings.TrimSpace(string(y))
	if isNumberLiteral(s) {
		return []byte(s), nil
	}
	return json.Marshal(s)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// isNumberLiteral reports whether s is a valid JSON number. Leading zeros
// and plus signs are not.
func isNumberLiteral(s string) bool {
	if s == "" {
		return false
	}
	if c := s[0]; c != '-' && (c < '0' || c > '9') {
		return false
	}
	return json.Valid([]byte(s))
}

// UnmarshalJSON accepts a JSON number, a string, or null.
func (y *Year) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*y = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode year: %w", err)
		}
		*y = Year(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode year: %w", err)
	}
	*y = Year(n.String())
	return nil
}
