package ui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/five82/flimmer/internal/films"
	"github.com/five82/flimmer/internal/prefs"
	"github.com/five82/flimmer/internal/state"
)

// fakeBackend serves /films from memory and records requests.
type fakeBackend struct {
	mu       sync.Mutex
	items    []films.Film
	gets     int
	posts    []films.Film
	getCode  int
	postCode int
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if r.URL.Path != "/films" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		b.gets++
		if b.getCode != 0 {
			w.WriteHeader(b.getCode)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		items := b.items
		if items == nil {
			items = []films.Film{}
		}
		_ = json.NewEncoder(w).Encode(items)
	case http.MethodPost:
		var f films.Film
		_ = json.NewDecoder(r.Body).Decode(&f)
		b.posts = append(b.posts, f)
		if b.postCode != 0 {
			w.WriteHeader(b.postCode)
			return
		}
		f.ID = int64(len(b.items) + 1)
		b.items = append(b.items, f)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(f)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (b *fakeBackend) counts() (gets, posts int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.gets, len(b.posts)
}

func (b *fakeBackend) set(fn func(b *fakeBackend)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(b)
}

func newSyncer(t *testing.T, url string) *state.Syncer {
	t.Helper()
	client, err := films.NewClient(url, time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return &state.Syncer{Store: &state.Store{}, Fetcher: client}
}

// newTestModel builds a sized model and runs its mount fetch.
func newTestModel(t *testing.T, backend *fakeBackend, opts Options) Model {
	t.Helper()

	prevProfile := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() {
		lipgloss.SetColorProfile(prevProfile)
	})

	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	opts.Films = newSyncer(t, srv.URL)
	opts.Watch = newSyncer(t, srv.URL)
	if opts.PollTick == 0 {
		opts.PollTick = time.Hour
	}

	m := New(opts)
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	return drive(t, m, m.Init())
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

// press sends a key and runs the command it returns.
func press(t *testing.T, m Model, msg tea.KeyMsg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	return drive(t, next.(Model), cmd)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drive runs cmd and feeds the resulting messages back into the model.
// Timers and cursor blinks do not finish in time and are dropped.
func drive(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for _, msg := range collect(cmd) {
		m = update(t, m, msg)
	}
	return m
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	select {
	case msg := <-done:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, collect(c)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(300 * time.Millisecond):
		return nil
	}
}

func plainView(m Model) string {
	return ansi.Strip(m.View())
}

func TestFilmList_EmptyCollection(t *testing.T) {
	backend := &fakeBackend{}
	m := newTestModel(t, backend, Options{})

	out := plainView(m)
	for _, want := range []string{
		films.TextFilmListTitle,
		films.TextNoFilms,
		films.TextYearPlaceholder,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
	// Placeholder of the title input and the button label.
	if n := strings.Count(out, films.TextAddButton); n < 2 {
		t.Errorf("view contains %q %d times, want placeholder and button:\n%s", films.TextAddButton, n, out)
	}
	if gets, _ := backend.counts(); gets != 1 {
		t.Fatalf("GET count = %d, want 1 on mount", gets)
	}
	if m.views[ViewFilms].loading {
		t.Fatal("view still loading after fetch")
	}
}

func TestFilmList_ShowsFilms(t *testing.T) {
	backend := &fakeBackend{items: []films.Film{
		{ID: 1, Title: "Alien", Year: "1979"},
		{ID: 2, Title: "Heat", Watched: true},
	}}
	m := newTestModel(t, backend, Options{})

	out := plainView(m)
	if !strings.Contains(out, "Alien (1979)") || !strings.Contains(out, "Heat") {
		t.Fatalf("view missing films:\n%s", out)
	}
	if strings.Contains(out, films.TextNoFilms) {
		t.Fatalf("warning shown for non-empty list:\n%s", out)
	}
}

func TestSubmit_EmptyTitleNeverPosts(t *testing.T) {
	backend := &fakeBackend{}
	m := newTestModel(t, backend, Options{})

	m = press(t, m, runes("a"))
	if m.views[ViewFilms].focus != focusTitle {
		t.Fatalf("focus = %v, want title input", m.views[ViewFilms].focus)
	}
	m = press(t, m, runes("   "))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if _, posts := backend.counts(); posts != 0 {
		t.Fatalf("POST count = %d, want 0", posts)
	}
	if out := plainView(m); !strings.Contains(out, films.TextTitleRequired) {
		t.Fatalf("view missing validation text:\n%s", out)
	}
}

func TestSubmit_EmptyTitleFromAddButton(t *testing.T) {
	backend := &fakeBackend{}
	m := newTestModel(t, backend, Options{})

	m = press(t, m, runes("a"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.views[ViewFilms].focus != focusButton {
		t.Fatalf("focus = %v, want add button", m.views[ViewFilms].focus)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if _, posts := backend.counts(); posts != 0 {
		t.Fatalf("POST count = %d, want 0", posts)
	}
	if out := plainView(m); !strings.Contains(out, films.TextTitleRequired) {
		t.Fatalf("view missing validation text:\n%s", out)
	}
	if m.views[ViewFilms].focus != focusTitle {
		t.Fatalf("focus = %v, want title input after failed validation", m.views[ViewFilms].focus)
	}
}

func TestWatchList_EmptyTitleNeverPosts(t *testing.T) {
	backend := &fakeBackend{}
	m := newTestModel(t, backend, Options{View: ViewWatch})

	out := plainView(m)
	if !strings.Contains(out, films.TextWatchListTitle) || !strings.Contains(out, films.TextNoFilms) {
		t.Fatalf("watch list not mounted:\n%s", out)
	}

	m = press(t, m, runes("a"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if _, posts := backend.counts(); posts != 0 {
		t.Fatalf("POST count = %d, want 0", posts)
	}
	if out := plainView(m); !strings.Contains(out, films.TextTitleRequired) {
		t.Fatalf("watch list missing validation text:\n%s", out)
	}
}

func TestSubmit_AddsFilmAndClearsError(t *testing.T) {
	backend := &fakeBackend{}
	m := newTestModel(t, backend, Options{})

	m = press(t, m, runes("a"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.views[ViewFilms].formErr != films.TextTitleRequired {
		t.Fatalf("formErr = %q, want validation text", m.views[ViewFilms].formErr)
	}

	m = press(t, m, runes("Heat"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = press(t, m, runes("1995"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.views[ViewFilms].focus != focusButton {
		t.Fatalf("focus = %v, want button", m.views[ViewFilms].focus)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	backend.mu.Lock()
	posts := append([]films.Film(nil), backend.posts...)
	backend.mu.Unlock()
	if len(posts) != 1 || posts[0].Title != "Heat" || posts[0].Year != "1995" || posts[0].Watched {
		t.Fatalf("posted %#v, want Heat (1995) unwatched", posts)
	}

	v := m.views[ViewFilms]
	if v.title.Value() != "" || v.year.Value() != "" {
		t.Fatalf("inputs not cleared: %q %q", v.title.Value(), v.year.Value())
	}
	if v.focus != focusTitle {
		t.Fatalf("focus = %v, want title input", v.focus)
	}
	out := plainView(m)
	if !strings.Contains(out, "Heat (1995)") {
		t.Fatalf("view missing added film:\n%s", out)
	}
	if strings.Contains(out, films.TextTitleRequired) || strings.Contains(out, films.TextNoFilms) {
		t.Fatalf("stale feedback after add:\n%s", out)
	}
}

func TestSubmit_FailureKeepsForm(t *testing.T) {
	backend := &fakeBackend{postCode: http.StatusInternalServerError}
	m := newTestModel(t, backend, Options{})

	m = press(t, m, runes("a"))
	m = press(t, m, runes("Heat"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	v := m.views[ViewFilms]
	if v.title.Value() != "Heat" {
		t.Fatalf("title = %q, want form kept", v.title.Value())
	}
	if v.submitting {
		t.Fatal("still submitting after failure")
	}
	out := plainView(m)
	if !strings.Contains(out, films.TextSaveFailed) {
		t.Fatalf("view missing save failure:\n%s", out)
	}
	if !strings.Contains(out, films.TextNoFilms) {
		t.Fatalf("failed add should not add a row:\n%s", out)
	}
}

func TestWatchList_HidesWatchedFilms(t *testing.T) {
	backend := &fakeBackend{items: []films.Film{
		{ID: 1, Title: "Alien", Watched: true},
		{ID: 2, Title: "Dune"},
	}}
	m := newTestModel(t, backend, Options{View: ViewWatch})

	out := plainView(m)
	if !strings.Contains(out, films.TextWatchListTitle) {
		t.Fatalf("view missing watch list title:\n%s", out)
	}
	if !strings.Contains(out, "Dune") || strings.Contains(out, "Alien") {
		t.Fatalf("watch list should show only unwatched films:\n%s", out)
	}
}

func TestWatchList_EmptyAfterFilter(t *testing.T) {
	backend := &fakeBackend{items: []films.Film{{ID: 1, Title: "Alien", Watched: true}}}
	m := newTestModel(t, backend, Options{View: ViewWatch})

	if out := plainView(m); !strings.Contains(out, films.TextNoFilms) {
		t.Fatalf("view missing warning:\n%s", out)
	}
}

func TestSwitchView_MountsAndFetches(t *testing.T) {
	backend := &fakeBackend{items: []films.Film{{ID: 1, Title: "Alien"}}}
	var mounted []*state.Syncer
	m := newTestModel(t, backend, Options{OnMount: func(s *state.Syncer) { mounted = append(mounted, s) }})

	m = press(t, m, runes("2"))
	if m.current != ViewWatch {
		t.Fatalf("current = %v, want watch list", m.current)
	}
	if gets, _ := backend.counts(); gets != 2 {
		t.Fatalf("GET count = %d, want a fetch per mount", gets)
	}
	if len(mounted) != 2 || mounted[1] != m.views[ViewWatch].syncer {
		t.Fatalf("OnMount calls = %d, want film then watch syncer", len(mounted))
	}
	if out := plainView(m); !strings.Contains(out, films.TextWatchListTitle) || !strings.Contains(out, "Alien") {
		t.Fatalf("watch list not rendered:\n%s", out)
	}

	m = press(t, m, runes("2"))
	if gets, _ := backend.counts(); gets != 2 {
		t.Fatalf("GET count = %d, switching to the mounted view should not refetch", gets)
	}
}

func TestReload_FailureKeepsFilms(t *testing.T) {
	backend := &fakeBackend{items: []films.Film{{ID: 1, Title: "Alien"}}}
	m := newTestModel(t, backend, Options{})

	backend.set(func(b *fakeBackend) { b.getCode = http.StatusNotFound })
	m = press(t, m, runes("r"))

	out := plainView(m)
	if !strings.Contains(out, "Alien") {
		t.Fatalf("previous films lost:\n%s", out)
	}
	if !strings.Contains(out, films.TextLoadFailed) {
		t.Fatalf("view missing load failure:\n%s", out)
	}
	if !strings.Contains(out, "HTTP 404") {
		t.Fatalf("status bar missing error class:\n%s", out)
	}

	backend.set(func(b *fakeBackend) { b.getCode = 0 })
	m = press(t, m, runes("r"))
	if out := plainView(m); strings.Contains(out, films.TextLoadFailed) {
		t.Fatalf("failure text should clear after a good reload:\n%s", out)
	}
}

func TestTypingInInputIgnoresShortcuts(t *testing.T) {
	backend := &fakeBackend{}
	m := newTestModel(t, backend, Options{})

	m = press(t, m, runes("a"))
	m = press(t, m, runes("2"))
	if m.current != ViewFilms {
		t.Fatal("view switched while typing")
	}
	if got := m.views[ViewFilms].title.Value(); got != "2" {
		t.Fatalf("title = %q, want typed digit", got)
	}
}

func TestEscape_LeavesFormThenQuits(t *testing.T) {
	backend := &fakeBackend{}
	m := newTestModel(t, backend, Options{})

	m = press(t, m, runes("a"))
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	if m.views[ViewFilms].focus != focusList {
		t.Fatalf("focus = %v, want list", m.views[ViewFilms].focus)
	}
	if cmd != nil {
		if _, quit := cmd().(tea.QuitMsg); quit {
			t.Fatal("first esc quit the program")
		}
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("second esc returned no command")
	}
	if _, quit := cmd().(tea.QuitMsg); !quit {
		t.Fatal("second esc should quit")
	}
}

func TestCopySelectedTitle(t *testing.T) {
	var copied string
	prev := writeClipboard
	writeClipboard = func(s string) error {
		copied = s
		return nil
	}
	t.Cleanup(func() { writeClipboard = prev })

	backend := &fakeBackend{items: []films.Film{{Title: "Alien"}, {Title: "Dune"}}}
	m := newTestModel(t, backend, Options{})

	m = press(t, m, runes("j"))
	m = press(t, m, runes("y"))
	if copied != "Dune" {
		t.Fatalf("copied %q, want Dune", copied)
	}
	if !strings.Contains(plainView(m), "Kopiert: Dune") {
		t.Fatalf("missing copy confirmation:\n%s", plainView(m))
	}
}

func TestNavigationClamps(t *testing.T) {
	backend := &fakeBackend{items: []films.Film{{Title: "A"}, {Title: "B"}, {Title: "C"}}}
	m := newTestModel(t, backend, Options{})

	m = press(t, m, runes("G"))
	if got := m.views[ViewFilms].selected; got != 2 {
		t.Fatalf("selected = %d after G, want 2", got)
	}
	m = press(t, m, runes("j"))
	if got := m.views[ViewFilms].selected; got != 2 {
		t.Fatalf("selected = %d past end, want 2", got)
	}
	m = press(t, m, runes("g"))
	m = press(t, m, runes("k"))
	if got := m.views[ViewFilms].selected; got != 0 {
		t.Fatalf("selected = %d past start, want 0", got)
	}
}

func TestCycleThemePersistsPrefs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	backend := &fakeBackend{}
	m := newTestModel(t, backend, Options{ThemeName: "Nightfox", PrefsPath: path})

	m = press(t, m, runes("T"))
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", m.theme.Name)
	}
	got := prefs.Load(path)
	if got.Theme != "Kanagawa" || got.LastView != "films" {
		t.Fatalf("prefs = %+v, want Kanagawa/films", got)
	}
}

func TestHelpOverlay(t *testing.T) {
	backend := &fakeBackend{}
	m := newTestModel(t, backend, Options{})

	m = press(t, m, runes("?"))
	if out := plainView(m); !strings.Contains(out, "Tastenkürzel") {
		t.Fatalf("help not shown:\n%s", out)
	}
	m = press(t, m, runes("x"))
	if m.showHelp {
		t.Fatal("any key should close help")
	}
}

func TestWarningAndSpinnerBeforeFirstLoad(t *testing.T) {
	prevProfile := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() { lipgloss.SetColorProfile(prevProfile) })

	m := New(Options{Films: &state.Syncer{Store: &state.Store{}}, Context: context.Background()})
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	out := plainView(m)
	if !strings.Contains(out, "lädt") {
		t.Fatalf("spinner text missing before first load:\n%s", out)
	}
	if !strings.Contains(out, films.TextNoFilms) {
		t.Fatalf("warning missing before first load:\n%s", out)
	}
}

func TestParseView(t *testing.T) {
	tests := map[string]ViewID{
		"":          ViewFilms,
		"films":     ViewFilms,
		"watch":     ViewWatch,
		" Watch ":   ViewWatch,
		"watchlist": ViewWatch,
		"2":         ViewWatch,
		"bogus":     ViewFilms,
	}
	for in, want := range tests {
		if got := ParseView(in); got != want {
			t.Errorf("ParseView(%q) = %v, want %v", in, got, want)
		}
	}
	if ViewWatch.String() != "watch" || ViewFilms.String() != "films" {
		t.Fatal("String() does not round-trip through ParseView")
	}
}
