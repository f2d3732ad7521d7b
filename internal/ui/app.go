package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/flimmer/internal/debuglog"
	"github.com/five82/flimmer/internal/films"
	"github.com/five82/flimmer/internal/prefs"
	"github.com/five82/flimmer/internal/state"
)

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

// Options configures the UI.
type Options struct {
	Context context.Context
	Films   *state.Syncer // backs the film list
	Watch   *state.Syncer // backs the watch list
	View    ViewID        // view mounted on start

	// OnMount is told which syncer belongs to the mounted view, so the
	// background poller refreshes only that one.
	OnMount func(*state.Syncer)

	PollTick  time.Duration // how often the mounted store is re-read
	ThemeName string
	PrefsPath string // empty disables saving preferences
	Backend   string // shown in the header
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	keys      keyMap
	prefsPath string
	pollTick  time.Duration
	backend   string
	onMount   func(*state.Syncer)

	// UI state
	theme    Theme
	current  ViewID
	views    [viewCount]listView
	width    int
	height   int
	ready    bool
	showHelp bool

	flash    string
	flashSeq int
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultUIInterval
	}

	m := Model{
		ctx:       ctx,
		keys:      DefaultKeyMap(),
		prefsPath: opts.PrefsPath,
		pollTick:  pollTick,
		backend:   opts.Backend,
		onMount:   opts.OnMount,
		theme:     GetTheme(opts.ThemeName),
		current:   opts.View,
	}
	m.views[ViewFilms] = newListView(ViewFilms, opts.Films)
	m.views[ViewWatch] = newListView(ViewWatch, opts.Watch)
	if m.current < 0 || m.current >= viewCount {
		m.current = ViewFilms
	}
	m.views[m.current].loading = m.views[m.current].syncer != nil
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(m.pollTick),
		m.mountCmd(m.current),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.views[m.current].ensureVisible(m.listHeight())
		return m, nil

	case tickMsg:
		return m, tea.Batch(
			snapshotCmd(m.current, m.views[m.current].syncer),
			tickCmd(m.pollTick),
		)

	case snapshotMsg:
		m.views[msg.view].applySnapshot(msg.snapshot)
		return m, nil

	case filmsLoadedMsg:
		v := &m.views[msg.view]
		v.loading = false
		v.netErr = ""
		v.applySnapshot(msg.snapshot)
		return m, nil

	case filmsErrorMsg:
		return m.handleError(msg)

	case filmAddedMsg:
		v := &m.views[msg.view]
		v.submitting = false
		v.applySnapshot(msg.snapshot)
		v.moveTo(len(v.items()) - 1)
		v.ensureVisible(m.listHeight())
		cmd := tea.Batch(v.resetForm(), m.setFlash("Gespeichert: "+msg.film.Label()))
		return m, cmd

	case flashClearMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
		}
		return m, nil

	case spinner.TickMsg:
		var cmds []tea.Cmd
		for i := range m.views {
			v := &m.views[i]
			if !v.loading && !v.submitting {
				continue
			}
			var cmd tea.Cmd
			v.spinner, cmd = v.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

func (m Model) handleError(msg filmsErrorMsg) (tea.Model, tea.Cmd) {
	v := &m.views[msg.view]
	v.applySnapshot(msg.snapshot)
	if msg.op == opAdd {
		v.submitting = false
		v.netErr = films.TextSaveFailed
		return m, nil
	}
	v.loading = false
	v.netErr = films.TextLoadFailed
	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	debuglog.KeyPress(msg)

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	v := &m.views[m.current]

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Escape):
		if v.focus != focusList {
			cmd := v.setFocus(focusList)
			return m, cmd
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.NextField):
		cmd := v.setFocus(v.focus.next())
		return m, cmd

	case key.Matches(msg, m.keys.PrevField):
		cmd := v.setFocus(v.focus.prev())
		return m, cmd

	case key.Matches(msg, m.keys.Submit) && v.focus != focusList:
		return m.submit()
	}

	// Text inputs swallow everything else.
	if v.focus.isInput() {
		cmd := v.updateInput(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.FilmList):
		return m.switchView(ViewFilms)

	case key.Matches(msg, m.keys.WatchList):
		return m.switchView(ViewWatch)

	case key.Matches(msg, m.keys.Reload):
		cmd := m.reloadCmd()
		return m, cmd

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.AddFilm):
		cmd := v.setFocus(focusTitle)
		return m, cmd

	case key.Matches(msg, m.keys.Up):
		v.move(-1)
	case key.Matches(msg, m.keys.Down):
		v.move(1)
	case key.Matches(msg, m.keys.Top):
		v.moveTo(0)
	case key.Matches(msg, m.keys.Bottom):
		v.moveTo(len(v.items()) - 1)

	case key.Matches(msg, m.keys.Copy):
		cmd := m.copySelected()
		return m, cmd
	}

	v.ensureVisible(m.listHeight())
	return m, nil
}

// submit validates the form of the mounted view and posts the film.
func (m Model) submit() (tea.Model, tea.Cmd) {
	v := &m.views[m.current]
	if v.submitting {
		return m, nil
	}

	film, err := films.New(v.title.Value(), v.year.Value())
	if errors.Is(err, films.ErrEmptyTitle) {
		v.formErr = films.TextTitleRequired
		cmd := v.setFocus(focusTitle)
		return m, cmd
	}
	if err != nil {
		v.formErr = err.Error()
		return m, nil
	}
	// Both views add unwatched films.
	film.Watched = false

	v.submitting = true
	v.netErr = ""
	cmd := tea.Batch(addFilmCmd(m.ctx, m.current, v.syncer, film), v.spinner.Tick)
	return m, cmd
}

func (m Model) switchView(id ViewID) (tea.Model, tea.Cmd) {
	if id == m.current {
		return m, nil
	}
	debuglog.ViewChange(m.current.String(), id.String(), "key")
	m.current = id
	m.savePrefs()
	v := &m.views[id]
	if v.syncer != nil {
		v.loading = true
		v.applySnapshot(v.syncer.Store.Snapshot())
	}
	cmd := m.mountCmd(id)
	return m, cmd
}

// mountCmd fetches the collection of view id and points the poller at it.
// The caller marks the view as loading.
func (m Model) mountCmd(id ViewID) tea.Cmd {
	v := m.views[id]
	if v.syncer == nil {
		return nil
	}
	if m.onMount != nil {
		m.onMount(v.syncer)
	}
	return tea.Batch(refreshCmd(m.ctx, id, v.syncer), v.spinner.Tick)
}

func (m *Model) reloadCmd() tea.Cmd {
	v := &m.views[m.current]
	if v.syncer == nil || v.loading {
		return nil
	}
	v.loading = true
	return tea.Batch(refreshCmd(m.ctx, m.current, v.syncer), v.spinner.Tick)
}

func (m *Model) copySelected() tea.Cmd {
	film, ok := m.views[m.current].selectedFilm()
	if !ok {
		return m.setFlash("Nichts zum Kopieren")
	}
	if err := writeClipboard(film.Title); err != nil {
		debuglog.Error("copy title", err)
		return m.setFlash("Kopieren fehlgeschlagen")
	}
	return m.setFlash("Kopiert: " + film.Title)
}

func (m *Model) setFlash(text string) tea.Cmd {
	m.flashSeq++
	m.flash = text
	seq := m.flashSeq
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashClearMsg{seq: seq}
	})
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, LastView: m.current.String()}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		debuglog.Error("save prefs", err)
	}
}

// listHeight is the number of rows available to the film list.
func (m Model) listHeight() int {
	return max(m.bodyHeight()-formChromeLines, minListRows)
}

func (m Model) bodyHeight() int {
	return max(m.height-screenChromeLines, 0)
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	b.WriteString(m.views[m.current].render(m.theme, m.width, m.bodyHeight()))
	b.WriteString("\n\n")

	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())

	return b.String()
}

// Messages

const (
	opLoad = "load"
	opAdd  = "add"
)

type tickMsg time.Time

type snapshotMsg struct {
	view     ViewID
	snapshot state.Snapshot
}

type filmsLoadedMsg struct {
	view     ViewID
	snapshot state.Snapshot
}

type filmsErrorMsg struct {
	view     ViewID
	op       string
	snapshot state.Snapshot
	err      error
}

type filmAddedMsg struct {
	view     ViewID
	film     films.Film
	snapshot state.Snapshot
}

type flashClearMsg struct {
	seq int
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func snapshotCmd(id ViewID, s *state.Syncer) tea.Cmd {
	if s == nil {
		return nil
	}
	return func() tea.Msg {
		return snapshotMsg{view: id, snapshot: s.Store.Snapshot()}
	}
}

func refreshCmd(ctx context.Context, id ViewID, s *state.Syncer) tea.Cmd {
	return func() tea.Msg {
		if err := s.Refresh(ctx); err != nil {
			return filmsErrorMsg{view: id, op: opLoad, snapshot: s.Store.Snapshot(), err: err}
		}
		return filmsLoadedMsg{view: id, snapshot: s.Store.Snapshot()}
	}
}

func addFilmCmd(ctx context.Context, id ViewID, s *state.Syncer, film films.Film) tea.Cmd {
	return func() tea.Msg {
		stored, err := s.Add(ctx, film)
		if err != nil {
			return filmsErrorMsg{view: id, op: opAdd, snapshot: s.Store.Snapshot(), err: err}
		}
		return filmAddedMsg{view: id, film: stored, snapshot: s.Store.Snapshot()}
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		// Cancelled by signal; not a failure.
		return nil
	}
	return err
}
