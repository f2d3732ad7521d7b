package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/flimmer/internal/films"
	"github.com/five82/flimmer/internal/state"
)

// focusArea is the element receiving key input inside a view.
type focusArea int

const (
	focusList focusArea = iota
	focusTitle
	focusYear
	focusButton
)

func (f focusArea) next() focusArea {
	switch f {
	case focusTitle:
		return focusYear
	case focusYear:
		return focusButton
	default:
		return focusTitle
	}
}

func (f focusArea) prev() focusArea {
	switch f {
	case focusButton:
		return focusYear
	case focusYear:
		return focusTitle
	default:
		return focusButton
	}
}

func (f focusArea) isInput() bool {
	return f == focusTitle || f == focusYear
}

// listView is one mounted collection: the rows, the add form and the
// feedback lines below it.
type listView struct {
	id     ViewID
	syncer *state.Syncer

	snapshot   state.Snapshot
	loading    bool
	submitting bool
	spinner    spinner.Model

	title textinput.Model
	year  textinput.Model
	focus focusArea

	selected int
	offset   int

	formErr string // validation feedback
	netErr  string // last load/save failure
}

func newListView(id ViewID, syncer *state.Syncer) listView {
	title := textinput.New()
	title.Prompt = ""
	title.Placeholder = films.TextTitlePlaceholder
	title.CharLimit = 200
	title.Width = titleInputWidth

	year := textinput.New()
	year.Prompt = ""
	year.Placeholder = films.TextYearPlaceholder
	year.CharLimit = 12
	year.Width = yearInputWidth

	v := listView{
		id:      id,
		syncer:  syncer,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		title:   title,
		year:    year,
	}
	if syncer != nil && syncer.Store != nil {
		v.snapshot = syncer.Store.Snapshot()
	}
	return v
}

// items returns the rows the view shows.
func (v listView) items() []films.Film {
	return v.id.visible(v.snapshot.Films)
}

func (v *listView) applySnapshot(snap state.Snapshot) {
	v.snapshot = snap
	v.clampSelection()
}

func (v *listView) clampSelection() {
	n := len(v.items())
	if v.selected >= n {
		v.selected = n - 1
	}
	if v.selected < 0 {
		v.selected = 0
	}
}

func (v listView) selectedFilm() (films.Film, bool) {
	items := v.items()
	if v.selected < 0 || v.selected >= len(items) {
		return films.Film{}, false
	}
	return items[v.selected], true
}

func (v *listView) move(delta int) {
	v.selected += delta
	v.clampSelection()
}

func (v *listView) moveTo(idx int) {
	v.selected = idx
	v.clampSelection()
}

// setFocus moves input focus and returns the cursor blink command.
func (v *listView) setFocus(f focusArea) tea.Cmd {
	v.focus = f
	v.title.Blur()
	v.year.Blur()
	switch f {
	case focusTitle:
		return v.title.Focus()
	case focusYear:
		return v.year.Focus()
	}
	return nil
}

func (v *listView) resetForm() tea.Cmd {
	v.title.Reset()
	v.year.Reset()
	v.formErr = ""
	v.netErr = ""
	return v.setFocus(focusTitle)
}

func (v *listView) updateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch v.focus {
	case focusTitle:
		v.title, cmd = v.title.Update(msg)
	case focusYear:
		v.year, cmd = v.year.Update(msg)
	}
	return cmd
}

// ensureVisible scrolls so the selected row fits into height rows.
func (v *listView) ensureVisible(height int) {
	if height <= 0 {
		return
	}
	if v.selected < v.offset {
		v.offset = v.selected
	}
	if v.selected >= v.offset+height {
		v.offset = v.selected - height + 1
	}
	if v.offset < 0 {
		v.offset = 0
	}
}

// render draws the view into width x height cells.
func (v listView) render(th Theme, width, height int) string {
	styles := th.Styles()
	var b strings.Builder

	heading := styles.AccentText.Bold(true).Render(v.id.Title())
	if v.loading {
		heading += "  " + styles.MutedText.Render(v.spinner.View()+" lädt…")
	}
	b.WriteString(heading)
	b.WriteString("\n\n")

	listHeight := max(height-formChromeLines, minListRows)
	b.WriteString(v.renderRows(th, width, listHeight))
	b.WriteString("\n\n")

	b.WriteString(v.renderForm(th))
	if v.formErr != "" {
		b.WriteString("\n")
		b.WriteString(styles.DangerText.Render(v.formErr))
	}
	if v.netErr != "" {
		b.WriteString("\n")
		b.WriteString(styles.WarningText.Render(v.netErr))
	}
	return b.String()
}

func (v listView) renderRows(th Theme, width, height int) string {
	styles := th.Styles()
	items := v.items()

	if len(items) == 0 {
		return styles.Warning.Render(films.TextNoFilms)
	}

	rowWidth := max(width-4, 10)
	lines := make([]string, len(items))
	for i, f := range items {
		label := truncate(f.Label(), rowWidth)
		if v.id == ViewFilms && f.Watched {
			label += styles.SuccessText.Render(" ✓")
		}
		if i == v.selected {
			lines[i] = styles.Selected.Render("› " + label)
			continue
		}
		lines[i] = styles.Text.Render("  " + label)
	}

	vp := viewport.New(width, min(height, len(lines)))
	vp.SetContent(strings.Join(lines, "\n"))
	vp.SetYOffset(v.offset)
	return vp.View()
}

func (v listView) renderForm(th Theme) string {
	styles := th.Styles()

	titleBox := styles.Input
	if v.focus == focusTitle {
		titleBox = styles.InputFocused
	}
	yearBox := styles.Input
	if v.focus == focusYear {
		yearBox = styles.InputFocused
	}
	button := styles.Button
	if v.focus == focusButton {
		button = styles.ButtonFocused
	}
	label := films.TextAddButton
	if v.submitting {
		label = v.spinner.View() + " " + label
	}

	return lipgloss.JoinHorizontal(lipgloss.Center,
		titleBox.Render(v.title.View()),
		" ",
		yearBox.Render(v.year.View()),
		" ",
		button.Render(label),
	)
}

func (v listView) countLabel() string {
	items := v.items()
	if v.id == ViewWatch {
		return fmt.Sprintf("%d offen", len(items))
	}
	return fmt.Sprintf("%d Filme", len(items))
}
