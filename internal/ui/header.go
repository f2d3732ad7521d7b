package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/flimmer/internal/films"
)

// renderHeader renders the logo, the view tabs and the backend address.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	sep := m.surfaceSpaces(2)

	parts := []string{styles.Logo.Render("flimmer")}
	for id := ViewFilms; id < viewCount; id++ {
		label := fmt.Sprintf("%d %s", int(id)+1, id.tabLabel())
		if id == m.current {
			parts = append(parts, styles.TabActive.Render(label))
			continue
		}
		parts = append(parts, styles.TabInactive.Render(label))
	}
	if m.width >= LayoutCompactWidth && m.backend != "" {
		parts = append(parts, styles.FaintText.Render(truncateMiddle(m.backend, 40)))
	}

	return styles.Header.Width(m.width).Render(fitLine(strings.Join(parts, sep), m.width-2))
}

// renderStatusBar shows freshness, failures and transient messages for the
// mounted view.
func (m Model) renderStatusBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	v := m.views[m.current]
	snap := v.snapshot

	var parts []string
	switch {
	case !snap.LastUpdated.IsZero():
		parts = append(parts, styles.MutedText.Render("Aktualisiert "+snap.LastUpdated.Format("15:04:05")))
	case v.loading:
		parts = append(parts, styles.MutedText.Render("Verbinde…"))
	}
	if snap.Loaded {
		parts = append(parts, styles.Text.Render(v.countLabel()))
	}
	if snap.Stale {
		parts = append(parts, styles.WarningText.Render("Cache vom "+snap.CachedAt.Local().Format("02.01. 15:04")))
	}
	if snap.ConsecutiveFailures > 0 && snap.LastError != nil {
		label := classifyConnectionError(snap.LastError)
		if snap.IsOffline() {
			label = "OFFLINE"
		}
		parts = append(parts,
			styles.DangerText.Render(fmt.Sprintf("%s ×%d", label, snap.ConsecutiveFailures)),
			styles.FaintText.Render(snap.LastError.Error()),
		)
	}
	if m.flash != "" {
		parts = append(parts, styles.AccentText.Render(m.flash))
	}

	line := strings.Join(parts, m.surfaceSpaces(2))
	return styles.Footer.Width(m.width).Render(fitLine(line, m.width-2))
}

// renderCommandBar renders key hints for the current focus.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)

	bindings := m.keys.ShortHelp()
	if m.views[m.current].focus != focusList {
		bindings = m.keys.FormHelp()
	}

	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		parts = append(parts, renderHint(styles, b))
	}
	line := strings.Join(parts, m.surfaceSpaces(2))
	return styles.Footer.Width(m.width).Render(fitLine(line, m.width-2))
}

func renderHint(styles Styles, b key.Binding) string {
	h := b.Help()
	return styles.WarningText.Render(h.Key) + styles.MutedText.Render(" "+h.Desc)
}

func (m Model) surfaceSpaces(n int) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(m.theme.Surface)).Render(strings.Repeat(" ", n))
}

// classifyConnectionError condenses a fetch error into a short label.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	var statusErr *films.StatusError
	if errors.As(err, &statusErr) {
		return fmt.Sprintf("HTTP %d", statusErr.StatusCode)
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	case strings.Contains(msg, "decode response"):
		return "INVALID DATA"
	default:
		return "ERROR"
	}
}
