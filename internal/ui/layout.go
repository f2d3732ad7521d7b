package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the width below which the header drops the
	// backend address.
	LayoutCompactWidth = 80
)

// Form and list geometry.
const (
	titleInputWidth = 16 // sized to the placeholder
	yearInputWidth  = 4
	helpWidth       = 50

	// formChromeLines counts the rows around the list: heading, blank lines,
	// the bordered form and two feedback lines.
	formChromeLines = 9
	minListRows     = 3

	// screenChromeLines counts header, status bar and command bar.
	screenChromeLines = 4
)

// Timing constants.
const (
	// DefaultUIInterval is the default store re-read interval.
	DefaultUIInterval = time.Second

	// flashDuration is how long transient status messages stay visible.
	flashDuration = 3 * time.Second
)
