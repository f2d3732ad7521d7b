package cli

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

var (
	colorHeader  = color.New(color.Bold)
	colorTitle   = color.New(color.FgCyan, color.Bold)
	colorWatched = color.New(color.FgGreen)
	colorWarning = color.New(color.FgYellow)
	colorError   = color.New(color.FgRed, color.Bold)
	colorMuted   = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

func formatHeader(s string) string  { return colorHeader.Sprint(s) }
func formatTitle(s string) string   { return colorTitle.Sprint(s) }
func formatWatched(s string) string { return colorWatched.Sprint(s) }
func formatWarning(s string) string { return colorWarning.Sprint(s) }
func formatError(s string) string   { return colorError.Sprint(s) }
func formatMuted(s string) string   { return colorMuted.Sprint(s) }
