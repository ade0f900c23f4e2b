package util

import (
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const defaultTerminalWidth = 80

var (
	headerColor   = color.New(color.FgMagenta, color.Bold)
	overviewColor = color.New(color.FgCyan, color.Bold)
	dataColor     = color.New(color.FgGreen, color.Bold)
	warnColor     = color.New(color.FgYellow, color.Bold)
	errorColor    = color.New(color.FgRed, color.Bold)
)

// GetDisplayWidth calculates the actual display width of a string, accounting for wide runes
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// PadString pads s to the given display width.
func PadString(s string, width int, leftAlign bool) string {
	actual := GetDisplayWidth(s)
	if actual >= width {
		return s
	}
	padding := strings.Repeat(" ", width-actual)
	if leftAlign {
		return s + padding
	}
	return padding + s
}

// TruncateString shortens s to at most width display columns, ending with "…".
func TruncateString(s string, width int) string {
	if width <= 0 || GetDisplayWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// TerminalWidth returns the width of stdout, or 80 when stdout is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultTerminalWidth
	}
	return width
}

// CreateProgressBar creates a bar of width cells filled to percentage.
func CreateProgressBar(percentage float64, width int) string {
	if width < 1 {
		width = 10
	}
	filled := int((percentage / 100) * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// FormatHeaderTitle formats main header titles (Magenta + Bold)
func FormatHeaderTitle(title string) string {
	return headerColor.Sprint(title)
}

// FormatOverviewTitle formats overview/summary titles (Cyan + Bold)
func FormatOverviewTitle(title string) string {
	return overviewColor.Sprint(title)
}

// FormatDataTitle formats data section titles (Green + Bold)
func FormatDataTitle(title string) string {
	return dataColor.Sprint(title)
}

// FormatWarning formats warnings (Yellow + Bold)
func FormatWarning(msg string) string {
	return warnColor.Sprint(msg)
}

// FormatError formats errors (Red + Bold)
func FormatError(msg string) string {
	return errorColor.Sprint(msg)
}

// FormatSectionSeparator creates a visual separator line
func FormatSectionSeparator() string {
	return overviewColor.Sprint(strings.Repeat("─", 60))
}
