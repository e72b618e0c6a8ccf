package report

import (
	"github.com/fatih/color"
)

// ColorScheme defines the colors used for report headings.
type ColorScheme struct {
	Group   *color.Color
	Section *color.Color
	Warning *color.Color
}

// DefaultColorScheme returns the default color scheme.
func DefaultColorScheme() *ColorScheme {
	scheme := &ColorScheme{
		Group:   color.New(color.FgMagenta, color.Bold),
		Section: color.New(color.FgCyan),
		Warning: color.New(color.FgYellow, color.Bold),
	}

	// fatih/color decides on its own whether stdout is a terminal; the sink
	// makes that decision here, so force the escape codes on.
	scheme.Group.EnableColor()
	scheme.Section.EnableColor()
	scheme.Warning.EnableColor()

	return scheme
}

// NoColorScheme returns a color scheme with all colors disabled.
func NoColorScheme() *ColorScheme {
	scheme := DefaultColorScheme()

	scheme.Group.DisableColor()
	scheme.Section.DisableColor()
	scheme.Warning.DisableColor()

	return scheme
}
