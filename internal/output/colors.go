package output

import (
	"github.com/fatih/color"
)

// ColorScheme defines the colors used for different elements of a report
type ColorScheme struct {
	Title     *color.Color
	EventName *color.Color
	Counter   *color.Color
	Value     *color.Color
	Bucket    *color.Color
	Bar       *color.Color
	Overflow  *color.Color
	Muted     *color.Color
	Success   *color.Color
	Error     *color.Color
}

// DefaultColorScheme returns the default color scheme
func DefaultColorScheme() *ColorScheme {
	return &ColorScheme{
		Title:     color.New(color.FgMagenta, color.Bold),
		EventName: color.New(color.FgCyan, color.Bold),
		Counter:   color.New(color.FgGreen, color.Bold),
		Value:     color.New(color.FgWhite),
		Bucket:    color.New(color.FgYellow),
		Bar:       color.New(color.FgBlue),
		Overflow:  color.New(color.FgRed),
		Muted:     color.New(color.Faint),
		Success:   color.New(color.FgGreen),
		Error:     color.New(color.FgRed),
	}
}

// NoColorScheme returns a color scheme with all colors disabled
func NoColorScheme() *ColorScheme {
	scheme := DefaultColorScheme()

	for _, c := range []*color.Color{
		scheme.Title, scheme.EventName, scheme.Counter, scheme.Value, scheme.Bucket,
		scheme.Bar, scheme.Overflow, scheme.Muted, scheme.Success, scheme.Error,
	} {
		c.DisableColor()
	}

	return scheme
}

// ForceColorScheme returns the default scheme with colors enabled even when
// stdout is not a terminal.
func ForceColorScheme() *ColorScheme {
	scheme := DefaultColorScheme()

	for _, c := range []*color.Color{
		scheme.Title, scheme.EventName, scheme.Counter, scheme.Value, scheme.Bucket,
		scheme.Bar, scheme.Overflow, scheme.Muted, scheme.Success, scheme.Error,
	} {
		c.EnableColor()
	}

	return scheme
}

// SuccessIcon returns a checkmark in the scheme's success color
func (s *ColorScheme) SuccessIcon() string {
	return s.Success.Sprint("✓")
}

// ErrorIcon returns an X in the scheme's error color
func (s *ColorScheme) ErrorIcon() string {
	return s.Error.Sprint("✗")
}
