package styled

import "github.com/fatih/color"

// DimmedColor returns a dimmed *color.Color to print secondary information
// such as timings and row counts.
func DimmedColor() *color.Color {
	return color.RGB(128, 128, 128)
}

// HeadingColor returns the *color.Color used for section titles.
func HeadingColor() *color.Color {
	return color.New(color.FgCyan, color.Bold)
}

// ErrorColor returns the *color.Color used to report failed statements.
func ErrorColor() *color.Color {
	return color.New(color.FgRed)
}
