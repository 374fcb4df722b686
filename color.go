package verstat

import "github.com/fatih/color"

// ColorMode defines color output behavior.
type ColorMode string

const (
	ColorModeAuto   ColorMode = "auto"   // Color when TTY
	ColorModeAlways ColorMode = "always" // Always color
	ColorModeNever  ColorMode = "never"  // No color
)

var (
	// Sync states
	colorSynced = color.New(color.FgGreen).SprintFunc()
	colorBehind = color.New(color.FgYellow).SprintFunc()

	// Working tree states
	colorClean    = color.New(color.FgGreen).SprintFunc()
	colorModified = color.New(color.FgYellow).SprintFunc()

	// Unavailable data
	colorPlaceholder = color.New(color.FgHiBlack).SprintFunc()
)

// SetColorMode configures color output based on mode.
func SetColorMode(mode ColorMode) {
	switch mode {
	case ColorModeAlways:
		color.NoColor = false
	case ColorModeNever:
		color.NoColor = true
	case ColorModeAuto:
		// Use fatih/color default behavior (TTY detection)
	}
}

// IsColorEnabled returns whether color output is enabled.
// This should be called after SetColorMode.
func IsColorEnabled() bool {
	return !color.NoColor
}
