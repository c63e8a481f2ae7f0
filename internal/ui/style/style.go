// Package style holds the shared color palette and status glyphs used by the
// log handler and the lane renderers.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Indigo = lipgloss.Color("#6C7BFF")
	Slate  = lipgloss.Color("#6E7681")
	White  = lipgloss.Color("#FFFFFF")
	Green  = lipgloss.Color("#2DA44E")
	Red    = lipgloss.Color("#CF222E")
	Yellow = lipgloss.Color("#D4A72C")
)

// Status glyphs.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Dot     = "●"
	Circle  = "○"
)
