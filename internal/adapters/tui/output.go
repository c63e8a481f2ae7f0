package tui

import (
	"io"
	"os"

	"github.com/muesli/termenv"
	"go.trai.ch/mono/internal/ui/output"
)

// ColorProfile returns the profile for the lane dashboard. NO_COLOR downgrades
// to Ascii; otherwise TrueColor is forced regardless of terminal detection.
func ColorProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.TrueColor
}

// NewOutput wraps w in a termenv.Output using the dashboard profile.
func NewOutput(w io.Writer, opts ...termenv.OutputOption) *termenv.Output {
	return output.NewWithProfile(w, ColorProfile, opts...)
}
