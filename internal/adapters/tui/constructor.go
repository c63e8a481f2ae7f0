// Package tui provides the interactive lane dashboard for watch builds.
package tui

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const defaultTickInterval = 100

// NewModel creates a new TUI model with default settings.
func NewModel(w io.Writer) Model {
	if w == nil {
		w = os.Stderr
	}

	out := NewOutput(w)
	lipgloss.SetColorProfile(out.Profile)

	return Model{
		Lanes:        make([]*LaneNode, 0),
		LaneMap:      make(map[string]*LaneNode),
		SpanMap:      make(map[string]*LaneNode),
		AutoScroll:   true,
		FollowMode:   true,
		TickInterval: defaultTickInterval * time.Millisecond,
	}
}

// WithDisableTick disables the periodic redraw loop.
// This is primarily used for testing with synctest.
//
//nolint:gocritic // hugeParam ignored
func (m Model) WithDisableTick() Model {
	m.DisableTick = true
	return m
}
