// Package detector selects the output mode from the runtime environment.
package detector

import (
	"os"

	"golang.org/x/term"
)

// OutputMode is the rendering mode for a build run.
type OutputMode int

const (
	// ModeAuto defers to environment detection.
	ModeAuto OutputMode = iota
	// ModeTUI selects the interactive lane dashboard.
	ModeTUI
	// ModeLinear selects chronological line output.
	ModeLinear
)

// DetectEnvironment recommends an output mode. The dashboard renders to
// stderr, so that is the descriptor probed; CI environments always get
// linear output.
func DetectEnvironment() OutputMode {
	isTTY := term.IsTerminal(int(os.Stderr.Fd()))

	if !isTTY || inCI() {
		return ModeLinear
	}
	return ModeTUI
}

func inCI() bool {
	ci := os.Getenv("CI")
	return ci == "true" || ci == "1" || os.Getenv("GITHUB_ACTIONS") == "true"
}

// ResolveMode applies the user's flag on top of the detected mode.
// Recognized values: "auto", "tui", "linear", "ci", or empty.
func ResolveMode(autoDetected OutputMode, userFlag string) OutputMode {
	switch userFlag {
	case "tui":
		return ModeTUI
	case "linear", "ci":
		return ModeLinear
	default:
		return autoDetected
	}
}
