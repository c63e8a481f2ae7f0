package output_test

import (
	"bytes"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/mono/internal/ui/output"
)

func TestColorProfileHonorsNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, termenv.Ascii, output.ColorProfile())

	// The detected profile depends on the environment; it only has to be
	// one of termenv's known values.
	t.Setenv("NO_COLOR", "")
	p := output.ColorProfile()
	assert.True(t, p >= termenv.TrueColor && p <= termenv.Ascii)
}

func TestColorProfileANSI(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	assert.Equal(t, termenv.ANSI, output.ColorProfileANSI())

	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, termenv.Ascii, output.ColorProfileANSI())
}

func TestNewWritesThrough(t *testing.T) {
	var buf bytes.Buffer
	out := output.New(&buf)

	_, err := out.WriteString("state (code) done")
	assert.NoError(t, err)
	assert.Equal(t, "state (code) done", buf.String())
}

func TestNewWithProfileWritesThrough(t *testing.T) {
	var buf bytes.Buffer
	out := output.NewWithProfile(&buf, output.ColorProfileANSI)

	_, err := out.WriteString("state (decl) done")
	assert.NoError(t, err)
	assert.Equal(t, "state (decl) done", buf.String())
}

func TestNilWriterDefaultsToStderr(t *testing.T) {
	// Both constructors fall back to stderr instead of panicking.
	assert.NotNil(t, output.New(nil))
	assert.NotNil(t, output.NewWithProfile(nil, output.ColorProfile))
}
