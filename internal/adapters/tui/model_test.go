package tui_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mono/internal/adapters/tui"
	"go.trai.ch/zerr"
)

func TestModel_Update(t *testing.T) {
	// Constants for testing
	const (
		laneName1 = "state (code)"
		laneName2 = "state (decl)"
		laneName3 = "view (code)"
		spanID1   = "span-1"
		spanID2   = "span-2"
	)
	initialLanes := []string{laneName1, laneName2, laneName3}

	// Helper to initialize a fresh model
	initModel := func(_ *testing.T) *tui.Model {
		m := &tui.Model{}
		// Send MsgInitLanes to set up the state
		initMsg := tui.MsgInitLanes{Lanes: initialLanes}
		updatedModel, _ := m.Update(initMsg)
		return updatedModel.(*tui.Model)
	}

	t.Run("Window Resizing", func(t *testing.T) {
		m := initModel(t)

		// Send WindowSizeMsg
		width, height := 100, 50
		msg := tea.WindowSizeMsg{Width: width, Height: height}
		updatedModel, _ := m.Update(msg)
		m = updatedModel.(*tui.Model)

		// Assertions based on constants in model.go:
		// laneListWidthRatio = 0.3
		// logPaneBorderWidth = 4
		expectedListWidth := int(float64(width) * 0.3)
		expectedLogWidth := width - expectedListWidth - 4

		assert.Equal(t, expectedLogWidth, m.LogWidth, "LogWidth calculation incorrect")
		assert.Equal(t, expectedLogWidth, m.Lanes[0].Term.Width, "Lane term width not updated")

		// ListHeight depends on header rendering, so we just check it is reasonable
		assert.Positive(t, m.ListHeight, "ListHeight should be positive")
		assert.Less(t, m.ListHeight, height, "ListHeight should be less than total height")
		assert.Positive(t, m.LogHeight, "LogHeight should be positive")
		assert.Equal(t, m.LogHeight, m.Lanes[0].Term.Height, "Lane term height not updated")
	})

	t.Run("Navigation & Keybindings", func(t *testing.T) {
		t.Run("Selection Navigation", func(t *testing.T) {
			m := initModel(t)
			m.SelectedIdx = 0

			// Move Down (j)
			m, _ = updateModel(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
			assert.Equal(t, 1, m.SelectedIdx)
			assert.False(t, m.FollowMode, "FollowMode should be disabled on manual nav")

			// Move Down (down key)
			m, _ = updateModel(m, tea.KeyMsg{Type: tea.KeyDown})
			assert.Equal(t, 2, m.SelectedIdx)

			// Bounds check (end of list)
			m, _ = updateModel(m, tea.KeyMsg{Type: tea.KeyDown})
			assert.Equal(t, 2, m.SelectedIdx)

			// Move Up (k)
			m, _ = updateModel(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
			assert.Equal(t, 1, m.SelectedIdx)

			// Move Up (up key)
			m, _ = updateModel(m, tea.KeyMsg{Type: tea.KeyUp})
			assert.Equal(t, 0, m.SelectedIdx)

			// Bounds check (start of list)
			m, _ = updateModel(m, tea.KeyMsg{Type: tea.KeyUp})
			assert.Equal(t, 0, m.SelectedIdx)
		})

		t.Run("Quit Commands", func(t *testing.T) {
			m := initModel(t)

			// q
			_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
			assert.Equal(t, tea.Quit(), cmd(), "q should return tea.Quit")

			// ctrl+c
			_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
			assert.Equal(t, tea.Quit(), cmd(), "ctrl+c should return tea.Quit")
		})

		t.Run("Follow Mode (Esc)", func(t *testing.T) {
			m := initModel(t)

			// Start lane 2 to have a running lane
			m, _ = updateModel(m, tui.MsgLaneStart{Name: laneName2, SpanID: spanID1})

			// Move selection away manually
			m.SelectedIdx = 0
			m.FollowMode = false

			// Press Esc
			m, _ = updateModel(m, tea.KeyMsg{Type: tea.KeyEsc})

			assert.True(t, m.FollowMode, "Esc should enable FollowMode")
			assert.Equal(t, 1, m.SelectedIdx, "Esc should jump to running lane (index 1)")
		})
	})

	t.Run("Lane Events", func(t *testing.T) {
		t.Run("MsgInitLanes", func(t *testing.T) {
			m := &tui.Model{}
			msg := tui.MsgInitLanes{Lanes: []string{"A", "B"}}
			updatedModel, _ := m.Update(msg)
			m = updatedModel.(*tui.Model)

			assert.Len(t, m.Lanes, 2)
			assert.Len(t, m.LaneMap, 2)
			assert.Equal(t, "A", m.Lanes[0].Name)
			assert.Equal(t, tui.StatusPending, m.Lanes[0].Status)
		})

		t.Run("MsgLaneStart", func(t *testing.T) {
			m := initModel(t)

			msg := tui.MsgLaneStart{Name: laneName1, SpanID: spanID1}
			updatedModel, _ := m.Update(msg)
			m = updatedModel.(*tui.Model)

			requireLaneStatus(t, m, laneName1, tui.StatusRunning)
			assert.Equal(t, m.Lanes[0], m.SpanMap[spanID1], "SpanMap should map spanID")

			// FollowMode moves selection to the freshly started lane
			m.FollowMode = true
			msg2 := tui.MsgLaneStart{Name: laneName3, SpanID: spanID2}
			updatedModel, _ = m.Update(msg2)
			m = updatedModel.(*tui.Model)

			assert.Equal(t, 2, m.SelectedIdx, "FollowMode should switch selection to new lane")
		})

		t.Run("MsgLaneLog", func(t *testing.T) {
			m := initModel(t)

			// Start lane
			m, _ = updateModel(m, tui.MsgLaneStart{Name: laneName1, SpanID: spanID1})

			// Send Log
			logData := []byte("Hello World\n")
			msg := tui.MsgLaneLog{SpanID: spanID1, Data: logData}

			updatedModel, _ := m.Update(msg)
			m = updatedModel.(*tui.Model)

			node := m.SpanMap[spanID1]
			assert.Positive(t, node.Term.UsedHeight(), "Term should have data")
		})

		t.Run("MsgLaneComplete", func(t *testing.T) {
			m := initModel(t)
			m, _ = updateModel(m, tui.MsgLaneStart{Name: laneName1, SpanID: spanID1})

			// Success
			msgSuccess := tui.MsgLaneComplete{SpanID: spanID1, Err: nil}
			m, _ = updateModel(m, msgSuccess)
			requireLaneStatus(t, m, laneName1, tui.StatusDone)

			// Error
			m, _ = updateModel(m, tui.MsgLaneStart{Name: laneName2, SpanID: spanID2})
			msgError := tui.MsgLaneComplete{SpanID: spanID2, Err: zerr.New("fail")}
			m, _ = updateModel(m, msgError)
			requireLaneStatus(t, m, laneName2, tui.StatusError)
		})

		t.Run("Stale completion ignored after restart", func(t *testing.T) {
			m := initModel(t)

			// First cycle starts and a second one supersedes it.
			m, _ = updateModel(m, tui.MsgLaneStart{Name: laneName1, SpanID: spanID1})
			m, _ = updateModel(m, tui.MsgLaneStart{Name: laneName1, SpanID: spanID2})

			// Stale completion from the first cycle arrives late.
			m, _ = updateModel(m, tui.MsgLaneComplete{SpanID: spanID1, Err: zerr.New("stale")})
			requireLaneStatus(t, m, laneName1, tui.StatusRunning)

			// The live cycle still completes normally.
			m, _ = updateModel(m, tui.MsgLaneComplete{SpanID: spanID2, Err: nil})
			requireLaneStatus(t, m, laneName1, tui.StatusDone)
		})
	})
}

// Helpers.

func updateModel(m *tui.Model, msg tea.Msg) (*tui.Model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(*tui.Model), cmd
}

func requireLaneStatus(t *testing.T, m *tui.Model, laneName string, expected tui.LaneStatus) {
	t.Helper()
	node, ok := m.LaneMap[laneName]
	require.True(t, ok, "Lane %s should exist in LaneMap", laneName)
	assert.Equal(t, expected, node.Status, "Lane status map match")
}
