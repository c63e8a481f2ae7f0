package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/mono/internal/ui/style"
)

// View renders the UI.
//
//nolint:gocritic // hugeParam ignored
func (m *Model) View() string {
	if m.ListHeight == 0 {
		return "Initializing..."
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.laneList(),
		m.logPane(),
	)
}

//nolint:gocritic // hugeParam ignored
func (m *Model) laneList() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("LANES") + "\n\n")

	start := m.ListOffset
	end := m.ListOffset + m.ListHeight
	if end > len(m.Lanes) {
		end = len(m.Lanes)
	}
	if start > end {
		start = end
	}

	for i := start; i < end; i++ {
		lane := m.Lanes[i]
		s.WriteString(m.renderLaneRow(i, lane) + "\n")
	}

	return listStyle.Render(s.String())
}

func (m *Model) renderLaneRow(index int, lane *LaneNode) string {
	icon := m.getLaneIcon(lane)
	style := m.getLaneStyle(lane)

	// Highlight selected lane
	var cursor string
	if index == m.SelectedIdx {
		cursor = selectedStyle.Render("> ")
		// If not Done/Error, highlight the text with the accent color as well
		if lane.Status != StatusDone && lane.Status != StatusError {
			style = selectedStyle
		}
	} else {
		cursor = "  "
	}

	content := fmt.Sprintf("%s %s", icon, lane.Name)
	if d := m.laneDuration(lane); d != "" {
		content += " " + durationStyle.Render(d)
	}
	return cursor + style.Render(content)
}

func (m *Model) laneDuration(lane *LaneNode) string {
	now := m.now
	if now.IsZero() {
		now = time.Now()
	}
	d := lane.Duration(now)
	if d <= 0 {
		return ""
	}
	return d.Round(100 * time.Millisecond).String()
}

func (m *Model) getLaneIcon(lane *LaneNode) string {
	switch lane.Status {
	case StatusRunning:
		return style.Dot
	case StatusDone:
		return style.Check
	case StatusError:
		return style.Cross
	default: // Pending
		return style.Circle
	}
}

func (m *Model) getLaneStyle(lane *LaneNode) lipgloss.Style {
	switch lane.Status {
	case StatusRunning:
		return laneRunningStyle
	case StatusDone:
		return laneDoneStyle
	case StatusError:
		return laneErrorStyle
	default: // Pending
		return lanePendingStyle
	}
}

//nolint:gocritic // hugeParam ignored
func (m *Model) logPane() string {
	var header string
	var content string

	if m.ActiveLaneName != "" {
		status := ""
		if m.FollowMode {
			status = " (Following)"
		} else {
			status = " (Manual)"
		}

		headerStyle := titleStyle
		if node, ok := m.LaneMap[m.ActiveLaneName]; ok {
			if node.Status == StatusError {
				headerStyle = failureTitleStyle
			}
			content = node.Term.View()
		}
		header = headerStyle.Render("LOGS: " + m.ActiveLaneName + status)
	} else {
		header = titleStyle.Render("LOGS (Waiting...)")
	}

	return logStyle.Render(
		lipgloss.JoinVertical(
			lipgloss.Left,
			header,
			content,
		),
	)
}
