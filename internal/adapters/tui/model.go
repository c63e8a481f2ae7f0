package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	laneListWidthRatio = 0.3
	logPaneBorderWidth = 4
)

// LaneStatus represents the current state of a lane.
type LaneStatus string

const (
	// StatusPending indicates the lane is waiting for its first cycle.
	StatusPending LaneStatus = "Pending"
	// StatusRunning indicates the lane is currently servicing a cycle.
	StatusRunning LaneStatus = "Running"
	// StatusDone indicates the last cycle completed successfully.
	StatusDone LaneStatus = "Done"
	// StatusError indicates the last cycle failed.
	StatusError LaneStatus = "Error"
)

// LaneNode represents a single lane in the UI list.
type LaneNode struct {
	Name         string
	Status       LaneStatus
	Term         *Vterm
	StartTime    time.Time
	EndTime      time.Time
	Err          error
	ActiveSpanID string
}

// Duration reports the elapsed time of the current or last cycle.
func (n *LaneNode) Duration(now time.Time) time.Duration {
	if n.StartTime.IsZero() {
		return 0
	}
	if n.Status == StatusRunning {
		return now.Sub(n.StartTime)
	}
	return n.EndTime.Sub(n.StartTime)
}

// tickMsg drives periodic redraws so running durations stay live.
type tickMsg time.Time

// Model represents the main TUI state.
type Model struct {
	Lanes          []*LaneNode
	LaneMap        map[string]*LaneNode
	SpanMap        map[string]*LaneNode
	AutoScroll     bool
	ActiveLaneName string
	SelectedIdx    int
	ListOffset     int
	ListHeight     int
	LogWidth       int
	LogHeight      int
	FollowMode     bool
	TickInterval   time.Duration
	DisableTick    bool

	now time.Time
}

// Init initializes the model.
//
//nolint:gocritic // hugeParam ignored
func (m *Model) Init() tea.Cmd {
	if m.DisableTick {
		return nil
	}
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.TickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) ensureVisible() {
	if m.ListHeight <= 0 {
		return
	}
	if m.SelectedIdx < m.ListOffset {
		m.ListOffset = m.SelectedIdx
	} else if m.SelectedIdx >= m.ListOffset+m.ListHeight {
		m.ListOffset = m.SelectedIdx - m.ListHeight + 1
	}
}

func (m *Model) getSelectedLane() *LaneNode {
	if m.SelectedIdx >= 0 && m.SelectedIdx < len(m.Lanes) {
		return m.Lanes[m.SelectedIdx]
	}
	return nil
}

func (m *Model) updateActiveView() {
	if node := m.getSelectedLane(); node != nil {
		m.ActiveLaneName = node.Name

		// Ensure term size is correct if we just switched
		if m.FollowMode && m.AutoScroll {
			// Calculate max offset: UsedHeight - Height
			maxOff := node.Term.UsedHeight() - node.Term.Height
			if maxOff < 0 {
				maxOff = 0
			}
			node.Term.Offset = maxOff
		}
	}
}

// Update handles incoming messages and updates the model state.
//
//nolint:cyclop,gocritic // hugeParam ignored, cyclop ignored
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "k", "up":
			if m.SelectedIdx > 0 {
				m.SelectedIdx--
				m.FollowMode = false
				m.ensureVisible()
				m.updateActiveView()
			}
		case "j", "down":
			if m.SelectedIdx < len(m.Lanes)-1 {
				m.SelectedIdx++
				m.FollowMode = false
				m.ensureVisible()
				m.updateActiveView()
			}
		case "esc":
			m.FollowMode = true
			// Jump to the currently running lane if any.
			for i, l := range m.Lanes {
				if l.Status == StatusRunning {
					m.SelectedIdx = i
					break
				}
			}
			m.ensureVisible()
			m.updateActiveView()

		default:
			// Forward keys to the active lane's terminal if applicable
			if m.ActiveLaneName != "" {
				if node, ok := m.LaneMap[m.ActiveLaneName]; ok {
					node.Term.Update(msg)
				}
			}
		}

	case tickMsg:
		m.now = time.Time(msg)
		return m, m.tick()

	case tea.WindowSizeMsg:
		// Split screen: 30% for lane list, 70% for logs
		listWidth := int(float64(msg.Width) * laneListWidthRatio)
		logWidth := msg.Width - listWidth - logPaneBorderWidth // minus margins/borders

		// Calculate header height dynamically
		headerHeight := lipgloss.Height(titleStyle.Render("TEST"))
		logHeight := msg.Height - headerHeight

		// Store calculated dimensions for future lanes
		m.LogWidth = logWidth
		m.LogHeight = logHeight

		// Calculate ListHeight with full header including newlines
		fullHeader := titleStyle.Render("LANES") + "\n\n"
		listInfoHeight := lipgloss.Height(fullHeader)
		m.ListHeight = msg.Height - listInfoHeight
		m.ensureVisible()

		// Update all terminals
		for _, node := range m.Lanes {
			node.Term.SetWidth(logWidth)
			node.Term.SetHeight(logHeight)
		}

	case MsgInitLanes:
		m.Lanes = make([]*LaneNode, len(msg.Lanes))
		m.LaneMap = make(map[string]*LaneNode, len(msg.Lanes))
		m.SpanMap = make(map[string]*LaneNode)
		for i, name := range msg.Lanes {
			term := NewVterm()
			// If we know the dimensions, set them immediately
			if m.LogWidth > 0 && m.LogHeight > 0 {
				term.SetWidth(m.LogWidth)
				term.SetHeight(m.LogHeight)
			}

			m.Lanes[i] = &LaneNode{
				Name:   name,
				Status: StatusPending,
				Term:   term,
			}
			m.LaneMap[name] = m.Lanes[i]
		}

	case MsgLaneStart:
		if node, ok := m.LaneMap[msg.Name]; ok {
			node.Status = StatusRunning
			node.StartTime = msg.StartTime
			node.Err = nil
			node.ActiveSpanID = msg.SpanID
			m.SpanMap[msg.SpanID] = node

			// Focus follows activity ONLY if FollowMode is true
			if m.FollowMode {
				m.ActiveLaneName = msg.Name
				// Find index of this lane
				for i, l := range m.Lanes {
					if l.Name == msg.Name {
						m.SelectedIdx = i
						break
					}
				}
				m.ensureVisible()
				m.updateActiveView()
			}
		}

	case MsgLaneLog:
		if node, ok := m.SpanMap[msg.SpanID]; ok {
			_, _ = node.Term.Write(msg.Data)
		}

	case MsgLaneComplete:
		if node, ok := m.SpanMap[msg.SpanID]; ok {
			// A stale completion from a superseded cycle must not clobber
			// the status of the cycle that replaced it.
			if node.ActiveSpanID != msg.SpanID {
				break
			}
			node.EndTime = msg.EndTime
			node.Err = msg.Err
			if msg.Err != nil {
				node.Status = StatusError
			} else {
				node.Status = StatusDone
			}
		}
	}

	return m, cmd
}
