package tui

import (
	"time"
)

// MsgInitLanes initializes or resets the lane list in the UI.
type MsgInitLanes struct {
	Lanes []string
}

// MsgLaneStart indicates a lane has begun a cycle.
type MsgLaneStart struct {
	SpanID    string
	ParentID  string // May be empty if root
	Name      string
	StartTime time.Time
}

// MsgLaneLog carries a chunk of log output for a specific lane.
type MsgLaneLog struct {
	SpanID string
	Data   []byte
}

// MsgLaneComplete indicates a lane cycle has finished.
type MsgLaneComplete struct {
	SpanID  string
	EndTime time.Time
	Err     error
}
