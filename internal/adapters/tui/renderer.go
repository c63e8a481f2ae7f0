package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/mono/internal/core/ports"
)

// Renderer wraps the TUI Bubble Tea model as a ports.Renderer.
type Renderer struct {
	program *tea.Program
	model   *Model
	errCh   chan error
}

var _ ports.Renderer = (*Renderer)(nil)

// NewRenderer creates a new TUI renderer.
func NewRenderer(model *Model, opts ...tea.ProgramOption) *Renderer {
	program := tea.NewProgram(model, opts...)
	return &Renderer{
		program: program,
		model:   model,
		errCh:   make(chan error, 1),
	}
}

// Start launches the TUI in a background goroutine.
func (r *Renderer) Start(_ context.Context) error {
	go func() {
		_, err := r.program.Run()
		r.errCh <- err
	}()
	return nil
}

// Stop signals the TUI to quit.
func (r *Renderer) Stop() error {
	r.program.Quit()
	return nil
}

// Wait blocks until the TUI has terminated.
func (r *Renderer) Wait() error {
	return <-r.errCh
}

// OnPlanEmit forwards lane initialization to the TUI.
func (r *Renderer) OnPlanEmit(lanes []string) {
	r.program.Send(MsgInitLanes{
		Lanes: lanes,
	})
}

// OnLaneStart forwards lane start events to the TUI.
func (r *Renderer) OnLaneStart(spanID, parentID, name string, startTime time.Time) {
	r.program.Send(MsgLaneStart{
		SpanID:    spanID,
		ParentID:  parentID,
		Name:      name,
		StartTime: startTime,
	})
}

// OnLaneLog forwards lane log data to the TUI.
func (r *Renderer) OnLaneLog(spanID string, data []byte) {
	r.program.Send(MsgLaneLog{
		SpanID: spanID,
		Data:   data,
	})
}

// OnLaneComplete forwards lane completion events to the TUI.
func (r *Renderer) OnLaneComplete(spanID string, endTime time.Time, err error) {
	r.program.Send(MsgLaneComplete{
		SpanID:  spanID,
		EndTime: endTime,
		Err:     err,
	})
}

// Program returns the underlying tea.Program for testing.
func (r *Renderer) Program() *tea.Program {
	return r.program
}
