package ports

import (
	"context"
	"time"
)

// Renderer is the abstraction for output rendering.
// It decouples lane-event collection from presentation logic,
// allowing the same event stream to drive either a rich TUI or linear CI logs.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer and begins its lifecycle.
	// For asynchronous renderers (like TUI), this may launch background goroutines.
	Start(ctx context.Context) error

	// Stop signals the renderer to stop accepting new events and prepare for shutdown.
	// It should flush any buffered output.
	Stop() error

	// Wait blocks until the renderer has fully terminated.
	// For synchronous renderers, this may return immediately.
	Wait() error

	// OnPlanEmit is called once with the full set of lanes the pipeline
	// will service, in package order.
	OnPlanEmit(lanes []string)

	// OnLaneStart is called when a lane begins a bundling (or compile) cycle.
	// spanID: unique identifier for this cycle
	// parentID: spanID of the enclosing span (empty if root)
	// name: human-readable lane name, e.g. "state (code)"
	OnLaneStart(spanID, parentID, name string, startTime time.Time)

	// OnLaneLog is called when a cycle emits output such as diagnostics.
	// Data may contain partial lines.
	OnLaneLog(spanID string, data []byte)

	// OnLaneComplete is called when a cycle finishes.
	// err is nil on success.
	OnLaneComplete(spanID string, endTime time.Time, err error)
}
