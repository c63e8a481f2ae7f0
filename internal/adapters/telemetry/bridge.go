package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/mono/internal/core/ports"
)

// Bridge is an sdktrace.SpanProcessor that mirrors span lifecycle into
// renderer lane events. Span IDs double as lane IDs on the renderer side.
type Bridge struct {
	renderer ports.Renderer
}

// NewBridge returns a bridge forwarding to renderer. A nil renderer makes
// every callback a no-op.
func NewBridge(renderer ports.Renderer) *Bridge {
	return &Bridge{
		renderer: renderer,
	}
}

// OnStart forwards a span start as a lane start.
func (b *Bridge) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	if b.renderer == nil {
		return
	}

	sc := s.SpanContext()
	if !sc.IsValid() {
		return
	}

	var parentID string
	if parentSpan := trace.SpanFromContext(parent); parentSpan.SpanContext().IsValid() {
		parentID = parentSpan.SpanContext().SpanID().String()
	}

	b.renderer.OnLaneStart(
		sc.SpanID().String(),
		parentID,
		s.Name(),
		s.StartTime(),
	)
}

// OnEnd forwards a span end as a lane completion, translating an error
// status into a lane error.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.renderer == nil {
		return
	}

	sc := s.SpanContext()
	if !sc.IsValid() {
		return
	}

	var err error
	if s.Status().Code == codes.Error {
		desc := s.Status().Description
		if desc == "" {
			desc = "lane failed"
		}
		err = errors.New(desc)
	}

	b.renderer.OnLaneComplete(
		sc.SpanID().String(),
		s.EndTime(),
		err,
	)
}

// ForceFlush implements sdktrace.SpanProcessor. Nothing is buffered here.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown implements sdktrace.SpanProcessor. Nothing to release.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}
