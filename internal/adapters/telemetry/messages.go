package telemetry

// rendererMsg is a message forwarded from the tracer to the renderer loop.
type rendererMsg interface{}

// msgLaneLog carries a chunk of log output for a specific lane span.
type msgLaneLog struct {
	SpanID string
	Data   []byte
}

// msgPlanEmit announces the set of lanes the pipeline will service.
type msgPlanEmit struct {
	Lanes []string
}
