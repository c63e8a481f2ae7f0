// export_test.go exports private identifiers for white-box testing.
package telemetry

// Batcher exposes the span's batch processor for tests.
func (s *OTelSpan) Batcher() *BatchProcessor {
	return s.batcher
}
