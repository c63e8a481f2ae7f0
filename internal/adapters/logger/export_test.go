// export_test.go exports private identifiers for white-box testing.
package logger

// ErrorEntry exposes the private errorEntry type for tests.
type ErrorEntry = errorEntry

// Exported error formatting functions for testing.
var (
	CollectErrorEntriesExported = collectErrorEntries
	FormatErrorEntriesExported  = formatErrorEntries
)
