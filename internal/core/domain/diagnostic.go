package domain

import "fmt"

// Severity classifies a compiler diagnostic.
type Severity uint8

const (
	// SeverityWarning marks a diagnostic that never affects the build verdict.
	SeverityWarning Severity = iota
	// SeverityError marks a diagnostic for code the compiler rejects.
	SeverityError
)

// String returns the lowercase severity label.
func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Diagnostic is one compiler finding with its source location.
type Diagnostic struct {
	Severity Severity
	Message  string
	File     string
	Line     int
}

// String formats the diagnostic the way the compile stage prints it.
func (d Diagnostic) String() string {
	if d.File == "" {
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	}
	return fmt.Sprintf("%s:%d: %s: %s", d.File, d.Line, d.Severity, d.Message)
}

// CompileResult is the outcome of one compile invocation.
type CompileResult struct {
	// Diagnostics in discovery order.
	Diagnostics []Diagnostic

	// EmitSkipped is true when no output files were written.
	// Diagnostics alone do not imply a skipped emit.
	EmitSkipped bool

	// EmittedFiles lists the output files written, in emit order.
	EmittedFiles []string
}

// Failed reports the build-fatal verdict: only a skipped emit halts the pipeline.
func (r *CompileResult) Failed() bool {
	return r.EmitSkipped
}

// HasErrors reports whether any error-severity diagnostic was collected.
func (r *CompileResult) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
