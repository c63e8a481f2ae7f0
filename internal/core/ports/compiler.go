package ports

import (
	"context"

	"go.trai.ch/mono/internal/core/domain"
)

// Compiler defines the type-check/compile stage.
//
//go:generate mockgen -source=compiler.go -destination=mocks/mock_compiler.go -package=mocks
type Compiler interface {
	// Compile loads the program over the canonical configuration's file
	// list, writes compiled output files as a side effect, and returns all
	// diagnostics in discovery order. The error return is reserved for
	// infrastructure failures; compile findings live in the result.
	Compile(ctx context.Context) (*domain.CompileResult, error)

	// Invalidate drops cached per-file state for the given paths.
	// The watch variant calls this between incremental re-checks; batch
	// callers never need it.
	Invalidate(paths []string)
}
