package ports

import (
	"context"

	"go.trai.ch/mono/internal/core/domain"
)

// Bundler produces bundle artifacts from compiled output.
//
//go:generate mockgen -source=bundler.go -destination=mocks/mock_bundler.go -package=mocks
type Bundler interface {
	// Bundle processes all descriptors in one batched pass, writing each
	// package's artifacts under its own dist directory. The first failing
	// descriptor aborts the batch.
	Bundle(ctx context.Context, descriptors []domain.BundleDescriptor) error
}
