package pipeline

import (
	"context"
	"fmt"

	"go.trai.ch/mono/internal/core/domain"
	"go.trai.ch/mono/internal/core/ports"
	"go.trai.ch/zerr"
)

// Pipeline is the batch build: one full compile over the unified program,
// then every bundle descriptor, strictly in package declaration order.
type Pipeline struct {
	cfg      *domain.ProjectConfig
	registry *domain.Registry
	compiler ports.Compiler
	bundler  ports.Bundler
	tracer   ports.Tracer
}

// New creates a batch Pipeline over the given stages.
func New(
	cfg *domain.ProjectConfig,
	registry *domain.Registry,
	compiler ports.Compiler,
	bundler ports.Bundler,
	tracer ports.Tracer,
) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		registry: registry,
		compiler: compiler,
		bundler:  bundler,
		tracer:   tracer,
	}
}

// Run executes the batch build. A skipped emit halts the run before any
// bundling; the first failing package aborts the rest.
func (p *Pipeline) Run(ctx context.Context) error {
	descs, err := Descriptors(p.cfg, p.registry)
	if err != nil {
		return err
	}

	buildable := p.registry.Buildable()
	lanes := make([]string, 0, len(buildable)+1)
	lanes = append(lanes, compileLane)
	for _, pkg := range buildable {
		lanes = append(lanes, pkg.Name)
	}
	p.tracer.EmitPlan(ctx, lanes)

	if err := p.compile(ctx); err != nil {
		return err
	}

	byPackage := make(map[string][]domain.BundleDescriptor, len(buildable))
	for _, d := range descs {
		byPackage[d.PackageName] = append(byPackage[d.PackageName], d)
	}
	for _, pkg := range buildable {
		if err := p.bundlePackage(ctx, pkg.Name, byPackage[pkg.Name]); err != nil {
			return err
		}
	}
	return nil
}

// compile runs the whole-program compile stage under its own span,
// streaming diagnostics as span output.
func (p *Pipeline) compile(ctx context.Context) error {
	ctx, span := p.tracer.Start(ctx, compileLane)
	defer span.End()

	result, err := p.compiler.Compile(ctx)
	if err != nil {
		span.RecordError(err)
		return err
	}

	for _, d := range result.Diagnostics {
		fmt.Fprintln(span, d.String())
	}
	span.SetAttribute("mono.diagnostics", len(result.Diagnostics))

	if result.Failed() {
		skipErr := zerr.With(zerr.Wrap(domain.ErrEmitSkipped, "compilation failed"), "diagnostics", len(result.Diagnostics))
		span.RecordError(skipErr)
		return skipErr
	}

	span.SetAttribute("mono.emitted_files", len(result.EmittedFiles))
	return nil
}

// bundlePackage bundles one package's descriptors under a span named after
// the package.
func (p *Pipeline) bundlePackage(ctx context.Context, name string, descs []domain.BundleDescriptor) error {
	ctx, span := p.tracer.Start(ctx, name)
	defer span.End()

	if err := p.bundler.Bundle(ctx, descs); err != nil {
		span.RecordError(err)
		return zerr.With(zerr.Wrap(err, domain.ErrBundleFailed.Error()), "package", name)
	}
	return nil
}
