package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.trai.ch/mono/internal/adapters/watcher"
	"go.trai.ch/mono/internal/core/domain"
	"go.trai.ch/mono/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// ModuleServer is the slice of the dev server the watch session drives.
type ModuleServer interface {
	// Start serves until the context is cancelled.
	Start(ctx context.Context) error
}

// Watch is the long-running development session: a warm compiler fed by
// debounced file-change notifications, one bundle lane per descriptor,
// and the dev module server, all torn down together on cancellation.
type Watch struct {
	cfg      *domain.ProjectConfig
	registry *domain.Registry
	compiler ports.Compiler
	bundler  ports.Bundler
	watcher  ports.Watcher
	server   ModuleServer
	tracer   ports.Tracer
	logger   ports.Logger
}

// NewWatch creates a watch session. The server may be nil, in which case
// the session runs without module serving.
func NewWatch(
	cfg *domain.ProjectConfig,
	registry *domain.Registry,
	compiler ports.Compiler,
	bundler ports.Bundler,
	w ports.Watcher,
	server ModuleServer,
	tracer ports.Tracer,
	logger ports.Logger,
) *Watch {
	return &Watch{
		cfg:      cfg,
		registry: registry,
		compiler: compiler,
		bundler:  bundler,
		watcher:  w,
		server:   server,
		tracer:   tracer,
		logger:   logger,
	}
}

// Run starts the session and blocks until the context is cancelled or a
// component fails to start. Compile and bundle failures inside a cycle do
// not end the session; they surface through the renderer and the next
// change gets a fresh cycle.
func (w *Watch) Run(ctx context.Context) error {
	descs, err := Descriptors(w.cfg, w.registry)
	if err != nil {
		return err
	}
	if len(descs) == 0 {
		return domain.ErrNoPackagesDeclared
	}

	lanes := make([]string, 0, len(descs)+1)
	lanes = append(lanes, compileLane)
	for _, d := range descs {
		lanes = append(lanes, laneName(d))
	}
	w.tracer.EmitPlan(ctx, lanes)

	g, ctx := errgroup.WithContext(ctx)

	// One kick channel per lane. The single buffered slot coalesces kicks
	// that arrive while the lane is mid-cycle.
	kicks := make([]chan struct{}, len(descs))
	for i := range descs {
		kicks[i] = make(chan struct{}, 1)
	}

	changes := make(chan []string, 1)
	debouncer := watcher.NewDebouncer(watcher.DefaultDebounceWindow, func(paths []string) {
		select {
		case changes <- paths:
		case <-ctx.Done():
		}
	})
	filter := watcher.NewChangeFilter()

	if err := w.watcher.Start(ctx, w.cfg.Root); err != nil {
		return zerr.Wrap(err, "failed to start file watcher")
	}
	defer func() {
		_ = w.watcher.Stop()
	}()

	g.Go(func() error {
		for event := range w.watcher.Events() {
			if !watcher.Relevant(event.Path) || !filter.Changed(event) {
				continue
			}
			debouncer.Add(event.Path)
		}
		return nil
	})

	g.Go(func() error {
		w.cycle(ctx, nil, descs, kicks)
		for {
			select {
			case <-ctx.Done():
				return nil
			case paths := <-changes:
				w.cycle(ctx, paths, descs, kicks)
			}
		}
	})

	for i, desc := range descs {
		g.Go(func() error {
			return w.runLane(ctx, desc, kicks[i])
		})
	}

	if w.server != nil {
		g.Go(func() error {
			if err := w.server.Start(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		})
	}

	return g.Wait()
}

// cycle runs one compile pass and kicks the lanes the change set touches.
// A nil path set means the initial full build: everything compiles and
// every lane bundles once.
func (w *Watch) cycle(ctx context.Context, paths []string, descs []domain.BundleDescriptor, kicks []chan struct{}) {
	if len(paths) > 0 {
		w.compiler.Invalidate(paths)
		w.logger.Info(fmt.Sprintf("%d file(s) changed", len(paths)))
	}

	ctx, span := w.tracer.Start(ctx, compileLane)
	result, err := w.compiler.Compile(ctx)
	if err != nil {
		span.RecordError(err)
		span.End()
		return
	}
	for _, d := range result.Diagnostics {
		fmt.Fprintln(span, d.String())
	}
	if result.Failed() {
		// Lanes keep serving their last good artifacts.
		span.RecordError(zerr.With(zerr.Wrap(domain.ErrEmitSkipped, "compilation failed"), "diagnostics", len(result.Diagnostics)))
		span.End()
		return
	}
	span.End()

	for i, d := range descs {
		if len(paths) > 0 && !w.affected(d.PackageName, paths) {
			continue
		}
		select {
		case kicks[i] <- struct{}{}:
		default:
		}
	}
}

// runLane is one bundle lane: it idles until kicked, bundles its single
// descriptor under a fresh span, and goes back to idle. Bundle failures
// end the cycle, not the lane.
func (w *Watch) runLane(ctx context.Context, desc domain.BundleDescriptor, kick <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-kick:
		}

		_, span := w.tracer.Start(ctx, laneName(desc))
		if err := w.bundler.Bundle(ctx, []domain.BundleDescriptor{desc}); err != nil {
			fmt.Fprintf(span, "%v\n", err)
			span.RecordError(err)
		}
		span.End()
	}
}

// affected reports whether any changed path concerns the given package.
// Paths outside every package directory (the config file, shared sources
// pulled in through explicit roots) count for all packages.
func (w *Watch) affected(pkgName string, paths []string) bool {
	pkg, err := w.registry.Resolve(pkgName)
	if err != nil {
		return true
	}
	for _, p := range paths {
		owner := w.owner(p)
		if owner == "" || owner == pkg.Dir {
			return true
		}
	}
	return false
}

// owner returns the directory of the package a path belongs to, or empty
// when no package claims it.
func (w *Watch) owner(path string) string {
	for _, pkg := range w.registry.All() {
		rel, err := filepath.Rel(pkg.Dir, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		return pkg.Dir
	}
	return ""
}
