// Package app implements the application layer for mono.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/mono/internal/adapters/compiler"
	"go.trai.ch/mono/internal/adapters/detector"
	"go.trai.ch/mono/internal/adapters/devserver"
	"go.trai.ch/mono/internal/adapters/linear"
	"go.trai.ch/mono/internal/adapters/registry"
	"go.trai.ch/mono/internal/adapters/resolver"
	"go.trai.ch/mono/internal/adapters/telemetry"
	"go.trai.ch/mono/internal/adapters/tui"
	"go.trai.ch/mono/internal/core/domain"
	"go.trai.ch/mono/internal/core/ports"
	"go.trai.ch/mono/internal/engine/pipeline"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	scanner      *registry.Scanner
	bundler      ports.Bundler
	watcher      ports.Watcher
	logger       ports.Logger
	teaOptions   []tea.ProgramOption
	disableTick  bool
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	scanner *registry.Scanner,
	bundler ports.Bundler,
	watcher ports.Watcher,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		scanner:      scanner,
		bundler:      bundler,
		watcher:      watcher,
		logger:       log,
	}
}

// WithTeaOptions adds bubbletea program options to the App.
// This is primarily used for testing to disable input/output.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// WithDisableTick disables the TUI tick loop.
// This is primarily used for testing with synctest to avoid goroutine deadlocks.
func (a *App) WithDisableTick() *App {
	a.disableTick = true
	return a
}

// RunOptions configuration for the Build and Watch methods.
type RunOptions struct {
	OutputMode string
}

// project is one loaded workspace: the canonical configuration, the
// scanned registry, and a compiler constructed over both.
type project struct {
	cfg      *domain.ProjectConfig
	registry *domain.Registry
	compiler ports.Compiler
}

// loadProject loads mono.yaml from the working directory, scans the
// declared packages, and wires the resolver chain into a fresh compiler.
// Entry ambiguity is fatal here, before any build starts.
func (a *App) loadProject() (*project, error) {
	cfg, err := a.configLoader.Load(".")
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	reg, err := a.scanner.Scan(cfg.Root, cfg.Packages)
	if err != nil {
		return nil, err
	}

	res := resolver.NewSiblingResolver(reg, cfg.Scope, resolver.NewDefaultResolver())
	return &project{
		cfg:      cfg,
		registry: reg,
		compiler: compiler.New(cfg, reg, res),
	}, nil
}

// Build executes the batch pipeline: one full compile, then every package
// bundle in declaration order.
func (a *App) Build(ctx context.Context, opts RunOptions) error {
	proj, err := a.loadProject()
	if err != nil {
		return err
	}

	renderer := a.newRenderer(ctx, opts.OutputMode)
	return a.renderWhile(ctx, renderer, func(ctx context.Context, tracer ports.Tracer) error {
		pipe := pipeline.New(proj.cfg, proj.registry, proj.compiler, a.bundler, tracer)
		return pipe.Run(ctx)
	})
}

// Watch runs the development session until the context is cancelled: the
// warm compiler, one bundle lane per artifact, and the dev module server.
func (a *App) Watch(ctx context.Context, opts RunOptions) error {
	proj, err := a.loadProject()
	if err != nil {
		return err
	}

	server, err := devserver.New(proj.cfg, proj.registry, a.logger)
	if err != nil {
		return err
	}

	renderer := a.newRenderer(ctx, opts.OutputMode)
	return a.renderWhile(ctx, renderer, func(ctx context.Context, tracer ports.Tracer) error {
		session := pipeline.NewWatch(
			proj.cfg,
			proj.registry,
			proj.compiler,
			a.bundler,
			a.watcher,
			server,
			tracer,
			a.logger,
		)
		return session.Run(ctx)
	})
}

// Packages writes the registry listing: one line per declared package with
// its directory and resolved main entry, data-only packages marked as such.
func (a *App) Packages(_ context.Context, out io.Writer) error {
	proj, err := a.loadProject()
	if err != nil {
		return err
	}

	for _, pkg := range proj.registry.All() {
		dir := pkg.Dir
		if rel, err := filepath.Rel(proj.cfg.Root, pkg.Dir); err == nil {
			dir = rel
		}
		entry := "data-only"
		if pkg.Buildable() {
			entry = pkg.MainEntry
			if rel, err := filepath.Rel(proj.cfg.Root, pkg.MainEntry); err == nil {
				entry = rel
			}
		}
		_, _ = fmt.Fprintf(out, "%s\t%s\t%s\n", pkg.Name, dir, entry)
	}
	return nil
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	Output bool
	Dist   bool
}

// Clean removes build artifacts based on the provided options.
func (a *App) Clean(_ context.Context, options CleanOptions) error {
	proj, err := a.loadProject()
	if err != nil {
		return err
	}

	var errs error

	remove := func(path string, name string) {
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.Wrap(err, fmt.Sprintf("failed to remove %s", name)))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	if options.Output {
		remove(filepath.Join(proj.cfg.Root, proj.cfg.Compiler.OutDir), "compiled output")
	}

	if options.Dist {
		for _, pkg := range proj.registry.All() {
			remove(domain.DistDir(pkg.Dir), pkg.Name+" dist")
		}
	}

	return errs
}

// newRenderer selects the renderer for the detected environment, honoring
// an explicit output-mode override.
func (a *App) newRenderer(ctx context.Context, outputMode string) ports.Renderer {
	autoMode := detector.DetectEnvironment()
	mode := detector.ResolveMode(autoMode, outputMode)

	if mode == detector.ModeTUI {
		model := tui.NewModel(os.Stderr)
		if a.disableTick {
			model = model.WithDisableTick()
		}
		optsTea := append([]tea.ProgramOption{tea.WithContext(ctx)}, a.teaOptions...)
		return tui.NewRenderer(&model, optsTea...)
	}
	return linear.NewRenderer(os.Stdout, os.Stderr)
}

// renderWhile runs the renderer and the given work concurrently. The
// tracer streams spans and lane logs to the renderer through the global
// OTel provider bridge; the renderer stops as soon as the work returns.
func (a *App) renderWhile(
	ctx context.Context,
	renderer ports.Renderer,
	work func(ctx context.Context, tracer ports.Tracer) error,
) error {
	// Create a bridge that sends OTel spans to the renderer and register
	// it on the global SDK so spans started via otel.Tracer() reach it.
	bridge := telemetry.NewBridge(renderer)
	setupOTel(bridge)

	// The renderer is injected into the tracer too, so span writes stream
	// as lane logs without going through the span processor.
	tracer := telemetry.NewOTelTracer("mono").WithRenderer(renderer)
	defer func() {
		_ = tracer.Shutdown(ctx)
	}()

	g, ctx := errgroup.WithContext(ctx)

	// Renderer routine
	g.Go(func() error {
		if err := renderer.Start(ctx); err != nil {
			return err
		}
		// Wait blocks until the renderer has terminated.
		return renderer.Wait()
	})

	// Work routine
	g.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				// Print panic info before renderer shutdown
				fmt.Fprintf(os.Stderr, "pipeline panic: %v\n", r)
			}
			_ = renderer.Stop()
		}()

		if err := work(ctx, tracer); err != nil {
			return errors.Join(domain.ErrBuildExecutionFailed, err)
		}
		return nil
	})

	return g.Wait()
}

// setupOTel configures the OpenTelemetry SDK with the renderer bridge.
func setupOTel(bridge *telemetry.Bridge) {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(bridge),
	)
	otel.SetTracerProvider(tp)
}
