// Package compiler implements the type-check/compile stage over the
// canonical project configuration.
package compiler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/mono/internal/adapters/resolver"
	"go.trai.ch/mono/internal/core/domain"
	"go.trai.ch/mono/internal/core/ports"
	"go.trai.ch/zerr"
)

// Compiler loads the whole-project program using an injected resolver
// strategy, collects diagnostics, and emits compiled output. A Compiler is
// constructed fresh per invocation in batch mode; the watch pipeline keeps
// one warm and invalidates changed files between cycles.
type Compiler struct {
	cfg      *domain.ProjectConfig
	registry *domain.Registry
	resolve  ports.ModuleResolver

	mu    sync.Mutex
	files map[string]*sourceFile
}

var _ ports.Compiler = (*Compiler)(nil)

// New creates a Compiler over the given configuration and registry.
// The resolver strategy is injected rather than patched onto a shared
// host, so it stays composable and testable on its own.
func New(cfg *domain.ProjectConfig, registry *domain.Registry, res ports.ModuleResolver) *Compiler {
	return &Compiler{
		cfg:      cfg,
		registry: registry,
		resolve:  res,
		files:    map[string]*sourceFile{},
	}
}

// Compile constructs the program over the configured root files, collects
// diagnostics in discovery order, and emits compiled output unless a
// resolution failure forces the emit to be skipped.
func (c *Compiler) Compile(ctx context.Context) (*domain.CompileResult, error) {
	roots, err := c.rootFiles()
	if err != nil {
		return nil, err
	}

	result := &domain.CompileResult{}
	program, err := c.loadProgram(ctx, roots, result)
	if err != nil {
		return nil, err
	}

	if result.EmitSkipped {
		return result, nil
	}

	if err := c.emit(program, result); err != nil {
		return nil, err
	}
	return result, nil
}

// Invalidate drops cached state for the given source paths.
func (c *Compiler) Invalidate(paths []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range paths {
		delete(c.files, p)
	}
}

// rootFiles returns the program roots: the explicit config file list, or
// the main entries of all buildable packages.
func (c *Compiler) rootFiles() ([]string, error) {
	if len(c.cfg.Compiler.Files) > 0 {
		roots := make([]string, len(c.cfg.Compiler.Files))
		for i, f := range c.cfg.Compiler.Files {
			if filepath.IsAbs(f) {
				roots[i] = f
			} else {
				roots[i] = filepath.Join(c.cfg.Root, f)
			}
		}
		return roots, nil
	}

	buildable := c.registry.Buildable()
	if len(buildable) == 0 {
		return nil, zerr.Wrap(domain.ErrNoPackagesDeclared, "no buildable packages")
	}
	roots := make([]string, len(buildable))
	for i, p := range buildable {
		roots[i] = p.MainEntry
	}
	return roots, nil
}

// loadProgram walks the import graph breadth-first from the roots.
// Unresolvable project-internal references are fatal for the emit; missing
// exported members are ordinary diagnostics that leave the emit intact.
func (c *Compiler) loadProgram(ctx context.Context, roots []string, result *domain.CompileResult) ([]*sourceFile, error) {
	var program []*sourceFile
	visited := make(map[string]bool, len(roots))
	queue := append([]string(nil), roots...)

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := queue[0]
		queue = queue[1:]
		if visited[path] {
			continue
		}
		visited[path] = true

		file, err := c.loadFile(path)
		if err != nil {
			result.Diagnostics = append(result.Diagnostics, domain.Diagnostic{
				Severity: domain.SeverityError,
				Message:  fmt.Sprintf("cannot read file: %v", err),
				File:     c.rel(path),
			})
			result.EmitSkipped = true
			continue
		}
		program = append(program, file)

		resolutions := c.resolve.Resolve(file.specifiers(), path)
		for i, imp := range file.Imports {
			res := resolutions[i]
			if !res.Found {
				if c.mustResolve(imp.Specifier) {
					result.Diagnostics = append(result.Diagnostics, domain.Diagnostic{
						Severity: domain.SeverityError,
						Message:  fmt.Sprintf("cannot resolve module %q", imp.Specifier),
						File:     c.rel(path),
						Line:     imp.Line,
					})
					result.EmitSkipped = true
				}
				// Bare specifiers are externally provided libraries.
				continue
			}
			if !visited[res.Path] {
				queue = append(queue, res.Path)
			}
			c.checkNamedImports(file, imp, res.Path, result)
		}
	}

	return program, nil
}

// mustResolve reports whether an unresolved specifier is a hard error:
// relative references always are, and so are specifiers under the project
// scope, which can never come from an external library.
func (c *Compiler) mustResolve(spec string) bool {
	return resolver.IsRelative(spec) || strings.HasPrefix(spec, c.cfg.Scope+"/")
}

// checkNamedImports verifies that every imported binding is exported by the
// target module. Findings are error diagnostics, but emit still proceeds:
// only failed resolution skips it.
func (c *Compiler) checkNamedImports(file *sourceFile, imp importStmt, targetPath string, result *domain.CompileResult) {
	if len(imp.Names) == 0 {
		return
	}
	target, err := c.loadFile(targetPath)
	if err != nil {
		return
	}
	// A target with star re-exports has a statically unknowable surface.
	for _, t := range target.Imports {
		if t.Reexport && len(t.Names) == 0 {
			return
		}
	}
	for _, name := range imp.Names {
		if _, ok := target.Exports[name]; !ok {
			result.Diagnostics = append(result.Diagnostics, domain.Diagnostic{
				Severity: domain.SeverityError,
				Message:  fmt.Sprintf("module %q has no exported member %q", imp.Specifier, name),
				File:     c.rel(file.Path),
				Line:     imp.Line,
			})
		}
	}
}

// loadFile returns the parsed file, from cache when the watch pipeline has
// kept it warm.
func (c *Compiler) loadFile(path string) (*sourceFile, error) {
	c.mu.Lock()
	if f, ok := c.files[path]; ok {
		c.mu.Unlock()
		return f, nil
	}
	c.mu.Unlock()

	data, err := os.ReadFile(path) //nolint:gosec // Paths come from the resolved program graph
	if err != nil {
		return nil, err
	}
	f := parseSource(path, data)
	f.Hash = xxhash.Sum64(data)

	c.mu.Lock()
	c.files[path] = f
	c.mu.Unlock()
	return f, nil
}

// rel shortens a path for diagnostics, relative to the workspace root.
func (c *Compiler) rel(path string) string {
	if r, err := filepath.Rel(c.cfg.Root, path); err == nil && !strings.HasPrefix(r, "..") {
		return filepath.ToSlash(r)
	}
	return filepath.ToSlash(path)
}
