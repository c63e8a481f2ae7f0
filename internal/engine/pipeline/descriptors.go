// Package pipeline composes the build stages: the batch run that compiles
// once and bundles every package, and the watch session that keeps the
// compiler warm and cycles bundle lanes on file changes.
package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.trai.ch/mono/internal/adapters/bundler"
	"go.trai.ch/mono/internal/core/domain"
	"go.trai.ch/zerr"
)

// compileLane is the span name of the whole-program compile stage.
const compileLane = "compile"

// laneName returns the human-readable lane label shown by renderers,
// e.g. "state (code)".
func laneName(d domain.BundleDescriptor) string {
	return fmt.Sprintf("%s (%s)", d.PackageName, d.Kind)
}

// Descriptors builds the bundling jobs for every buildable package, in
// declaration order: one code descriptor each, plus a declaration
// descriptor when declaration emit is enabled. Inputs point into the
// compiled output tree, which mirrors the source tree under the
// configured out directory.
func Descriptors(cfg *domain.ProjectConfig, registry *domain.Registry) ([]domain.BundleDescriptor, error) {
	outRoot := filepath.Join(cfg.Root, cfg.Compiler.OutDir)
	buildable := registry.Buildable()
	external := bundler.External(cfg.Compiler.Helper)

	descs := make([]domain.BundleDescriptor, 0, 2*len(buildable))
	for _, pkg := range buildable {
		rel, err := filepath.Rel(cfg.Root, pkg.MainEntry)
		if err != nil || strings.HasPrefix(rel, "..") {
			outside := zerr.With(zerr.New("package entry outside workspace root"), "package", pkg.Name)
			return nil, zerr.With(outside, "entry", pkg.MainEntry)
		}
		entry := filepath.Join(outRoot, strings.TrimSuffix(rel, domain.SourceExt)+domain.CodeExt)

		code := domain.BundleDescriptor{
			PackageName: pkg.Name,
			Kind:        domain.BundleCode,
			Input:       entry,
			OutFile:     domain.CodeBundlePath(pkg.Dir),
			External:    external,
		}
		if cfg.Compiler.SourceMap {
			code.MapFile = domain.CodeBundleMapPath(pkg.Dir)
		}
		descs = append(descs, code)

		if cfg.Compiler.Declaration {
			descs = append(descs, domain.BundleDescriptor{
				PackageName: pkg.Name,
				Kind:        domain.BundleDecl,
				Input:       domain.DeclCounterpart(entry),
				OutFile:     domain.DeclBundlePath(pkg.Dir),
				External:    external,
			})
		}
	}
	return descs, nil
}
