// Package bundler produces the per-package artifacts: a self-contained
// code bundle with its source map, and a merged declaration bundle.
package bundler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/mono/internal/core/domain"
	"go.trai.ch/mono/internal/core/ports"
	"go.trai.ch/zerr"
)

// Bundler links compiled modules into dist artifacts. It is stateless
// across invocations; each descriptor is processed with a fresh linker.
type Bundler struct {
	logger ports.Logger
}

var _ ports.Bundler = (*Bundler)(nil)

// New creates a Bundler that surfaces non-suppressed warnings through the
// given logger.
func New(logger ports.Logger) *Bundler {
	return &Bundler{logger: logger}
}

// Bundle processes the descriptors in order and aborts on the first
// failure. Each package's artifacts land under its own dist directory, so
// one package's failure never corrupts another's output.
func (b *Bundler) Bundle(ctx context.Context, descriptors []domain.BundleDescriptor) error {
	for _, desc := range descriptors {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := b.bundleOne(desc); err != nil {
			wrapped := zerr.With(zerr.Wrap(err, "bundling failed"), "package", desc.PackageName)
			return zerr.With(wrapped, "kind", desc.Kind.String())
		}
	}
	return nil
}

func (b *Bundler) bundleOne(desc domain.BundleDescriptor) error {
	l := newLinker(desc)
	lines, refs, err := l.run()
	if err != nil {
		return err
	}
	b.report(desc, l.warnings)

	if err := os.MkdirAll(filepath.Dir(desc.OutFile), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create dist directory"), "path", desc.OutFile)
	}

	content := strings.Join(lines, "\n") + "\n"
	if desc.Kind == domain.BundleCode && desc.MapFile != "" {
		content += "//# sourceMappingURL=" + filepath.Base(desc.MapFile) + "\n"
		mapData, err := buildSourceMap(desc, l.sources, refs)
		if err != nil {
			return err
		}
		if err := os.WriteFile(desc.MapFile, mapData, domain.FilePerm); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to write source map"), "path", desc.MapFile)
		}
	}

	if err := os.WriteFile(desc.OutFile, []byte(content), domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write bundle"), "path", desc.OutFile)
	}
	return nil
}

// report logs every warning that is not suppressed for the descriptor's
// lane.
func (b *Bundler) report(desc domain.BundleDescriptor, warnings []domain.BundleWarning) {
	for _, w := range warnings {
		if suppressed(desc.Kind, w.Code) {
			continue
		}
		b.logger.Warn(fmt.Sprintf("%s [%s]: %s", w.Code, desc.LaneID(), w.Message))
	}
}

// suppressed reports whether a warning class is expected and harmless for
// the given lane. Cycles are cut during linking in both lanes; unused
// external imports only stay quiet in the declaration merge.
func suppressed(kind domain.BundleKind, code string) bool {
	switch code {
	case domain.WarnCircularDependency:
		return true
	case domain.WarnUnusedExternalImport:
		return kind == domain.BundleDecl
	}
	return false
}
