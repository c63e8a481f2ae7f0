// Package resolver implements module specifier resolution for program
// construction: a sibling-package override layered over default
// relative-path resolution.
package resolver

import (
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/mono/internal/core/domain"
	"go.trai.ch/mono/internal/core/ports"
)

// SiblingResolver intercepts sibling-package import specifiers
// ("<scope>/<name>") and redirects them to the package's recorded source
// entry point instead of its published declaration output. Everything else
// falls through to the wrapped resolver. Without this override the compiler
// would pull each sibling's separately generated declarations, duplicating
// and potentially desynchronizing type information across the graph.
type SiblingResolver struct {
	registry *domain.Registry
	scope    string
	fallback ports.ModuleResolver
}

var _ ports.ModuleResolver = (*SiblingResolver)(nil)

// NewSiblingResolver creates the override around a fallback resolver.
func NewSiblingResolver(registry *domain.Registry, scope string, fallback ports.ModuleResolver) *SiblingResolver {
	return &SiblingResolver{
		registry: registry,
		scope:    scope,
		fallback: fallback,
	}
}

// Resolve resolves each specifier, applying the sibling override first.
// A miss is not an error: it falls through to default resolution, which
// independently succeeds or fails.
func (r *SiblingResolver) Resolve(specifiers []string, importer string) []ports.Resolution {
	out := make([]ports.Resolution, len(specifiers))
	for i, spec := range specifiers {
		if path, ok := r.siblingEntry(spec); ok {
			out[i] = ports.Resolution{Path: path, Internal: true, Found: true}
			continue
		}
		out[i] = r.fallback.Resolve([]string{spec}, importer)[0]
	}
	return out
}

// siblingEntry returns the main entry for "<scope>/<name>" specifiers that
// name a known buildable package.
func (r *SiblingResolver) siblingEntry(spec string) (string, bool) {
	name, ok := strings.CutPrefix(spec, r.scope+"/")
	if !ok || name == "" || strings.Contains(name, "/") {
		return "", false
	}
	pkg, err := r.registry.Resolve(name)
	if err != nil || !pkg.Buildable() {
		return "", false
	}
	return pkg.MainEntry, true
}

// DefaultResolver implements the compiler's default name resolution:
// relative specifiers are probed against the importing file's directory;
// bare specifiers are external libraries and never resolve to source.
type DefaultResolver struct {
	// Ext is the probed source extension, domain.SourceExt by default.
	Ext string
}

var _ ports.ModuleResolver = (*DefaultResolver)(nil)

// NewDefaultResolver creates a DefaultResolver for the source convention.
func NewDefaultResolver() *DefaultResolver {
	return &DefaultResolver{Ext: domain.SourceExt}
}

// Resolve probes relative specifiers as "p", "p<ext>" and "p/index<ext>".
func (d *DefaultResolver) Resolve(specifiers []string, importer string) []ports.Resolution {
	out := make([]ports.Resolution, len(specifiers))
	for i, spec := range specifiers {
		if !IsRelative(spec) {
			continue
		}
		base := filepath.Join(filepath.Dir(importer), filepath.FromSlash(spec))
		for _, candidate := range []string{base, base + d.Ext, filepath.Join(base, "index"+d.Ext)} {
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				out[i] = ports.Resolution{Path: candidate, Found: true}
				break
			}
		}
	}
	return out
}

// IsRelative reports whether a specifier is a relative path reference.
func IsRelative(spec string) bool {
	return strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../") || spec == "." || spec == ".."
}
