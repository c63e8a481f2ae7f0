// Package domain contains the core domain models for the package graph and build pipeline.
package domain

import (
	"go.trai.ch/zerr"
)

// Package represents one independently versioned unit of source code
// living in its own directory under the workspace root.
type Package struct {
	// Name is the unique identifier. The sibling-package import specifier
	// is derived from it (e.g. "@mono/state" for the package "state").
	Name string

	// Dir is the absolute path to the package checkout root.
	Dir string

	// MainEntry is the resolved path to the package's single public source
	// entry point. It is empty for data-only packages that are not
	// independently bundled.
	MainEntry string
}

// Buildable reports whether the package has a resolved main entry and
// therefore produces bundle artifacts.
func (p Package) Buildable() bool {
	return p.MainEntry != ""
}

// Registry is an immutable lookup of all workspace packages.
// It is constructed once at process start and passed by reference into
// every component that needs package lookup.
type Registry struct {
	byName map[string]Package
	order  []string
}

// NewRegistry creates a Registry from the given packages.
// The slice order is preserved and becomes the canonical package order.
func NewRegistry(pkgs []Package) *Registry {
	r := &Registry{
		byName: make(map[string]Package, len(pkgs)),
		order:  make([]string, 0, len(pkgs)),
	}
	for _, p := range pkgs {
		if _, exists := r.byName[p.Name]; exists {
			continue
		}
		r.byName[p.Name] = p
		r.order = append(r.order, p.Name)
	}
	return r
}

// Resolve looks up a package by name.
func (r *Registry) Resolve(name string) (Package, error) {
	p, ok := r.byName[name]
	if !ok {
		return Package{}, zerr.With(zerr.Wrap(ErrPackageNotFound, "registry lookup failed"), "package", name)
	}
	return p, nil
}

// All returns every package in declaration order.
func (r *Registry) All() []Package {
	out := make([]Package, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Buildable returns the subset of packages with a resolved main entry,
// in declaration order.
func (r *Registry) Buildable() []Package {
	out := make([]Package, 0, len(r.order))
	for _, name := range r.order {
		if p := r.byName[name]; p.Buildable() {
			out = append(out, p)
		}
	}
	return out
}

// Len returns the number of registered packages.
func (r *Registry) Len() int {
	return len(r.order)
}
