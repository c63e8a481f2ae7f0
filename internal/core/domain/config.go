package domain

// ProjectConfig is the canonical project configuration, loaded once per
// invocation from mono.yaml at the workspace root.
type ProjectConfig struct {
	// Root is the absolute workspace root directory (where mono.yaml lives).
	Root string

	// Scope is the import-scope prefix for sibling-package specifiers,
	// e.g. "@mono" makes the package "state" importable as "@mono/state".
	Scope string

	// Packages is the fixed list of declared package names, in order.
	Packages []string

	// Compiler holds the compile-stage configuration.
	Compiler CompilerOptions

	// Server holds the dev server configuration.
	Server ServerOptions
}

// CompilerOptions mirrors the files/options split of the canonical compiler
// configuration.
type CompilerOptions struct {
	// Files is the explicit program root file list. When empty the roots
	// default to the main entries of all buildable packages.
	Files []string

	// OutDir is the compiled (pre-bundle) output directory, relative to
	// the workspace root. The emitted tree mirrors the source tree.
	OutDir string

	// SourceMap enables source map emission for code bundles.
	SourceMap bool

	// Declaration enables declaration emission and declaration bundles.
	Declaration bool

	// Helper is the designated runtime-support helper module, which the
	// bundler always treats as externally provided.
	Helper string
}

// ServerOptions configures the dev module server.
type ServerOptions struct {
	// Port is the TCP port the server binds to.
	Port int

	// DemoDir is the directory (relative to root) served for manual
	// browser testing.
	DemoDir string
}
