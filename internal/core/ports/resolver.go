package ports

// Resolution is the outcome of resolving one module specifier.
type Resolution struct {
	// Path is the resolved source file, empty when not found.
	Path string

	// Internal marks sibling-package references that the compiler treats
	// as part of the unified program rather than an external library.
	Internal bool

	// Found reports whether resolution succeeded. A miss is not an error
	// by itself; the compiler turns it into a module-not-found diagnostic.
	Found bool
}

// ModuleResolver resolves module specifiers during program construction.
// Implementations are stateless apart from reading the immutable registry,
// so the compile stage can accept them as injected strategy values.
//
//go:generate mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type ModuleResolver interface {
	// Resolve resolves each specifier relative to the importing file.
	// The returned slice has one entry per specifier, in order.
	Resolve(specifiers []string, importer string) []Resolution
}
