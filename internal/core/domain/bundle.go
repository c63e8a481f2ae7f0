package domain

// BundleKind distinguishes the two artifact lanes produced per package.
type BundleKind uint8

const (
	// BundleCode is the executable module bundle.
	BundleCode BundleKind = iota
	// BundleDecl is the merged type-declaration bundle.
	BundleDecl
)

// String returns the short lane label used in events and span names.
func (k BundleKind) String() string {
	if k == BundleDecl {
		return "decl"
	}
	return "code"
}

// ExternalFunc is the externality predicate: it decides, per import
// specifier, whether the bundler leaves it as a consumer-supplied
// dependency (true) or inlines it (false).
type ExternalFunc func(specifier string) bool

// BundleDescriptor describes one bundling job. Descriptors are values
// constructed fresh per invocation and discarded after use.
type BundleDescriptor struct {
	// PackageName identifies the package the artifact belongs to.
	PackageName string

	// Kind selects code or declaration bundling.
	Kind BundleKind

	// Input is the compiled entry file (code) or its declaration
	// counterpart (decl).
	Input string

	// OutFile is the bundle output location inside the package's own
	// dist directory.
	OutFile string

	// MapFile is the accompanying source map location, or empty when no
	// map is produced.
	MapFile string

	// External is the externality predicate applied to every specifier
	// encountered while bundling.
	External ExternalFunc
}

// LaneID returns the stable identifier for this descriptor's watch lane.
func (d BundleDescriptor) LaneID() string {
	return d.PackageName + "/" + d.Kind.String()
}

// BundleWarning is a non-fatal finding surfaced while bundling.
type BundleWarning struct {
	// Code is the machine-readable warning class, e.g. "CIRCULAR_DEPENDENCY".
	Code string

	// Message is the human-readable description.
	Message string
}

// Warning codes emitted by the bundler. Circular-dependency and
// unused-external-import warnings are expected and harmless in a
// declaration-merge context and are suppressed there.
const (
	WarnCircularDependency   = "CIRCULAR_DEPENDENCY"
	WarnUnusedExternalImport = "UNUSED_EXTERNAL_IMPORT"
	WarnUnresolvedImport     = "UNRESOLVED_IMPORT"
)
