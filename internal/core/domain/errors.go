package domain

import "go.trai.ch/zerr"

var (
	// ErrPackageNotFound is returned when a requested package is not in the registry.
	ErrPackageNotFound = zerr.New("package not found")

	// ErrAmbiguousEntry is returned when a package has several candidate entry
	// files and none satisfies the disambiguation convention.
	ErrAmbiguousEntry = zerr.New("ambiguous package entry point")

	// ErrConfigNotFound is returned when no mono.yaml can be located.
	ErrConfigNotFound = zerr.New("configuration file not found")

	// ErrEmitSkipped is returned when compilation aborted before writing output files.
	ErrEmitSkipped = zerr.New("emit skipped")

	// ErrBundleFailed is returned when a batch bundle pass fails.
	ErrBundleFailed = zerr.New("bundle failed")

	// ErrModuleNotFound is returned when a module specifier cannot be resolved.
	ErrModuleNotFound = zerr.New("module not found")

	// ErrBuildExecutionFailed signals a fatal build outcome to the CLI layer,
	// which maps it to exit code 1 without double-logging.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrNoPackagesDeclared is returned when the configuration declares no packages.
	ErrNoPackagesDeclared = zerr.New("no packages declared")
)
