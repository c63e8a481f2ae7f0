package domain

import (
	"path/filepath"
	"strings"
)

const (
	// ConfigFileName is the name of the canonical project configuration file.
	ConfigFileName = "mono.yaml"

	// SrcDirName is the per-package source subdirectory.
	SrcDirName = "src"

	// DistDirName is the per-package artifact output subdirectory.
	DistDirName = "dist"

	// DefaultOutDirName is the default compiled (pre-bundle) output directory.
	DefaultOutDirName = ".build"

	// SourceExt is the single-file-extension source convention.
	SourceExt = ".ts"

	// CodeExt is the compiled module extension.
	CodeExt = ".js"

	// DeclExt is the declaration file extension.
	DeclExt = ".d.ts"

	// DefaultScope is the sibling-package import scope used when the
	// configuration does not override it.
	DefaultScope = "@mono"

	// DefaultHelper is the runtime-support helper module, always treated
	// as external by the bundler.
	DefaultHelper = "tslib"

	// DefaultServerPort is the dev server port.
	DefaultServerPort = 8090

	// DefaultDemoDirName is the demo directory served by the dev server.
	DefaultDemoDirName = "demo"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DistDir returns the artifact directory for a package.
// The paths below are a persisted contract: the dev server, the release
// process, and package consumers depend on this exact layout.
func DistDir(pkgDir string) string {
	return filepath.Join(pkgDir, DistDirName)
}

// CodeBundlePath returns <pkg>/dist/index.js.
func CodeBundlePath(pkgDir string) string {
	return filepath.Join(pkgDir, DistDirName, "index"+CodeExt)
}

// CodeBundleMapPath returns <pkg>/dist/index.js.map.
func CodeBundleMapPath(pkgDir string) string {
	return filepath.Join(pkgDir, DistDirName, "index"+CodeExt+".map")
}

// DeclBundlePath returns <pkg>/dist/index.d.ts.
func DeclBundlePath(pkgDir string) string {
	return filepath.Join(pkgDir, DistDirName, "index"+DeclExt)
}

// DeclCounterpart maps a compiled module path to its declaration file.
func DeclCounterpart(compiledPath string) string {
	return strings.TrimSuffix(compiledPath, CodeExt) + DeclExt
}

// StripPackagePrefix removes a theme-/lang- prefix from a package name,
// yielding the identifier used for entry file disambiguation.
func StripPackagePrefix(name string) string {
	for _, prefix := range []string{"theme-", "lang-"} {
		if rest, ok := strings.CutPrefix(name, prefix); ok {
			return rest
		}
	}
	return name
}
