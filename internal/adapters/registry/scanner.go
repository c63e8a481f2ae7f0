// Package registry builds the immutable package registry by scanning
// package source directories.
package registry

import (
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/mono/internal/core/domain"
	"go.trai.ch/zerr"
)

// Scanner constructs a domain.Registry from the declared package list.
type Scanner struct{}

// NewScanner creates a new Scanner.
func NewScanner() *Scanner {
	return &Scanner{}
}

// Scan reads each declared package's source directory and resolves its main
// entry point. Resolution failure is a fatal configuration error: a
// half-registered graph would produce silently wrong bundles, so this must
// happen before any build step starts.
func (s *Scanner) Scan(root string, names []string) (*domain.Registry, error) {
	pkgs := make([]domain.Package, 0, len(names))

	for _, name := range names {
		dir := filepath.Join(root, name)
		if _, err := os.Stat(dir); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "missing package directory"), "package", name)
		}

		entry, err := resolveMainEntry(dir, name)
		if err != nil {
			return nil, err
		}

		pkgs = append(pkgs, domain.Package{
			Name:      name,
			Dir:       dir,
			MainEntry: entry,
		})
	}

	return domain.NewRegistry(pkgs), nil
}

// resolveMainEntry applies the disambiguation convention: a single candidate
// wins regardless of name; with several candidates the file must be named
// "index" or after the package identifier with any theme-/lang- prefix
// stripped. Packages without a source directory are data-only.
func resolveMainEntry(dir, name string) (string, error) {
	srcDir := filepath.Join(dir, domain.SrcDirName)
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		if os.IsNotExist(err) {
			// Data-only package, nothing to bundle.
			return "", nil
		}
		return "", zerr.With(zerr.Wrap(err, "failed to read source directory"), "package", name)
	}

	candidates := sourceCandidates(entries)
	switch len(candidates) {
	case 0:
		return "", nil
	case 1:
		return filepath.Join(srcDir, candidates[0]), nil
	}

	for _, want := range []string{
		"index" + domain.SourceExt,
		domain.StripPackagePrefix(name) + domain.SourceExt,
	} {
		for _, c := range candidates {
			if c == want {
				return filepath.Join(srcDir, c), nil
			}
		}
	}

	err = zerr.With(zerr.Wrap(domain.ErrAmbiguousEntry, "cannot determine main entry"), "package", name)
	return "", zerr.With(err, "candidates", strings.Join(candidates, ", "))
}

// sourceCandidates filters directory entries to recognized top-level source
// files: no hidden/dotted files, single-extension convention only.
func sourceCandidates(entries []os.DirEntry) []string {
	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if !strings.HasSuffix(name, domain.SourceExt) || strings.HasSuffix(name, domain.DeclExt) {
			continue
		}
		out = append(out, name)
	}
	return out
}
