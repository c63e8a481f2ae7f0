package bundler

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"go.trai.ch/mono/internal/core/domain"
)

var driveRe = regexp.MustCompile(`^[A-Za-z]:[\\/]`)

// External returns the externality predicate for a project whose
// runtime-support helper module has the given name. The helper stays
// external no matter how it is referenced, even through a relative path;
// everything else follows IsExternal.
func External(helper string) func(string) bool {
	return func(spec string) bool {
		if helper != "" {
			base := path.Base(filepath.ToSlash(spec))
			base = strings.TrimSuffix(strings.TrimSuffix(base, domain.CodeExt), domain.SourceExt)
			if spec == helper || base == helper {
				return true
			}
		}
		return IsExternal(spec)
	}
}

// IsExternal reports whether a specifier names a consumer-supplied
// dependency. Relative and absolute paths (including drive-style ones) are
// bundled; every bare specifier stays external, the runtime-support helper
// included.
func IsExternal(spec string) bool {
	if spec == "" {
		return false
	}
	if strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../") || spec == "." || spec == ".." {
		return false
	}
	if filepath.IsAbs(spec) || driveRe.MatchString(spec) {
		return false
	}
	return true
}
