package watcher

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unique"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/mono/internal/core/domain"
	"go.trai.ch/mono/internal/core/ports"
)

// ChangeFilter drops watch events whose file content did not actually
// change. Editors commonly rewrite files byte-identically on save; those
// events must not trigger rebuild cycles.
type ChangeFilter struct {
	mu     sync.Mutex
	hashes map[unique.Handle[string]]uint64
}

// NewChangeFilter creates an empty content filter.
func NewChangeFilter() *ChangeFilter {
	return &ChangeFilter{
		hashes: make(map[unique.Handle[string]]uint64),
	}
}

// Changed reports whether the event represents real new content. Removals
// and renames always count; writes and creates are hashed and compared
// against the last observed state.
func (f *ChangeFilter) Changed(event ports.WatchEvent) bool {
	handle := unique.Make(event.Path)

	f.mu.Lock()
	defer f.mu.Unlock()

	if event.Operation == ports.OpRemove || event.Operation == ports.OpRename {
		delete(f.hashes, handle)
		return true
	}

	data, err := os.ReadFile(event.Path) //nolint:gosec // Paths come from the watched tree
	if err != nil {
		// The file vanished between the event and the read.
		delete(f.hashes, handle)
		return true
	}

	sum := xxhash.Sum64(data)
	if prev, ok := f.hashes[handle]; ok && prev == sum {
		return false
	}
	f.hashes[handle] = sum
	return true
}

// Relevant reports whether a path participates in builds: package sources
// and the project configuration file. Build outputs never qualify, so the
// pipeline's own writes cannot feed back into it.
func Relevant(path string) bool {
	base := filepath.Base(path)
	if base == domain.ConfigFileName {
		return true
	}
	if !strings.HasSuffix(base, domain.SourceExt) || strings.HasSuffix(base, domain.DeclExt) {
		return false
	}
	for _, dir := range strings.Split(filepath.ToSlash(path), "/") {
		if dir == domain.DistDirName || dir == domain.DefaultOutDirName {
			return false
		}
	}
	return true
}
