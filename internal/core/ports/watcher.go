package ports

import (
	"context"
	"iter"
)

// WatchOp is the kind of filesystem change reported by a Watcher.
type WatchOp uint8

const (
	// OpCreate reports a new file or directory.
	OpCreate WatchOp = iota
	// OpWrite reports a modified file.
	OpWrite
	// OpRemove reports a removed file or directory.
	OpRemove
	// OpRename reports a renamed file or directory.
	OpRename
)

// WatchEvent is a single filesystem change under the watched root.
type WatchEvent struct {
	// Path is the absolute path that changed.
	Path string
	// Operation is the kind of change.
	Operation WatchOp
}

// Watcher reports filesystem changes under a workspace root.
type Watcher interface {
	// Start begins watching root and all of its subdirectories.
	Start(ctx context.Context, root string) error
	// Stop ends the watch and releases resources.
	Stop() error
	// Events yields changes until the watcher stops.
	Events() iter.Seq[WatchEvent]
}
