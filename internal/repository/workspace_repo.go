package repository

import (
	"context"
	"io"

	"github.com/user/dataset-explorer/internal/entity"
)

// Workspace is the storage location a pipeline run writes its artifacts into.
type Workspace interface {
	// Reset removes every artifact and leaves an empty, writable location.
	Reset(ctx context.Context) error
	// Save renders chart and persists it under name.
	Save(ctx context.Context, name string, chart entity.Chart) error
	// Path returns the filesystem path of name, for serving.
	Path(name string) string
}

// ChartRenderer serializes a chart as a self-contained document.
type ChartRenderer interface {
	Render(w io.Writer, chart entity.Chart) error
}

// WorkspaceLock serializes runs that share a workspace.
type WorkspaceLock interface {
	// Acquire blocks until the lock is held or ctx ends. The returned func releases it.
	Acquire(ctx context.Context, key string) (release func(), err error)
}
