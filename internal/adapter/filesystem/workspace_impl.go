package filesystem

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/user/dataset-explorer/internal/entity"
	"github.com/user/dataset-explorer/internal/repository"
)

// WorkspaceImpl stores artifacts as files in a single directory.
type WorkspaceImpl struct {
	dir      string
	renderer repository.ChartRenderer
}

// NewWorkspace creates a workspace rooted at dir. The directory is created on Reset.
func NewWorkspace(dir string, renderer repository.ChartRenderer) *WorkspaceImpl {
	return &WorkspaceImpl{dir: dir, renderer: renderer}
}

func (w *WorkspaceImpl) Dir() string {
	return w.dir
}

// Reset deletes the directory with everything in it and recreates it empty.
func (w *WorkspaceImpl) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.RemoveAll(w.dir); err != nil {
		return fmt.Errorf("clearing workspace %s: %w", w.dir, err)
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("creating workspace %s: %w", w.dir, err)
	}
	return nil
}

// Save renders chart into name. The file appears atomically under its final name.
func (w *WorkspaceImpl) Save(ctx context.Context, name string, chart entity.Chart) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("invalid artifact name %q", name)
	}

	tmp, err := os.CreateTemp(w.dir, ".artifact-*")
	if err != nil {
		return fmt.Errorf("creating artifact %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	buf := bufio.NewWriter(tmp)
	if err := w.renderer.Render(buf, chart); err != nil {
		tmp.Close()
		return fmt.Errorf("rendering artifact %s: %w", name, err)
	}
	if err := buf.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("writing artifact %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing artifact %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(w.dir, name)); err != nil {
		return fmt.Errorf("publishing artifact %s: %w", name, err)
	}
	return nil
}

// Path returns where name lives inside the workspace. Directory parts of name are dropped.
func (w *WorkspaceImpl) Path(name string) string {
	return filepath.Join(w.dir, filepath.Base(name))
}

// List returns the artifact file names currently in the workspace, sorted.
func (w *WorkspaceImpl) List() ([]string, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && e.Name()[0] != '.' {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
