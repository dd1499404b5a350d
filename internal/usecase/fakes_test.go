package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/user/dataset-explorer/internal/adapter/filesystem"
	"github.com/user/dataset-explorer/internal/entity"
)

// table builds a table from column names and per-row values.
func table(names []string, rows ...[]entity.Value) *entity.Table {
	b := entity.NewTableBuilder()
	for _, row := range rows {
		fields := make([]entity.Field, len(names))
		for i, n := range names {
			fields[i] = entity.Field{Key: n, Value: row[i]}
		}
		b.AddRecord(fields)
	}
	return b.Build()
}

type fakeRecords struct {
	table *entity.Table
	calls []string
}

func (f *fakeRecords) FetchRecords(_ context.Context, datasetID string) *entity.Table {
	f.calls = append(f.calls, datasetID)
	if f.table == nil {
		return entity.EmptyTable()
	}
	return f.table
}

type fakeMetadata struct {
	metadata entity.DatasetMetadata
}

func (f *fakeMetadata) FetchMetadata(context.Context, string) entity.DatasetMetadata {
	return f.metadata
}

type titleRenderer struct{}

func (titleRenderer) Render(w io.Writer, chart entity.Chart) error {
	_, err := fmt.Fprintf(w, "<html><title>%s</title></html>", chart.Title)
	return err
}

type fakeRuns struct {
	mu    sync.Mutex
	saved []*entity.PipelineRun
	err   error
}

func (f *fakeRuns) Save(_ context.Context, run *entity.PipelineRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, run)
	return nil
}

func (f *fakeRuns) FindByDataset(_ context.Context, datasetID string, limit int) ([]*entity.PipelineRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.PipelineRun
	for i := len(f.saved) - 1; i >= 0 && len(out) < limit; i-- {
		if f.saved[i].DatasetID == datasetID {
			out = append(out, f.saved[i])
		}
	}
	return out, nil
}

type fakeLock struct {
	err      error
	acquired []string
	released int
}

func (l *fakeLock) Acquire(_ context.Context, key string) (func(), error) {
	if l.err != nil {
		return nil, l.err
	}
	l.acquired = append(l.acquired, key)
	return func() { l.released++ }, nil
}

func mustTime(s string) entity.Value {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return entity.Time(t)
}

func writeFile(path string) error {
	return os.WriteFile(path, []byte("x"), 0o644)
}

// failingWorkspace fails the Save call with the given zero-based index.
type failingWorkspace struct {
	*filesystem.WorkspaceImpl
	failAt int
	saves  int
}

func (w *failingWorkspace) Save(ctx context.Context, name string, chart entity.Chart) error {
	defer func() { w.saves++ }()
	if w.saves == w.failAt {
		return errors.New("disk full")
	}
	return w.WorkspaceImpl.Save(ctx, name, chart)
}
