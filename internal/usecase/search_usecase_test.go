package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user/dataset-explorer/internal/repository"
)

func TestSearch_NormalizesQueryAndHoldsLock(t *testing.T) {
	records := &fakeRecords{table: mixedTable()}
	lock := &fakeLock{}
	svc := NewSearchService(newTestPipeline(records, nil), newTestWorkspace(t), lock, "workspace", nil, zap.NewNop())

	result, err := svc.Search(context.Background(), "  Road Works ")
	require.NoError(t, err)

	assert.Equal(t, "road-works", result.DatasetID)
	assert.Equal(t, []string{"road-works"}, records.calls)
	assert.Equal(t, []string{"workspace"}, lock.acquired)
	assert.Equal(t, 1, lock.released)
}

func TestSearch_EmptyQuery(t *testing.T) {
	records := &fakeRecords{}
	svc := NewSearchService(newTestPipeline(records, nil), newTestWorkspace(t), &fakeLock{}, "workspace", nil, zap.NewNop())

	_, err := svc.Search(context.Background(), "   ")

	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.Empty(t, records.calls)
}

func TestSearch_LockHeld(t *testing.T) {
	records := &fakeRecords{}
	lock := &fakeLock{err: repository.ErrLockHeld}
	svc := NewSearchService(newTestPipeline(records, nil), newTestWorkspace(t), lock, "workspace", nil, zap.NewNop())

	_, err := svc.Search(context.Background(), "roads")

	assert.ErrorIs(t, err, repository.ErrLockHeld)
	assert.Empty(t, records.calls)
}

func TestHistory(t *testing.T) {
	runs := &fakeRuns{}
	ws := newTestWorkspace(t)
	svc := NewSearchService(newTestPipeline(&fakeRecords{table: mixedTable()}, runs), ws, &fakeLock{}, "workspace", runs, zap.NewNop())

	for i := 0; i < 3; i++ {
		_, err := svc.Search(context.Background(), "Roads")
		require.NoError(t, err)
	}

	got, err := svc.History(context.Background(), "roads", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, runs.saved[2].ID, got[0].ID)
}

func TestHistory_Disabled(t *testing.T) {
	svc := NewSearchService(newTestPipeline(&fakeRecords{}, nil), newTestWorkspace(t), &fakeLock{}, "workspace", nil, zap.NewNop())

	_, err := svc.History(context.Background(), "roads", 0)

	assert.ErrorIs(t, err, repository.ErrRunHistoryDisabled)
}

func TestSearch_RejectsPathLikeQueries(t *testing.T) {
	for _, q := range []string{"roads/2023", "../../other", `roads\2023`} {
		records := &fakeRecords{table: mixedTable()}
		lock := &fakeLock{}
		svc := NewSearchService(newTestPipeline(records, nil), newTestWorkspace(t), lock, "workspace", nil, zap.NewNop())

		result, err := svc.Search(context.Background(), q)

		assert.ErrorIs(t, err, ErrInvalidQuery, q)
		assert.Nil(t, result, q)
		assert.Empty(t, records.calls, q)
		assert.Empty(t, lock.acquired, q)
	}
}

func TestHistory_RejectsPathLikeQueries(t *testing.T) {
	runs := &fakeRuns{}
	svc := NewSearchService(newTestPipeline(&fakeRecords{}, runs), newTestWorkspace(t), &fakeLock{}, "workspace", runs, zap.NewNop())

	_, err := svc.History(context.Background(), "../runs", 0)

	assert.ErrorIs(t, err, ErrInvalidQuery)
}
