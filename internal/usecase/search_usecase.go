package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/user/dataset-explorer/internal/entity"
	"github.com/user/dataset-explorer/internal/repository"
	"github.com/user/dataset-explorer/pkg/utils"
)

var (
	ErrEmptyQuery   = errors.New("query must not be empty")
	ErrInvalidQuery = errors.New("query is not a valid dataset name")
)

const defaultHistoryLimit = 20

// SearchService is the entry point used by the delivery layer: it normalizes the
// caller's query and serializes runs that share the workspace.
type SearchService interface {
	Search(ctx context.Context, query string) (*entity.RunResult, error)
	History(ctx context.Context, query string, limit int) ([]*entity.PipelineRun, error)
}

type searchUseCase struct {
	pipeline  Pipeline
	workspace repository.Workspace
	lock      repository.WorkspaceLock
	lockKey   string
	runs      repository.RunRepository
	logger    *zap.Logger
}

// NewSearchService creates the search use case. runs may be nil.
func NewSearchService(
	pipeline Pipeline,
	workspace repository.Workspace,
	lock repository.WorkspaceLock,
	lockKey string,
	runs repository.RunRepository,
	logger *zap.Logger,
) SearchService {
	return &searchUseCase{
		pipeline:  pipeline,
		workspace: workspace,
		lock:      lock,
		lockKey:   lockKey,
		runs:      runs,
		logger:    logger,
	}
}

func (uc *searchUseCase) Search(ctx context.Context, query string) (*entity.RunResult, error) {
	datasetID, err := normalizeQuery(query)
	if err != nil {
		return nil, err
	}

	release, err := uc.lock.Acquire(ctx, uc.lockKey)
	if err != nil {
		return nil, fmt.Errorf("acquiring workspace lock: %w", err)
	}
	defer release()

	return uc.pipeline.RunPipeline(ctx, datasetID, uc.workspace)
}

func (uc *searchUseCase) History(ctx context.Context, query string, limit int) ([]*entity.PipelineRun, error) {
	if uc.runs == nil {
		return nil, repository.ErrRunHistoryDisabled
	}
	datasetID, err := normalizeQuery(query)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	runs, err := uc.runs.FindByDataset(ctx, datasetID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load runs for %s: %w", datasetID, err)
	}
	return runs, nil
}

// normalizeQuery turns a caller's query into a dataset id usable in catalog URLs and file names.
func normalizeQuery(query string) (string, error) {
	datasetID := utils.NormalizeDatasetID(query)
	if datasetID == "" {
		return "", ErrEmptyQuery
	}
	if err := utils.ValidateDatasetID(datasetID); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}
	return datasetID, nil
}
