package repository

import (
	"context"

	"github.com/user/dataset-explorer/internal/entity"
)

// RunRepository keeps the history of pipeline runs.
type RunRepository interface {
	Save(ctx context.Context, run *entity.PipelineRun) error
	// FindByDataset returns the most recent runs for a dataset, newest first.
	FindByDataset(ctx context.Context, datasetID string, limit int) ([]*entity.PipelineRun, error)
}
