package repository

import (
	"context"

	"github.com/user/dataset-explorer/internal/entity"
)

// RecordsRepository retrieves a dataset's records as a table.
type RecordsRepository interface {
	// FetchRecords never fails: any problem yields the empty table.
	FetchRecords(ctx context.Context, datasetID string) *entity.Table
}
