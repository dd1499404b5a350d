package repository

import (
	"context"

	"github.com/user/dataset-explorer/internal/entity"
)

// MetadataRepository extracts descriptive metadata for a dataset.
type MetadataRepository interface {
	// FetchMetadata never fails: each field degrades to entity.NotAvailable on its own.
	FetchMetadata(ctx context.Context, datasetID string) entity.DatasetMetadata
}

// PageFetcher retrieves the HTML of a page.
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) ([]byte, error)
}
