package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/dataset-explorer/internal/entity"
)

const createRunsTable = `
	CREATE TABLE IF NOT EXISTS pipeline_runs (
		id             UUID PRIMARY KEY,
		dataset_id     TEXT        NOT NULL,
		status         TEXT        NOT NULL,
		row_count      INTEGER     NOT NULL DEFAULT 0,
		artifact_count INTEGER     NOT NULL DEFAULT 0,
		started_at     TIMESTAMPTZ NOT NULL,
		duration_ms    BIGINT      NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS pipeline_runs_dataset_started_idx
		ON pipeline_runs (dataset_id, started_at DESC);
`

// RunRepoImpl stores pipeline run history in PostgreSQL.
type RunRepoImpl struct {
	db *pgxpool.Pool
}

func NewRunRepo(db *pgxpool.Pool) *RunRepoImpl {
	return &RunRepoImpl{db: db}
}

// Connect opens a pool and makes sure the pipeline_runs table exists.
func Connect(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	db, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to reach database: %w", err)
	}
	if _, err := db.Exec(ctx, createRunsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating pipeline_runs: %w", err)
	}
	return db, nil
}

func (r *RunRepoImpl) Save(ctx context.Context, run *entity.PipelineRun) error {
	query := `
		INSERT INTO pipeline_runs (id, dataset_id, status, row_count, artifact_count, started_at, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			row_count = EXCLUDED.row_count,
			artifact_count = EXCLUDED.artifact_count,
			duration_ms = EXCLUDED.duration_ms;
	`
	_, err := r.db.Exec(ctx, query,
		run.ID,
		run.DatasetID,
		run.Status,
		run.RowCount,
		run.ArtifactCount,
		run.StartedAt,
		run.DurationMS,
	)
	return err
}

func (r *RunRepoImpl) FindByDataset(ctx context.Context, datasetID string, limit int) ([]*entity.PipelineRun, error) {
	query := `
		SELECT id, dataset_id, status, row_count, artifact_count, started_at, duration_ms
		FROM pipeline_runs
		WHERE dataset_id = $1
		ORDER BY started_at DESC
		LIMIT $2;
	`
	rows, err := r.db.Query(ctx, query, datasetID, limit)
	if err != nil {
		return nil, err
	}

	runs, err := pgx.CollectRows(rows, scanRun)
	if err != nil {
		return nil, err
	}
	return runs, nil
}

// scanRun maps one pipeline_runs row, in the column order of FindByDataset.
func scanRun(row pgx.CollectableRow) (*entity.PipelineRun, error) {
	var run entity.PipelineRun
	err := row.Scan(
		&run.ID,
		&run.DatasetID,
		&run.Status,
		&run.RowCount,
		&run.ArtifactCount,
		&run.StartedAt,
		&run.DurationMS,
	)
	if err != nil {
		return nil, err
	}
	return &run, nil
}
