package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	RunCompleted = "completed"
	RunEmpty     = "empty"
	RunFailed    = "failed"
)

// RunResult is what a pipeline run hands back to its caller.
type RunResult struct {
	RunID     uuid.UUID       `json:"run_id"`
	DatasetID string          `json:"dataset_id"`
	Artifacts []Artifact      `json:"artifacts"`
	Metadata  DatasetMetadata `json:"metadata"`
	Summary   Summary         `json:"summary_statistics"`
}

// NoData reports whether the run found nothing to show.
func (r *RunResult) NoData() bool {
	return r.Summary.Empty()
}

// PipelineRun mirrors the `pipeline_runs` PostgreSQL table schema.
type PipelineRun struct {
	ID            uuid.UUID `json:"id"`
	DatasetID     string    `json:"dataset_id"`
	Status        string    `json:"status"`
	RowCount      int       `json:"row_count"`
	ArtifactCount int       `json:"artifact_count"`
	StartedAt     time.Time `json:"started_at"`
	DurationMS    int64     `json:"duration_ms"`
}
