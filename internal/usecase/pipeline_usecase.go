package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	"github.com/user/dataset-explorer/internal/entity"
	"github.com/user/dataset-explorer/internal/repository"
	"github.com/user/dataset-explorer/pkg/metrics"
)

// Pipeline runs fetch → classify → visualize for one dataset.
type Pipeline interface {
	// RunPipeline clears ws, then fills it with the dataset's artifacts. Remote failures
	// degrade to empty results; only workspace failures are returned as errors.
	RunPipeline(ctx context.Context, datasetID string, ws repository.Workspace) (*entity.RunResult, error)
}

type pipelineUseCase struct {
	records    repository.RecordsRepository
	metadata   repository.MetadataRepository
	classifier ColumnClassifier
	visualizer VisualizationGenerator
	runs       repository.RunRepository
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewPipeline creates the pipeline use case. runs may be nil to disable run history.
func NewPipeline(
	records repository.RecordsRepository,
	metadata repository.MetadataRepository,
	classifier ColumnClassifier,
	visualizer VisualizationGenerator,
	runs repository.RunRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
) Pipeline {
	return &pipelineUseCase{
		records:    records,
		metadata:   metadata,
		classifier: classifier,
		visualizer: visualizer,
		runs:       runs,
		metrics:    m,
		logger:     logger,
	}
}

func (uc *pipelineUseCase) RunPipeline(ctx context.Context, datasetID string, ws repository.Workspace) (*entity.RunResult, error) {
	started := time.Now()
	result := &entity.RunResult{
		RunID:     uuid.New(),
		DatasetID: datasetID,
		Artifacts: []entity.Artifact{},
		Summary:   entity.Summary{Columns: []entity.ColumnSummary{}},
	}
	log := uc.logger.With(zap.String("dataset", datasetID), zap.String("run_id", result.RunID.String()))

	if err := ws.Reset(ctx); err != nil {
		uc.metrics.IncPipelineRun(entity.RunFailed)
		return nil, fmt.Errorf("resetting workspace: %w", err)
	}

	// The two collaborators share nothing until the result is assembled.
	var table *entity.Table
	var wg conc.WaitGroup
	wg.Go(func() { table = uc.records.FetchRecords(ctx, datasetID) })
	wg.Go(func() { result.Metadata = uc.metadata.FetchMetadata(ctx, datasetID) })
	wg.Wait()

	status := entity.RunEmpty
	if table.Empty() {
		log.Info("no data found for dataset")
	} else {
		classified, cls := uc.classifier.Classify(table)
		log.Debug("columns classified",
			zap.Strings("numeric", cls.Numeric),
			zap.Strings("categorical", cls.Categorical),
			zap.Strings("temporal", cls.Temporal),
		)

		artifacts, err := uc.visualizer.Generate(ctx, datasetID, classified, cls, ws)
		if err != nil {
			uc.metrics.IncPipelineRun(entity.RunFailed)
			return nil, fmt.Errorf("generating visualizations: %w", err)
		}
		result.Artifacts = artifacts
		result.Summary = Summarize(classified, cls)
		status = entity.RunCompleted
	}

	uc.metrics.IncPipelineRun(status)
	uc.recordRun(ctx, log, &entity.PipelineRun{
		ID:            result.RunID,
		DatasetID:     datasetID,
		Status:        status,
		RowCount:      result.Summary.Rows,
		ArtifactCount: len(result.Artifacts),
		StartedAt:     started.UTC(),
		DurationMS:    time.Since(started).Milliseconds(),
	})

	log.Info("pipeline run finished",
		zap.String("status", status),
		zap.Int("rows", result.Summary.Rows),
		zap.Int("artifacts", len(result.Artifacts)),
		zap.Duration("elapsed", time.Since(started)),
	)
	return result, nil
}

func (uc *pipelineUseCase) recordRun(ctx context.Context, log *zap.Logger, run *entity.PipelineRun) {
	if uc.runs == nil {
		return
	}
	if err := uc.runs.Save(ctx, run); err != nil {
		// History is informational; the run itself succeeded.
		log.Warn("failed to record pipeline run", zap.Error(err))
	}
}
