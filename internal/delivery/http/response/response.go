package response

import "github.com/user/dataset-explorer/internal/entity"

// NoDataMessage is returned with an empty search result.
const NoDataMessage = "No data found for the given dataset."

// ArtifactResponse is an entity.Artifact with the URL it is served from.
type ArtifactResponse struct {
	entity.Artifact
	URL string `json:"url"`
}

type SearchResponse struct {
	RunID             string                 `json:"run_id"`
	DatasetID         string                 `json:"dataset_id"`
	Message           string                 `json:"message,omitempty"`
	Artifacts         []ArtifactResponse     `json:"visualizations"`
	Metadata          entity.DatasetMetadata `json:"metadata"`
	SummaryStatistics entity.Summary         `json:"summary_statistics"`
}

type RunsResponse struct {
	DatasetID string                `json:"dataset_id"`
	Runs      []*entity.PipelineRun `json:"runs"`
}
