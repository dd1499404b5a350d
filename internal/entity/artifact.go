package entity

import "fmt"

// ChartKind identifies which generation rule produced an artifact.
type ChartKind string

const (
	ChartDistribution ChartKind = "distribution"
	ChartPairwise     ChartKind = "pairwise"
	ChartFrequency    ChartKind = "frequency"
	ChartTrend        ChartKind = "trend"
)

// Point is one plotted datum. Label is set for category axes, X for value axes.
type Point struct {
	Label string  `json:"label,omitempty"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Chart is a renderer-neutral description of a single visualization.
type Chart struct {
	Kind    ChartKind
	Columns []string
	Title   string
	XAxis   string
	YAxis   string
	Points  []Point
}

// Artifact describes a persisted visualization file.
type Artifact struct {
	Index    int       `json:"index"`
	Kind     ChartKind `json:"kind"`
	Columns  []string  `json:"columns"`
	Title    string    `json:"title"`
	FileName string    `json:"file_name"`
}

// ArtifactFileName is the deterministic name of the index-th artifact of a dataset run.
func ArtifactFileName(datasetID string, index int) string {
	return fmt.Sprintf("visualization_%s_%d.html", datasetID, index)
}
