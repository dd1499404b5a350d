package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/user/dataset-explorer/internal/entity"
	"github.com/user/dataset-explorer/internal/repository"
	"github.com/user/dataset-explorer/pkg/metrics"
)

// VisualizationGenerator turns a classified table into persisted chart artifacts.
type VisualizationGenerator interface {
	// Generate writes one artifact per applicable rule into ws. Artifact indexes follow
	// the rule order: distributions, pairwise scatters, frequencies, trends.
	Generate(ctx context.Context, datasetID string, table *entity.Table, cls entity.Classification, ws repository.Workspace) ([]entity.Artifact, error)
}

type visualizationGenerator struct {
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewVisualizationGenerator(m *metrics.Metrics, logger *zap.Logger) VisualizationGenerator {
	return &visualizationGenerator{metrics: m, logger: logger}
}

func (g *visualizationGenerator) Generate(ctx context.Context, datasetID string, table *entity.Table, cls entity.Classification, ws repository.Workspace) ([]entity.Artifact, error) {
	artifacts := []entity.Artifact{}
	if table.Empty() {
		g.logger.Info("no data to visualize", zap.String("dataset", datasetID))
		return artifacts, nil
	}

	for i, chart := range BuildCharts(table, cls) {
		name := entity.ArtifactFileName(datasetID, i)
		if err := ws.Save(ctx, name, chart); err != nil {
			err = fmt.Errorf("saving %s: %w", name, err)
			// A failed run leaves no partial artifact set behind.
			if resetErr := ws.Reset(context.WithoutCancel(ctx)); resetErr != nil {
				err = errors.Join(err, fmt.Errorf("clearing partial artifacts: %w", resetErr))
			}
			return []entity.Artifact{}, err
		}
		g.metrics.IncArtifact(string(chart.Kind))
		artifacts = append(artifacts, entity.Artifact{
			Index:    i,
			Kind:     chart.Kind,
			Columns:  chart.Columns,
			Title:    chart.Title,
			FileName: name,
		})
	}

	g.logger.Info("visualizations generated",
		zap.String("dataset", datasetID),
		zap.Int("artifacts", len(artifacts)),
	)
	return artifacts, nil
}

// BuildCharts applies the chart rules in their fixed order.
func BuildCharts(table *entity.Table, cls entity.Classification) []entity.Chart {
	var out []entity.Chart

	for _, name := range cls.Numeric {
		out = append(out, distributionChart(table.Column(name)))
	}

	if len(cls.Numeric) > 1 {
		for i := 0; i < len(cls.Numeric); i++ {
			for j := i + 1; j < len(cls.Numeric); j++ {
				out = append(out, pairwiseChart(table.Column(cls.Numeric[i]), table.Column(cls.Numeric[j])))
			}
		}
	}

	for _, name := range cls.Categorical {
		if chart, ok := frequencyChart(table.Column(name)); ok {
			out = append(out, chart)
		}
	}

	for _, name := range cls.Temporal {
		out = append(out, trendChart(table.Column(name)))
	}

	return out
}

func distributionChart(col *entity.Column) entity.Chart {
	return entity.Chart{
		Kind:    entity.ChartDistribution,
		Columns: []string{col.Name},
		Title:   "Distribution of " + col.Name,
		XAxis:   col.Name,
		YAxis:   "Count",
		Points:  histogram(numbers(col)),
	}
}

func pairwiseChart(x, y *entity.Column) entity.Chart {
	var points []entity.Point
	for row := range x.Values {
		xv, yv := x.Values[row], y.Values[row]
		if xv.Kind == entity.KindNumber && yv.Kind == entity.KindNumber {
			points = append(points, entity.Point{X: xv.Num, Y: yv.Num})
		}
	}
	return entity.Chart{
		Kind:    entity.ChartPairwise,
		Columns: []string{x.Name, y.Name},
		Title:   fmt.Sprintf("Scatter plot of %s vs %s", x.Name, y.Name),
		XAxis:   x.Name,
		YAxis:   y.Name,
		Points:  points,
	}
}

func frequencyChart(col *entity.Column) (entity.Chart, bool) {
	counts := valueCounts(col)
	if len(counts) == 0 {
		return entity.Chart{}, false
	}
	points := make([]entity.Point, len(counts))
	for i, c := range counts {
		points[i] = entity.Point{Label: c.label, X: float64(i), Y: float64(c.count)}
	}
	return entity.Chart{
		Kind:    entity.ChartFrequency,
		Columns: []string{col.Name},
		Title:   "Count of " + col.Name,
		XAxis:   col.Name,
		YAxis:   "Count",
		Points:  points,
	}, true
}

// trendChart orders rows by the column ascending, nulls dropped, and plots each time
// against its position in that order.
func trendChart(col *entity.Column) entity.Chart {
	var times []entity.Value
	for _, v := range col.Values {
		if v.Kind == entity.KindTime {
			times = append(times, v)
		}
	}
	sort.SliceStable(times, func(a, b int) bool {
		return times[a].Time.Before(times[b].Time)
	})

	points := make([]entity.Point, len(times))
	for i, v := range times {
		points[i] = entity.Point{
			Label: v.Label(),
			X:     float64(v.Time.Unix()),
			Y:     float64(i),
		}
	}
	return entity.Chart{
		Kind:    entity.ChartTrend,
		Columns: []string{col.Name},
		Title:   "Trend of " + col.Name,
		XAxis:   col.Name,
		YAxis:   "Index",
		Points:  points,
	}
}

type valueCount struct {
	label string
	count int
}

// valueCounts counts non-null values, most frequent first; ties keep first appearance.
func valueCounts(col *entity.Column) []valueCount {
	index := make(map[string]int)
	var counts []valueCount
	for _, v := range col.Values {
		if v.IsNull() {
			continue
		}
		label := v.Label()
		if i, ok := index[label]; ok {
			counts[i].count++
			continue
		}
		index[label] = len(counts)
		counts = append(counts, valueCount{label: label, count: 1})
	}
	sort.SliceStable(counts, func(a, b int) bool {
		return counts[a].count > counts[b].count
	})
	return counts
}

func numbers(col *entity.Column) []float64 {
	var out []float64
	for _, v := range col.Values {
		if v.Kind == entity.KindNumber {
			out = append(out, v.Num)
		}
	}
	return out
}

// histogram bins values with Sturges' rule. The last bin is closed on the right.
func histogram(values []float64) []entity.Point {
	if len(values) == 0 {
		return nil
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	lo, hi := sorted[0], sorted[len(sorted)-1]

	bins := int(math.Ceil(math.Log2(float64(len(sorted))))) + 1
	if lo == hi {
		bins = 1
	}
	dividers := make([]float64, bins+1)
	floats.Span(dividers, lo, hi)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, sorted, nil)

	points := make([]entity.Point, bins)
	for i := range points {
		left, right := dividers[i], dividers[i+1]
		closing := ")"
		if i == bins-1 {
			right, closing = hi, "]"
		}
		points[i] = entity.Point{
			Label: "[" + formatBound(left) + ", " + formatBound(right) + closing,
			X:     (left + right) / 2,
			Y:     counts[i],
		}
	}
	return points
}

func formatBound(f float64) string {
	return strconv.FormatFloat(f, 'g', 6, 64)
}
