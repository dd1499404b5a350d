package usecase

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/user/dataset-explorer/internal/entity"
)

// Summarize describes every column of a classified table, in table order.
func Summarize(table *entity.Table, cls entity.Classification) entity.Summary {
	summary := entity.Summary{Columns: []entity.ColumnSummary{}}
	if table.Empty() {
		return summary
	}
	summary.Rows = table.Rows()

	for _, col := range table.Columns {
		kind := cls.KindOf(col.Name)
		var cs entity.ColumnSummary
		switch kind {
		case entity.ColumnNumeric:
			cs = numericSummary(col)
		case entity.ColumnTemporal:
			cs = temporalSummary(col)
		default:
			cs = categoricalSummary(col)
		}
		cs.Name = col.Name
		cs.Kind = kind.String()
		summary.Columns = append(summary.Columns, cs)
	}
	return summary
}

func numericSummary(col *entity.Column) entity.ColumnSummary {
	values := numbers(col)
	cs := entity.ColumnSummary{Count: len(values)}
	if len(values) == 0 {
		return cs
	}
	sort.Float64s(values)

	cs.Mean = ptr(stat.Mean(values, nil))
	if len(values) > 1 {
		if std := stat.StdDev(values, nil); !math.IsNaN(std) {
			cs.Std = ptr(std)
		}
	}
	cs.Min = ptr(values[0])
	cs.Max = ptr(values[len(values)-1])
	cs.Q25 = ptr(quantile(0.25, values))
	cs.Q50 = ptr(quantile(0.5, values))
	cs.Q75 = ptr(quantile(0.75, values))
	return cs
}

// quantile expects sorted, non-empty values.
func quantile(p float64, sorted []float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	return stat.Quantile(p, stat.LinInterp, sorted, nil)
}

func temporalSummary(col *entity.Column) entity.ColumnSummary {
	var first, last time.Time
	count := 0
	for _, v := range col.Values {
		if v.Kind != entity.KindTime {
			continue
		}
		if count == 0 || v.Time.Before(first) {
			first = v.Time
		}
		if count == 0 || v.Time.After(last) {
			last = v.Time
		}
		count++
	}
	cs := entity.ColumnSummary{Count: count}
	if count > 0 {
		cs.First = ptr(entity.Time(first).Label())
		cs.Last = ptr(entity.Time(last).Label())
	}
	return cs
}

func categoricalSummary(col *entity.Column) entity.ColumnSummary {
	counts := valueCounts(col)
	total := 0
	for _, c := range counts {
		total += c.count
	}
	cs := entity.ColumnSummary{Count: total, Unique: ptr(len(counts))}
	if len(counts) > 0 {
		cs.Top = ptr(counts[0].label)
		cs.Freq = ptr(counts[0].count)
	}
	return cs
}

func ptr[T any](v T) *T {
	return &v
}
