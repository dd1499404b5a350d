package echarts

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/user/dataset-explorer/internal/entity"
)

type renderable interface {
	Render(w io.Writer) error
}

// Renderer writes charts as standalone ECharts HTML pages.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Render(w io.Writer, chart entity.Chart) error {
	var page renderable
	switch chart.Kind {
	case entity.ChartDistribution, entity.ChartFrequency:
		page = barChart(chart)
	case entity.ChartPairwise:
		page = scatterChart(chart)
	case entity.ChartTrend:
		page = lineChart(chart)
	default:
		return fmt.Errorf("unsupported chart kind %q", chart.Kind)
	}
	return page.Render(w)
}

func globalOpts(chart entity.Chart, xAxisType string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{PageTitle: chart.Title}),
		charts.WithTitleOpts(opts.Title{Title: chart.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
		charts.WithXAxisOpts(opts.XAxis{Name: chart.XAxis, Type: xAxisType}),
		charts.WithYAxisOpts(opts.YAxis{Name: chart.YAxis, Type: "value"}),
	}
}

func barChart(chart entity.Chart) *charts.Bar {
	labels := make([]string, len(chart.Points))
	data := make([]opts.BarData, len(chart.Points))
	for i, p := range chart.Points {
		labels[i] = p.Label
		data[i] = opts.BarData{Value: p.Y}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOpts(chart, "category")...)
	bar.SetXAxis(labels).AddSeries(chart.YAxis, data)
	return bar
}

func scatterChart(chart entity.Chart) *charts.Scatter {
	data := make([]opts.ScatterData, len(chart.Points))
	for i, p := range chart.Points {
		data[i] = opts.ScatterData{Value: []float64{p.X, p.Y}}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(globalOpts(chart, "value")...)
	scatter.AddSeries(chart.YAxis, data)
	return scatter
}

func lineChart(chart entity.Chart) *charts.Line {
	labels := make([]string, len(chart.Points))
	data := make([]opts.LineData, len(chart.Points))
	for i, p := range chart.Points {
		labels[i] = p.Label
		data[i] = opts.LineData{Value: p.Y}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(globalOpts(chart, "category")...)
	line.SetXAxis(labels).AddSeries(chart.YAxis, data)
	return line
}
