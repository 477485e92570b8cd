package render

import (
	"errors"
	"fmt"
	"html/template"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/shandysiswandi/soilviz/internal/soil/entity"
)

var ErrNoData = errors.New("nothing to render")

// Options tunes the HTML artifacts. Zero values fall back to go-echarts defaults.
type Options struct {
	AssetsHost string
	Width      string
	Height     string
}

func (o Options) initOpts(title string) opts.Initialization {
	cfg := opts.Initialization{
		PageTitle:  title,
		AssetsHost: o.AssetsHost,
		Width:      o.Width,
		Height:     o.Height,
	}
	if cfg.Width == "" {
		cfg.Width = "100%"
	}
	if cfg.Height == "" {
		cfg.Height = "420px"
	}
	return cfg
}

// Pie writes the category frequency pie chart.
func Pie(w io.Writer, set entity.ChartSet, o Options) error {
	if len(set.Frequency) == 0 {
		return fmt.Errorf("%w: empty frequency distribution", ErrNoData)
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(o.initOpts(set.CategoryColumn)),
		charts.WithTitleOpts(opts.Title{Title: set.CategoryColumn}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Orient: "vertical", Left: "left", Top: "40"}),
	)

	data := make([]opts.PieData, len(set.Frequency))
	for i, c := range set.Frequency {
		data[i] = opts.PieData{Name: c.Value, Value: c.Count}
	}

	pie.AddSeries(set.CategoryColumn, data).
		SetSeriesOptions(
			charts.WithPieChartOpts(opts.PieChart{Radius: "60%"}),
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {d}%"}),
		)

	return pie.Render(w)
}

// BoxPlot writes one box per category with outliers overlaid as points.
func BoxPlot(w io.Writer, set entity.ChartSet, o Options) error {
	if len(set.Boxes) == 0 {
		return fmt.Errorf("%w: no box groups", ErrNoData)
	}

	box := charts.NewBoxPlot()
	box.SetGlobalOptions(
		charts.WithInitializationOpts(o.initOpts(set.NumericColumn)),
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("%s by %s", set.NumericColumn, set.CategoryColumn)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: set.CategoryColumn, Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{Name: set.NumericColumn, Type: "value"}),
	)

	labels := make([]string, len(set.Boxes))
	data := make([]opts.BoxPlotData, len(set.Boxes))
	var outliers []opts.ScatterData
	for i, g := range set.Boxes {
		labels[i] = g.Category
		data[i] = opts.BoxPlotData{
			Name:  g.Category,
			Value: []float64{g.Min, g.Q1, g.Median, g.Q3, g.Max},
		}
		for _, v := range g.Outliers {
			outliers = append(outliers, opts.ScatterData{Value: []any{g.Category, v}})
		}
	}

	box.SetXAxis(labels).AddSeries(set.NumericColumn, data)

	if len(outliers) > 0 {
		scatter := charts.NewScatter()
		scatter.SetXAxis(labels).AddSeries("outliers", outliers)
		box.Overlap(scatter)
	}

	return box.Render(w)
}

// HeatMap writes the heat map matrix with a continuous color scale.
func HeatMap(w io.Writer, set entity.ChartSet, o Options) error {
	if len(set.HeatMap) == 0 {
		return fmt.Errorf("%w: empty heat map", ErrNoData)
	}

	labels := make([]string, len(set.HeatMap))
	for i := range set.HeatMap {
		labels[i] = fmt.Sprintf("%d", i)
	}

	var data []opts.HeatMapData
	lo, hi := set.HeatMap[0][0], set.HeatMap[0][0]
	for y, row := range set.HeatMap {
		for x, v := range row {
			lo, hi = min(lo, v), max(hi, v)
			data = append(data, opts.HeatMapData{Value: [3]any{x, y, v}})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(o.initOpts("heat map")),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", SplitArea: &opts.SplitArea{Show: opts.Bool(true)}}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: labels, SplitArea: &opts.SplitArea{Show: opts.Bool(true)}}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        float32(lo),
			Max:        float32(hi),
			InRange: &opts.VisualMapInRange{
				Color: heatScale,
			},
		}),
	)
	hm.SetXAxis(labels).AddSeries("value", data, charts.WithLabelOpts(opts.Label{Show: opts.Bool(true)}))

	return hm.Render(w)
}

var accuracyTmpl = template.Must(template.New("accuracy").Parse(
	`<div class="accuracy"><div class="accuracy-value">{{.Value}}</div><div class="accuracy-label">{{.Label}}</div></div>`,
))

// Accuracy writes the static text panel as an HTML fragment.
func Accuracy(w io.Writer, set entity.ChartSet) error {
	return accuracyTmpl.Execute(w, set.Accuracy)
}
