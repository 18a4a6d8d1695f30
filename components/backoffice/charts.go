package backoffice

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const defaultChartHeight = "360px"

var sharedChartCache = NewChartCache(5 * time.Minute)

// ChartRenderer turns analytics reports into embeddable ECharts markup.
type ChartRenderer struct {
	theme string
	cache RenderCache
}

// ChartRendererOption customizes renderer behavior.
type ChartRendererOption func(*ChartRenderer)

// WithChartTheme sets a static theme (defaults to Westeros).
func WithChartTheme(theme string) ChartRendererOption {
	return func(r *ChartRenderer) {
		r.theme = theme
	}
}

// WithChartCache injects a render cache.
func WithChartCache(cache RenderCache) ChartRendererOption {
	return func(r *ChartRenderer) {
		r.cache = cache
	}
}

// NewChartRenderer builds a renderer for the analytics report page.
func NewChartRenderer(options ...ChartRendererOption) *ChartRenderer {
	r := &ChartRenderer{
		theme: types.ThemeWesteros,
		cache: sharedChartCache,
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// FunnelChart renders the conversion funnel as a bar chart.
func (r *ChartRenderer) FunnelChart(report FunnelReport) (string, error) {
	key := fmt.Sprintf("funnel:%s:%s", r.theme, payloadHash(report))
	return r.cached(key, func() (string, error) {
		bar := charts.NewBar()
		bar.SetGlobalOptions(r.globalChartOptions(
			"Conversion Funnel",
			fmt.Sprintf("%s overall", FormatPercent(report.ConversionRate)),
		)...)
		labels := make([]string, len(report.Steps))
		data := make([]opts.BarData, len(report.Steps))
		for i, step := range report.Steps {
			labels[i] = string(step.Stage)
			data[i] = opts.BarData{Name: string(step.Stage), Value: step.Count}
		}
		bar.SetXAxis(labels)
		bar.AddSeries("leads", data)
		return renderChart(bar)
	})
}

// SourceChart renders the lead source breakdown as a pie chart.
func (r *ChartRenderer) SourceChart(slices []SourceSlice) (string, error) {
	key := fmt.Sprintf("sources:%s:%s", r.theme, payloadHash(slices))
	return r.cached(key, func() (string, error) {
		pie := charts.NewPie()
		pie.SetGlobalOptions(r.globalChartOptions("Lead Sources", "")...)
		data := make([]opts.PieData, len(slices))
		for i, slice := range slices {
			data[i] = opts.PieData{Name: slice.Source, Value: slice.Count}
		}
		pie.AddSeries("sources", data)
		return renderChart(pie)
	})
}

// RevenueChart renders paid commission volume as a line chart.
func (r *ChartRenderer) RevenueChart(points []RevenuePoint) (string, error) {
	key := fmt.Sprintf("revenue:%s:%s", r.theme, payloadHash(points))
	return r.cached(key, func() (string, error) {
		line := charts.NewLine()
		line.SetGlobalOptions(r.globalChartOptions("Commission Revenue", "paid commissions by month")...)
		labels := make([]string, len(points))
		data := make([]opts.LineData, len(points))
		for i, point := range points {
			labels[i] = point.Period
			data[i] = opts.LineData{Name: point.Period, Value: point.Amount}
		}
		line.SetXAxis(labels)
		line.AddSeries("revenue", data)
		line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
		return renderChart(line)
	})
}

func (r *ChartRenderer) cached(key string, render func() (string, error)) (string, error) {
	if r.cache == nil {
		return render()
	}
	return r.cache.GetOrRender(key, render)
}

func (r *ChartRenderer) globalChartOptions(title, subtitle string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme:  r.theme,
			Width:  "100%",
			Height: defaultChartHeight,
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
