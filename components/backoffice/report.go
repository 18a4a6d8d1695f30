package backoffice

import (
	"embed"
	"fmt"
	"io"
	"time"

	template "github.com/goliatone/go-template"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

// Renderer describes the template renderer contract needed by the report.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}

// NewTemplateRenderer creates a renderer backed by the embedded templates.
func NewTemplateRenderer() (Renderer, error) {
	return template.NewRenderer(
		template.WithFS(embeddedTemplates),
		template.WithBaseDir("templates"),
		template.WithExtension(".html"),
	)
}

// Report is the assembled conversion analytics page.
type Report struct {
	GeneratedAt time.Time
	Funnel      FunnelReport
	Sources     []SourceSlice
	Revenue     []RevenuePoint

	FunnelHTML  string
	SourcesHTML string
	RevenueHTML string
}

// ReportBuilder computes analytics from fetched collections and renders the
// report page.
type ReportBuilder struct {
	templates Renderer
	charts    *ChartRenderer
}

// NewReportBuilder wires the chart renderer and template renderer together.
// Either collaborator may be nil, in which case defaults are built.
func NewReportBuilder(templates Renderer, chartRenderer *ChartRenderer) (*ReportBuilder, error) {
	if templates == nil {
		var err error
		templates, err = NewTemplateRenderer()
		if err != nil {
			return nil, fmt.Errorf("backoffice: build template renderer: %w", err)
		}
	}
	if chartRenderer == nil {
		chartRenderer = NewChartRenderer()
	}
	return &ReportBuilder{templates: templates, charts: chartRenderer}, nil
}

// Build computes the analytics sections and renders each chart.
func (b *ReportBuilder) Build(leads []Lead, commissions []Commission) (Report, error) {
	report := Report{
		GeneratedAt: time.Now().UTC(),
		Funnel:      ConversionFunnel(leads),
		Sources:     SourceBreakdown(leads),
		Revenue:     RevenueByMonth(commissions),
	}
	var err error
	if report.FunnelHTML, err = b.charts.FunnelChart(report.Funnel); err != nil {
		return Report{}, fmt.Errorf("backoffice: render funnel chart: %w", err)
	}
	if report.SourcesHTML, err = b.charts.SourceChart(report.Sources); err != nil {
		return Report{}, fmt.Errorf("backoffice: render source chart: %w", err)
	}
	if report.RevenueHTML, err = b.charts.RevenueChart(report.Revenue); err != nil {
		return Report{}, fmt.Errorf("backoffice: render revenue chart: %w", err)
	}
	return report, nil
}

// Render writes the full report page to out.
func (b *ReportBuilder) Render(report Report, out io.Writer) error {
	revenueTotal := 0.0
	for _, point := range report.Revenue {
		revenueTotal += point.Amount
	}
	data := map[string]any{
		"generated_at":    report.GeneratedAt.Format(time.RFC1123),
		"total_leads":     report.Funnel.Total,
		"lost_leads":      report.Funnel.Lost,
		"conversion_rate": FormatPercent(report.Funnel.ConversionRate),
		"revenue_total":   FormatCurrency(revenueTotal),
		"funnel_chart":    report.FunnelHTML,
		"sources_chart":   report.SourcesHTML,
		"revenue_chart":   report.RevenueHTML,
	}
	if _, err := b.templates.Render("report", data, out); err != nil {
		return fmt.Errorf("backoffice: render report page: %w", err)
	}
	return nil
}
