package backoffice

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLeads() []Lead {
	return []Lead{
		{ID: "l1", Source: "web", Status: LeadNew},
		{ID: "l2", Source: "web", Status: LeadContacted},
		{ID: "l3", Source: "partner", Status: LeadConverted},
	}
}

func sampleCommissions() []Commission {
	paid := time.Date(2026, 7, 20, 0, 0, 0, 0, time.UTC)
	return []Commission{
		{ID: "c1", Amount: 320, Status: CommissionPaid, Period: "2026-07", PaidAt: &paid},
	}
}

func TestReportBuilderBuild(t *testing.T) {
	builder, err := NewReportBuilder(nil, nil)
	require.NoError(t, err)

	report, err := builder.Build(sampleLeads(), sampleCommissions())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Funnel.Total)
	assert.Contains(t, report.FunnelHTML, "Conversion Funnel")
	assert.Contains(t, report.SourcesHTML, "Lead Sources")
	assert.Contains(t, report.RevenueHTML, "Commission Revenue")
}

func TestReportBuilderRender(t *testing.T) {
	builder, err := NewReportBuilder(nil, nil)
	require.NoError(t, err)

	report, err := builder.Build(sampleLeads(), sampleCommissions())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, builder.Render(report, &buf))

	page := buf.String()
	assert.Contains(t, page, "Conversion Report")
	assert.Contains(t, page, "$320.00")
	// Chart markup must land unescaped in the page.
	assert.Contains(t, page, "<script")
	assert.False(t, strings.Contains(page, "&lt;script"), "chart markup was escaped")
}

func TestChartCacheReusesRenderedMarkup(t *testing.T) {
	cache := NewChartCache(time.Minute)
	calls := 0
	render := func() (string, error) {
		calls++
		return "<div>chart</div>", nil
	}

	first, err := cache.GetOrRender("k", render)
	require.NoError(t, err)
	second, err := cache.GetOrRender("k", render)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestChartCacheExpires(t *testing.T) {
	cache := NewChartCache(time.Nanosecond)
	calls := 0
	render := func() (string, error) {
		calls++
		return "<div>chart</div>", nil
	}

	_, err := cache.GetOrRender("k", render)
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	_, err = cache.GetOrRender("k", render)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestChartRendererKeysCacheByData(t *testing.T) {
	renderer := NewChartRenderer(WithChartCache(NewChartCache(time.Minute)))

	before := ConversionFunnel([]Lead{
		{ID: "l1", Status: LeadContacted},
		{ID: "l2", Status: LeadNew},
		{ID: "l3", Status: LeadNew},
	})
	after := ConversionFunnel([]Lead{
		{ID: "l1", Status: LeadContacted},
		{ID: "l2", Status: LeadContacted},
		{ID: "l3", Status: LeadContacted},
	})
	// Same Total and Lost, different stage counts.
	require.Equal(t, before.Total, after.Total)
	require.Equal(t, before.Lost, after.Lost)

	first, err := renderer.FunnelChart(before)
	require.NoError(t, err)
	second, err := renderer.FunnelChart(after)
	require.NoError(t, err)
	assert.NotEqual(t, first, second, "stale funnel served after stage counts changed")

	sourcesA, err := renderer.SourceChart([]SourceSlice{{Source: "web", Count: 2}, {Source: "partner", Count: 1}})
	require.NoError(t, err)
	sourcesB, err := renderer.SourceChart([]SourceSlice{{Source: "web", Count: 1}, {Source: "partner", Count: 2}})
	require.NoError(t, err)
	assert.NotEqual(t, sourcesA, sourcesB, "stale source chart served for equal slice count")

	revenueA, err := renderer.RevenueChart([]RevenuePoint{{Period: "2026-07", Amount: 320}})
	require.NoError(t, err)
	revenueB, err := renderer.RevenueChart([]RevenuePoint{{Period: "2026-07", Amount: 480}})
	require.NoError(t, err)
	assert.NotEqual(t, revenueA, revenueB, "stale revenue chart served for equal point count")
}

func TestAuditFeedLimit(t *testing.T) {
	feed := DefaultAuditFeed()
	entries, err := feed.Recent(context.Background(), AuditQuery{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
