package backoffice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversionFunnel(t *testing.T) {
	leads := []Lead{
		{ID: "1", Status: LeadNew},
		{ID: "2", Status: LeadContacted},
		{ID: "3", Status: LeadQualified},
		{ID: "4", Status: LeadConverted},
		{ID: "5", Status: LeadConverted},
		{ID: "6", Status: LeadLost},
	}

	report := ConversionFunnel(leads)

	assert.Equal(t, 6, report.Total)
	assert.Equal(t, 1, report.Lost)
	require.Len(t, report.Steps, 4)

	// Stage counts are inclusive of later stages; lost leads only count at
	// the top of the funnel.
	assert.Equal(t, 6, report.Steps[0].Count)
	assert.Equal(t, 4, report.Steps[1].Count)
	assert.Equal(t, 3, report.Steps[2].Count)
	assert.Equal(t, 2, report.Steps[3].Count)

	assert.InDelta(t, 2.0/6.0, report.ConversionRate, 0.001)
}

func TestConversionFunnelEmpty(t *testing.T) {
	report := ConversionFunnel(nil)
	assert.Equal(t, 0, report.Total)
	assert.Equal(t, 0.0, report.ConversionRate)
	require.Len(t, report.Steps, 4)
	for _, step := range report.Steps {
		assert.Equal(t, 0, step.Count)
	}
}

func TestSourceBreakdown(t *testing.T) {
	leads := []Lead{
		{ID: "1", Source: "web"},
		{ID: "2", Source: "web"},
		{ID: "3", Source: "partner"},
		{ID: "4", Source: ""},
	}

	slices := SourceBreakdown(leads)
	require.Len(t, slices, 3)
	assert.Equal(t, "web", slices[0].Source)
	assert.Equal(t, 2, slices[0].Count)
	assert.Equal(t, "partner", slices[1].Source)
	assert.Equal(t, "unknown", slices[2].Source)
}

func TestSourceBreakdownTiesSortByName(t *testing.T) {
	leads := []Lead{
		{ID: "1", Source: "yard-sign"},
		{ID: "2", Source: "google"},
	}
	slices := SourceBreakdown(leads)
	require.Len(t, slices, 2)
	assert.Equal(t, "google", slices[0].Source)
	assert.Equal(t, "yard-sign", slices[1].Source)
}

func TestRevenueByMonth(t *testing.T) {
	commissions := []Commission{
		{ID: "1", Amount: 100, Status: CommissionPaid, Period: "2026-07"},
		{ID: "2", Amount: 250, Status: CommissionPaid, Period: "2026-06"},
		{ID: "3", Amount: 75, Status: CommissionPaid, Period: "2026-07"},
		{ID: "4", Amount: 999, Status: CommissionPending, Period: "2026-07"},
	}

	points := RevenueByMonth(commissions)
	require.Len(t, points, 2)
	assert.Equal(t, "2026-06", points[0].Period)
	assert.Equal(t, 250.0, points[0].Amount)
	assert.Equal(t, "2026-07", points[1].Period)
	assert.Equal(t, 175.0, points[1].Amount)
}
