package backoffice

import (
	"sort"
)

// Conversion analytics are computed client-side from already-fetched
// collections; nothing here issues a request.

// FunnelStep is one pipeline stage in the conversion funnel.
type FunnelStep struct {
	Stage    LeadStatus `json:"stage"`
	Count    int        `json:"count"`
	DropOff  float64    `json:"drop_off"`
	Position int        `json:"position"`
}

// FunnelReport summarizes lead progression through the pipeline.
type FunnelReport struct {
	Total          int          `json:"total"`
	Lost           int          `json:"lost"`
	ConversionRate float64      `json:"conversion_rate"`
	Steps          []FunnelStep `json:"steps"`
}

// ConversionFunnel buckets leads by stage, treating each stage as inclusive
// of later ones: a converted lead has passed through every earlier stage.
func ConversionFunnel(leads []Lead) FunnelReport {
	stages := LeadStages()
	rank := make(map[LeadStatus]int, len(stages))
	for i, stage := range stages {
		rank[stage] = i
	}

	report := FunnelReport{Steps: make([]FunnelStep, len(stages))}
	counts := make([]int, len(stages))
	converted := 0
	for _, lead := range leads {
		if lead.Status == LeadLost {
			report.Lost++
			report.Total++
			// A lost lead still entered the pipeline.
			counts[0]++
			continue
		}
		reached, ok := rank[lead.Status]
		if !ok {
			continue
		}
		report.Total++
		for i := 0; i <= reached; i++ {
			counts[i]++
		}
		if lead.Status == LeadConverted {
			converted++
		}
	}

	for i, stage := range stages {
		step := FunnelStep{Stage: stage, Count: counts[i], Position: i}
		if i > 0 && counts[i-1] > 0 {
			step.DropOff = 1 - float64(counts[i])/float64(counts[i-1])
		}
		report.Steps[i] = step
	}
	if counts[0] > 0 {
		report.ConversionRate = float64(converted) / float64(counts[0])
	}
	return report
}

// SourceSlice is one lead source's share of the pipeline.
type SourceSlice struct {
	Source string  `json:"source"`
	Count  int     `json:"count"`
	Share  float64 `json:"share"`
}

// SourceBreakdown groups leads by acquisition source, largest first.
func SourceBreakdown(leads []Lead) []SourceSlice {
	counts := map[string]int{}
	for _, lead := range leads {
		source := lead.Source
		if source == "" {
			source = "unknown"
		}
		counts[source]++
	}
	slices := make([]SourceSlice, 0, len(counts))
	for source, count := range counts {
		slice := SourceSlice{Source: source, Count: count}
		if len(leads) > 0 {
			slice.Share = float64(count) / float64(len(leads))
		}
		slices = append(slices, slice)
	}
	sort.Slice(slices, func(i, j int) bool {
		if slices[i].Count != slices[j].Count {
			return slices[i].Count > slices[j].Count
		}
		return slices[i].Source < slices[j].Source
	})
	return slices
}

// RevenuePoint is one month's paid commission volume.
type RevenuePoint struct {
	Period string  `json:"period"`
	Amount float64 `json:"amount"`
}

// RevenueByMonth sums paid commissions per period, oldest first. Pending and
// calculated commissions are excluded; they are not revenue yet.
func RevenueByMonth(commissions []Commission) []RevenuePoint {
	totals := map[string]float64{}
	for _, commission := range commissions {
		if commission.Status != CommissionPaid {
			continue
		}
		totals[commission.Period] += commission.Amount
	}
	points := make([]RevenuePoint, 0, len(totals))
	for period, amount := range totals {
		points = append(points, RevenuePoint{Period: period, Amount: amount})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Period < points[j].Period })
	return points
}
