package adapter

import "fmt"

// CheckDispersion reports length mismatches between the parallel arrays of d.
// An empty BinEdges is allowed; otherwise it must have len(Bins)+1 entries.
func CheckDispersion(section string, d DispersionData) []Issue {
	var issues []Issue
	if len(d.Bins) != len(d.Counts) {
		issues = append(issues, Issue{
			Section: section,
			Detail:  fmt.Sprintf("bins has %d entries but counts has %d", len(d.Bins), len(d.Counts)),
		})
	}
	if len(d.BinEdges) > 0 && len(d.BinEdges) != len(d.Bins)+1 {
		issues = append(issues, Issue{
			Section: section,
			Detail:  fmt.Sprintf("binEdges has %d entries, expected %d", len(d.BinEdges), len(d.Bins)+1),
		})
	}
	return issues
}

// CheckFanChart reports every non-empty percentile series whose length differs from Years.
func CheckFanChart(section string, f FanChartData) []Issue {
	var issues []Issue
	for _, band := range fanBands(f) {
		if len(band.values) == 0 || len(band.values) == len(f.Years) {
			continue
		}
		issues = append(issues, Issue{
			Section: section,
			Detail:  fmt.Sprintf("%s has %d entries but years has %d", band.label, len(band.values), len(f.Years)),
		})
	}
	return issues
}

// RepairDispersion returns a copy of d truncated to the longest consistent prefix.
func RepairDispersion(d DispersionData) DispersionData {
	n := min(len(d.Bins), len(d.Counts))
	if len(d.BinEdges) > 0 {
		n = min(n, len(d.BinEdges)-1)
	}
	out := DispersionData{
		Metric:   d.Metric,
		Bins:     prefix(d.Bins, n),
		Counts:   prefix(d.Counts, n),
		BinEdges: []float64{},
	}
	if len(d.BinEdges) > 0 && n > 0 {
		out.BinEdges = prefix(d.BinEdges, n+1)
	}
	return out
}

// RepairFanChart returns a copy of f with Years and every non-empty series cut to
// the shortest of them. Missing series stay empty.
func RepairFanChart(f FanChartData) FanChartData {
	n := len(f.Years)
	for _, band := range fanBands(f) {
		if len(band.values) > 0 {
			n = min(n, len(band.values))
		}
	}
	cut := func(s []float64) []float64 {
		if len(s) == 0 {
			return []float64{}
		}
		return prefix(s, n)
	}
	return FanChartData{
		Years: cut(f.Years),
		P5:    cut(f.P5),
		P25:   cut(f.P25),
		P50:   cut(f.P50),
		P75:   cut(f.P75),
		P95:   cut(f.P95),
	}
}

func prefix(s []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, s)
	return out
}

type fanBand struct {
	label  string
	values []float64
}

func fanBands(f FanChartData) []fanBand {
	return []fanBand{
		{"p5", f.P5},
		{"p25", f.P25},
		{"p50", f.P50},
		{"p75", f.P75},
		{"p95", f.P95},
	}
}
