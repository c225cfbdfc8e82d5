package visuals

import (
	"fmt"
	"math"
	"strings"

	"fundview/internal/adapter"
	"fundview/internal/viewmodel"
)

// maxPoints is roughly where xychart-beta labels start to overlap.
const maxPoints = 60

// GenerateFanChart draws the percentile bands of a year-indexed series as lines.
// Bands whose length differs from the years axis are left out.
func GenerateFanChart(title, yLabel string, f adapter.FanChartData) string {
	if f.IsEmpty() {
		return ""
	}

	step := stride(len(f.Years))
	var labels []string
	for i, y := range f.Years {
		if keep(i, len(f.Years), step) {
			labels = append(labels, quote(formatNumber(y)))
		}
	}

	var lines [][]float64
	var all []float64
	for _, label := range []string{"p5", "p25", "p50", "p75", "p95"} {
		band, _ := f.Band(label)
		if len(band) != len(f.Years) {
			continue
		}
		var sampled []float64
		for i, v := range band {
			if keep(i, len(band), step) {
				sampled = append(sampled, v)
			}
		}
		lines = append(lines, sampled)
		all = append(all, sampled...)
	}
	if len(lines) == 0 {
		return ""
	}

	lo, hi := yRange(all)
	var sb strings.Builder
	writeHeader(&sb, title, labels, yLabel, lo, hi)
	for _, l := range lines {
		sb.WriteString(fmt.Sprintf("    line [%s]\n", joinNumbers(l)))
	}
	sb.WriteString("```")
	return sb.String()
}

// GenerateDistributionChart draws a histogram as bars labelled by bin value.
func GenerateDistributionChart(d adapter.DispersionData) string {
	n := min(len(d.Bins), len(d.Counts))
	if n == 0 {
		return ""
	}

	labels := make([]string, 0, n)
	for _, b := range d.Bins[:n] {
		labels = append(labels, quote(formatNumber(b)))
	}

	_, hi := yRange(d.Counts[:n])
	var sb strings.Builder
	writeHeader(&sb, d.Metric+" Distribution", labels, "Simulations", 0, hi)
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", joinNumbers(d.Counts[:n])))
	sb.WriteString("```")
	return sb.String()
}

// GenerateSummaryChart draws a percentile summary as five bars.
func GenerateSummaryChart(title string, s adapter.PercentileSummary) string {
	values := []float64{s.P5, s.P25, s.P50, s.P75, s.P95}
	if s == (adapter.PercentileSummary{}) {
		return ""
	}
	labels := []string{`"P5"`, `"P25"`, `"P50"`, `"P75"`, `"P95"`}

	lo, hi := yRange(values)
	var sb strings.Builder
	writeHeader(&sb, title, labels, "Value", lo, hi)
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", joinNumbers(values)))
	sb.WriteString("```")
	return sb.String()
}

// GenerateCashFlowChart draws annual capital calls and distributions as bars and
// the net flow as a line.
func GenerateCashFlowChart(rows []viewmodel.CashFlow) string {
	if len(rows) == 0 {
		return ""
	}

	labels := make([]string, 0, len(rows))
	calls := make([]float64, 0, len(rows))
	dists := make([]float64, 0, len(rows))
	net := make([]float64, 0, len(rows))
	for _, r := range rows {
		labels = append(labels, quote(fmt.Sprintf("Y%d", r.Year)))
		calls = append(calls, r.CapitalCalls)
		dists = append(dists, r.Distributions)
		net = append(net, r.Net)
	}

	all := append(append(append([]float64{}, calls...), dists...), net...)
	lo, hi := yRange(all)

	var sb strings.Builder
	writeHeader(&sb, "LP Cash Flows", labels, "Amount", lo, hi)
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", joinNumbers(calls)))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", joinNumbers(dists)))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", joinNumbers(net)))
	sb.WriteString("```")
	return sb.String()
}

// GenerateAllocationPie draws the portfolio allocation. Non-positive slices are skipped.
func GenerateAllocationPie(slices []viewmodel.AllocationSlice) string {
	var sb strings.Builder
	count := 0
	for _, s := range slices {
		if s.Value <= 0 {
			continue
		}
		if count == 0 {
			sb.WriteString("```mermaid\n")
			sb.WriteString("pie title Portfolio Allocation\n")
		}
		sb.WriteString(fmt.Sprintf("    %s : %s\n", quote(s.Label), formatNumber(s.Value)))
		count++
	}
	if count == 0 {
		return ""
	}
	sb.WriteString("```")
	return sb.String()
}

// GenerateComparisonChart draws median IRR per simulation.
func GenerateComparisonChart(c viewmodel.Comparison) string {
	if len(c.Rows) == 0 {
		return ""
	}
	labels := make([]string, 0, len(c.Rows))
	values := make([]float64, 0, len(c.Rows))
	for _, r := range c.Rows {
		labels = append(labels, quote(r.ID))
		values = append(values, r.IRR)
	}

	lo, hi := yRange(values)
	var sb strings.Builder
	writeHeader(&sb, "Median IRR by Simulation", labels, "IRR", lo, hi)
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", joinNumbers(values)))
	sb.WriteString("```")
	return sb.String()
}

func writeHeader(sb *strings.Builder, title string, labels []string, yLabel string, lo, hi float64) {
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title %s\n", quote(title)))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis %s %s --> %s\n", quote(yLabel), formatNumber(lo), formatNumber(hi)))
}

// yRange pads the data range by 10% and keeps 0 on the axis.
func yRange(values []float64) (float64, float64) {
	lo, hi := 0.0, 0.0
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	pad := (hi - lo) * 0.1
	if pad == 0 {
		pad = 1
	}
	if lo < 0 {
		lo -= pad
	}
	return lo, hi + pad
}

func stride(n int) int {
	if n <= maxPoints {
		return 1
	}
	return int(math.Ceil(float64(n) / maxPoints))
}

func keep(i, n, step int) bool {
	return i%step == 0 || i == n-1
}

func joinNumbers(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = formatNumber(v)
	}
	return strings.Join(parts, ", ")
}

func formatNumber(v float64) string {
	switch a := math.Abs(v); {
	case a >= 100:
		return fmt.Sprintf("%.0f", v)
	case a >= 1:
		return fmt.Sprintf("%.2f", v)
	case v == 0:
		return "0"
	default:
		return fmt.Sprintf("%.4f", v)
	}
}

// quote wraps s for Mermaid, which has no escape for embedded double quotes.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, "'") + `"`
}
