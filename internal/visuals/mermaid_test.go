package visuals

import (
	"strings"
	"testing"

	"fundview/internal/adapter"
	"fundview/internal/viewmodel"
)

func TestGenerateFanChart(t *testing.T) {
	f := adapter.FanChartData{
		Years: []float64{1, 2, 3},
		P5:    []float64{90, 95, 99},
		P25:   []float64{},
		P50:   []float64{100, 110, 120},
		P75:   []float64{1, 2},
		P95:   []float64{110, 130, 150},
	}
	got := GenerateFanChart("NAV", "NAV", f)

	if !strings.HasPrefix(got, "```mermaid\nxychart-beta\n") || !strings.HasSuffix(got, "```") {
		t.Fatalf("not a mermaid block:\n%s", got)
	}
	if strings.Count(got, "    line [") != 3 {
		t.Errorf("want 3 lines (p75 mismatched, p25 empty):\n%s", got)
	}
	if !strings.Contains(got, `x-axis ["1.00", "2.00", "3.00"]`) {
		t.Errorf("unexpected x-axis:\n%s", got)
	}
	if !strings.Contains(got, "line [100, 110, 120]") {
		t.Errorf("missing p50 line:\n%s", got)
	}
}

func TestGenerateFanChart_Empty(t *testing.T) {
	if got := GenerateFanChart("NAV", "NAV", adapter.EmptyFanChart()); got != "" {
		t.Errorf("GenerateFanChart(empty) = %q, want empty", got)
	}
	onlyYears := adapter.FanChartData{Years: []float64{1}}
	if got := GenerateFanChart("NAV", "NAV", onlyYears); got != "" {
		t.Errorf("GenerateFanChart(no bands) = %q, want empty", got)
	}
}

func TestGenerateFanChart_Subsamples(t *testing.T) {
	f := adapter.FanChartData{}
	for i := range 150 {
		f.Years = append(f.Years, float64(i))
		f.P50 = append(f.P50, float64(i))
	}
	got := GenerateFanChart("NAV", "NAV", f)
	axis := got[strings.Index(got, "x-axis"):]
	axis = axis[:strings.Index(axis, "\n")]
	if n := strings.Count(axis, ",") + 1; n > maxPoints+1 {
		t.Errorf("x-axis has %d labels, want at most %d", n, maxPoints+1)
	}
}

func TestGenerateDistributionChart(t *testing.T) {
	d := adapter.DispersionData{Metric: "IRR", Bins: []float64{0.05, 0.1, 0.15}, Counts: []float64{10, 40}}
	got := GenerateDistributionChart(d)
	if !strings.Contains(got, `title "IRR Distribution"`) {
		t.Errorf("missing title:\n%s", got)
	}
	if !strings.Contains(got, "bar [10.00, 40.00]") {
		t.Errorf("bars should be cut to the shorter array:\n%s", got)
	}
	if GenerateDistributionChart(adapter.EmptyDispersion("IRR")) != "" {
		t.Error("empty dispersion should render nothing")
	}
}

func TestGenerateSummaryChart_NegativeAxis(t *testing.T) {
	got := GenerateSummaryChart("IRR", adapter.PercentileSummary{P5: -0.1, P50: 0.1, P95: 0.3})
	if !strings.Contains(got, `y-axis "Value" -0.1400 --> 0.3400`) {
		t.Errorf("unexpected y-axis:\n%s", got)
	}
	if GenerateSummaryChart("IRR", adapter.PercentileSummary{}) != "" {
		t.Error("zero summary should render nothing")
	}
}

func TestGenerateCashFlowChart(t *testing.T) {
	rows := []viewmodel.CashFlow{{Year: 1, CapitalCalls: 100, Net: -100}, {Year: 2, Distributions: 150, Net: 150}}
	got := GenerateCashFlowChart(rows)
	if strings.Count(got, "    bar [") != 2 || strings.Count(got, "    line [") != 1 {
		t.Errorf("unexpected series:\n%s", got)
	}
	if !strings.Contains(got, `x-axis ["Y1", "Y2"]`) {
		t.Errorf("unexpected x-axis:\n%s", got)
	}
}

func TestGenerateAllocationPie(t *testing.T) {
	got := GenerateAllocationPie([]viewmodel.AllocationSlice{{Label: "Retail", Value: 0.6}, {Label: "Empty", Value: 0}, {Label: `Say "hi"`, Value: 0.4}})
	want := "```mermaid\npie title Portfolio Allocation\n    \"Retail\" : 0.6000\n    \"Say 'hi'\" : 0.4000\n```"
	if got != want {
		t.Errorf("GenerateAllocationPie() =\n%s\nwant\n%s", got, want)
	}
	if GenerateAllocationPie(nil) != "" {
		t.Error("nil allocation should render nothing")
	}
}

func TestGenerateComparisonChart(t *testing.T) {
	c := viewmodel.Comparison{Rows: []viewmodel.ComparisonRow{{ID: "a", IRR: 0.1}, {ID: "b", IRR: 0.2}}}
	got := GenerateComparisonChart(c)
	if !strings.Contains(got, `x-axis ["a", "b"]`) || !strings.Contains(got, "bar [0.1000, 0.2000]") {
		t.Errorf("unexpected chart:\n%s", got)
	}
}
