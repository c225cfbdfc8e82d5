package adapter

// DispersionData is the binned outcome distribution of one metric.
// Bins and Counts are expected to be parallel; BinEdges, when present, has one more entry.
type DispersionData struct {
	Metric   string    `json:"metric"`
	Bins     []float64 `json:"bins"`
	Counts   []float64 `json:"counts"`
	BinEdges []float64 `json:"binEdges"`
}

// PercentileSummary is the five-number snapshot of a simulated metric.
type PercentileSummary struct {
	P5  float64 `json:"p5"`
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P95 float64 `json:"p95"`
}

// FanChartData holds year-indexed percentile bands. All series share the Years axis.
type FanChartData struct {
	Years []float64 `json:"years"`
	P5    []float64 `json:"p5"`
	P25   []float64 `json:"p25"`
	P50   []float64 `json:"p50"`
	P75   []float64 `json:"p75"`
	P95   []float64 `json:"p95"`
}

// Issue describes a structural problem found in adapted data. Issues are reported,
// never raised.
type Issue struct {
	Section string `json:"section"`
	Detail  string `json:"detail"`
}

func (i Issue) String() string {
	return i.Section + ": " + i.Detail
}
