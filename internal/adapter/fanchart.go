package adapter

import "fundview/internal/rawdoc"

var yearsPath = rawdoc.Exact("years")

// ToFanChart maps a raw year-indexed percentile series into parallel arrays.
// Each series resolves independently and defaults to empty; lengths are not reconciled.
func ToFanChart(raw rawdoc.Value) FanChartData {
	return FanChartData{
		Years: rawdoc.Floats(raw, yearsPath),
		P5:    rawdoc.Floats(raw, p5Path),
		P25:   rawdoc.Floats(raw, p25Path),
		P50:   rawdoc.Floats(raw, p50Path),
		P75:   rawdoc.Floats(raw, p75Path),
		P95:   rawdoc.Floats(raw, p95Path),
	}
}

// EmptyFanChart returns a fan chart with every series empty and non-nil.
func EmptyFanChart() FanChartData {
	return ToFanChart(rawdoc.Value{})
}

// IsEmpty reports whether the fan chart has no years.
func (f FanChartData) IsEmpty() bool {
	return len(f.Years) == 0
}

// Band returns the series for a percentile label ("p5".."p95").
func (f FanChartData) Band(label string) ([]float64, bool) {
	switch label {
	case "p5":
		return f.P5, true
	case "p25":
		return f.P25, true
	case "p50":
		return f.P50, true
	case "p75":
		return f.P75, true
	case "p95":
		return f.P95, true
	}
	return nil, false
}
