package adapter

import "fundview/internal/rawdoc"

var (
	p5Path  = rawdoc.Exact("p5")
	p25Path = rawdoc.Exact("p25")
	p50Path = rawdoc.Exact("p50")
	p75Path = rawdoc.Exact("p75")
	p95Path = rawdoc.Exact("p95")
)

// ToSummary maps a raw percentile map into a PercentileSummary.
// Every percentile resolves independently and defaults to 0.
func ToSummary(raw rawdoc.Value) PercentileSummary {
	return PercentileSummary{
		P5:  rawdoc.Float(raw, p5Path, 0),
		P25: rawdoc.Float(raw, p25Path, 0),
		P50: rawdoc.Float(raw, p50Path, 0),
		P75: rawdoc.Float(raw, p75Path, 0),
		P95: rawdoc.Float(raw, p95Path, 0),
	}
}

// Spread returns the P95-P5 range.
func (s PercentileSummary) Spread() float64 {
	return s.P95 - s.P5
}

// IQR returns the P75-P25 range.
func (s PercentileSummary) IQR() float64 {
	return s.P75 - s.P25
}
