package adapter

import "fundview/internal/rawdoc"

// The histogram endpoint only ever emits snake_case keys, so no camelCase variants are tried.
var (
	binsPath     = rawdoc.Exact("bins")
	countsPath   = rawdoc.Exact("counts")
	binEdgesPath = rawdoc.Exact("bin_edges")
)

// ToDispersion maps a raw {bins, counts, bin_edges} object into DispersionData.
// Each array resolves on its own and defaults to empty; anything that is not an
// object yields three empty arrays. Array lengths are passed through as received.
func ToDispersion(raw rawdoc.Value, metric string) DispersionData {
	if raw.Kind() != rawdoc.KindObject {
		return EmptyDispersion(metric)
	}
	return DispersionData{
		Metric:   metric,
		Bins:     rawdoc.Floats(raw, binsPath),
		Counts:   rawdoc.Floats(raw, countsPath),
		BinEdges: rawdoc.Floats(raw, binEdgesPath),
	}
}

// EmptyDispersion returns a labelled dispersion with empty, non-nil arrays.
func EmptyDispersion(metric string) DispersionData {
	return DispersionData{
		Metric:   metric,
		Bins:     []float64{},
		Counts:   []float64{},
		BinEdges: []float64{},
	}
}

// Total returns the number of simulated outcomes represented by the histogram.
func (d DispersionData) Total() float64 {
	total := 0.0
	for _, c := range d.Counts {
		total += c
	}
	return total
}

// IsEmpty reports whether the dispersion carries no bins at all.
func (d DispersionData) IsEmpty() bool {
	return len(d.Bins) == 0 && len(d.Counts) == 0
}
