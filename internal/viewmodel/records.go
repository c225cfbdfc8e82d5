package viewmodel

import (
	"fundview/internal/rawdoc"
)

// Labels carried by the dispersion records.
const (
	MetricIRR            = "IRR"
	MetricEquityMultiple = "Equity Multiple"
	MetricROI            = "ROI"
	MetricDefaultRate    = "Default Rate"
)

// buildCashFlows accepts an array of per-year records or a columnar object of
// parallel arrays keyed by years. Non-object array elements are skipped.
func buildCashFlows(raw rawdoc.Value, parity ParityMode) []CashFlow {
	sec, _ := rawdoc.Section(raw, cashFlowsPath)
	if sec.Kind() == rawdoc.KindObject {
		return cashFlowColumns(sec, parity)
	}

	rows := []CashFlow{}
	for _, item := range records(sec) {
		rows = append(rows, CashFlow{
			Year:          rawdoc.Int(item, cfYearPath, 0),
			CapitalCalls:  rawdoc.Float(item, cfCapitalCallsPath, 0),
			Distributions: rawdoc.Float(item, cfDistributionsPath, 0),
			Net:           rawdoc.Float(item, cfNetPath, 0),
		})
	}
	return rows
}

// cashFlowColumn is one parallel array of the columnar cash-flow form.
type cashFlowColumn struct {
	name  string
	paths rawdoc.FieldPath
}

var cashFlowColumnSet = []cashFlowColumn{
	{"years", cfYearsColumnPath},
	{"capital_calls", cfCapitalCallsPath},
	{"distributions", cfDistributionsPath},
	{"net", cfNetPath},
}

// cashFlowColumns builds one row per year. Under ParityRepair the rows stop at
// the shortest non-empty column; otherwise shorter columns read as 0.
func cashFlowColumns(cols rawdoc.Value, parity ParityMode) []CashFlow {
	years := rawdoc.Items(cols, cfYearsColumnPath)
	calls := rawdoc.Floats(cols, cfCapitalCallsPath)
	dists := rawdoc.Floats(cols, cfDistributionsPath)
	net := rawdoc.Floats(cols, cfNetPath)

	n := len(years)
	if parity == ParityRepair {
		for _, l := range []int{len(calls), len(dists), len(net)} {
			if l > 0 {
				n = min(n, l)
			}
		}
	}

	rows := make([]CashFlow, 0, n)
	for i, y := range years[:n] {
		year, _ := rawdoc.ToInt(y)
		rows = append(rows, CashFlow{
			Year:          year,
			CapitalCalls:  at(calls, i),
			Distributions: at(dists, i),
			Net:           at(net, i),
		})
	}
	return rows
}

func buildEvolution(raw rawdoc.Value) []PortfolioPoint {
	points := []PortfolioPoint{}
	for _, item := range records(arrayAt(raw, portfolioEvolutionPath)) {
		points = append(points, PortfolioPoint{
			Period:             rawdoc.Int(item, ptPeriodPath, 0),
			NAV:                rawdoc.Float(item, ptNAVPath, 0),
			ActiveLoans:        rawdoc.Int(item, ptActiveLoansPath, 0),
			Cash:               rawdoc.Float(item, ptCashPath, 0),
			CumulativeDefaults: rawdoc.Float(item, ptDefaultsPath, 0),
		})
	}
	return points
}

// buildLoanPerformance returns nil when no loan_performance object exists.
func buildLoanPerformance(raw rawdoc.Value) *LoanPerformance {
	obj, ok := rawdoc.ObjectAt(raw, loanPerformancePath)
	if !ok {
		return nil
	}
	return &LoanPerformance{
		TotalLoans:           rawdoc.Int(obj, lpTotalLoansPath, 0),
		DefaultedLoans:       rawdoc.Int(obj, lpDefaultedLoansPath, 0),
		DefaultRate:          rawdoc.Float(obj, lpDefaultRatePath, 0),
		AverageLTV:           rawdoc.Float(obj, lpAverageLTVPath, 0),
		AverageInterestRate:  rawdoc.Float(obj, lpInterestRatePath, 0),
		RecoveryRate:         rawdoc.Float(obj, lpRecoveryRatePath, 0),
		AverageHoldingPeriod: rawdoc.Float(obj, lpHoldingPeriodPath, 0),
	}
}

// buildZones accepts a list of zone records or an object keyed by zone name.
// In the keyed form the key names the zone unless the record carries its own.
func buildZones(raw rawdoc.Value) []ZonePerformance {
	zones := []ZonePerformance{}
	eachLabelled(raw, zonePerformancePath, func(label string, item rawdoc.Value) {
		if item.Kind() != rawdoc.KindObject {
			return
		}
		zones = append(zones, ZonePerformance{
			Zone:        rawdoc.String(item, zoneNamePath, label),
			LoanCount:   rawdoc.Int(item, zoneLoanCountPath, 0),
			Exposure:    rawdoc.Float(item, zoneExposurePath, 0),
			DefaultRate: rawdoc.Float(item, zoneDefaultRatePath, 0),
			IRR:         rawdoc.Float(item, zoneIRRPath, 0),
		})
	})
	return zones
}

// buildAllocation accepts {label: number}, {label: {value: ...}} or a list of
// {label, value} records.
func buildAllocation(raw rawdoc.Value) []AllocationSlice {
	slices := []AllocationSlice{}
	eachLabelled(raw, portfolioAllocationPath, func(label string, item rawdoc.Value) {
		switch item.Kind() {
		case rawdoc.KindNumber, rawdoc.KindString:
			if f, ok := rawdoc.ToFloat(item); ok && label != "" {
				slices = append(slices, AllocationSlice{Label: label, Value: f})
			}
		case rawdoc.KindObject:
			slices = append(slices, AllocationSlice{
				Label: rawdoc.String(item, allocLabelPath, label),
				Value: rawdoc.Float(item, allocValuePath, 0),
			})
		}
	})
	return slices
}

func buildStressScenarios(raw rawdoc.Value) []StressScenario {
	out := []StressScenario{}
	eachLabelled(raw, stressScenariosPath, func(label string, item rawdoc.Value) {
		if item.Kind() != rawdoc.KindObject {
			return
		}
		out = append(out, StressScenario{
			Name:     rawdoc.String(item, stressNamePath, label),
			IRR:      rawdoc.Float(item, stressIRRPath, 0),
			LossRate: rawdoc.Float(item, stressLossPath, 0),
		})
	})
	return out
}

func buildWaterfallTiers(raw rawdoc.Value) []WaterfallTier {
	out := []WaterfallTier{}
	eachLabelled(raw, waterfallTiersPath, func(label string, item rawdoc.Value) {
		if item.Kind() != rawdoc.KindObject {
			return
		}
		out = append(out, WaterfallTier{
			Name:     rawdoc.String(item, tierNamePath, label),
			LPAmount: rawdoc.Float(item, tierLPPath, 0),
			GPAmount: rawdoc.Float(item, tierGPPath, 0),
		})
	})
	return out
}

// eachLabelled visits the first array or object found along paths. Array elements
// get an empty label; object members are visited in sorted key order.
func eachLabelled(raw rawdoc.Value, paths rawdoc.FieldPath, fn func(label string, item rawdoc.Value)) {
	sec, ok := rawdoc.Section(raw, paths)
	if !ok {
		return
	}
	if items, isArray := sec.Array(); isArray {
		for _, item := range items {
			fn("", item)
		}
		return
	}
	for _, key := range sec.Keys() {
		item, _ := sec.Get(key)
		fn(key, item)
	}
}

func arrayAt(raw rawdoc.Value, paths rawdoc.FieldPath) rawdoc.Value {
	return rawdoc.ArrayValue(rawdoc.Items(raw, paths)...)
}

// records returns the object elements of an array value.
func records(v rawdoc.Value) []rawdoc.Value {
	items, _ := v.Array()
	out := make([]rawdoc.Value, 0, len(items))
	for _, item := range items {
		if item.Kind() == rawdoc.KindObject {
			out = append(out, item)
		}
	}
	return out
}

func at(s []float64, i int) float64 {
	if i < len(s) {
		return s[i]
	}
	return 0
}
