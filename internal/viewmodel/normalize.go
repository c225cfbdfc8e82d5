package viewmodel

import (
	"fundview/internal/adapter"
	"fundview/internal/rawdoc"
)

// ParityMode selects what happens to parallel arrays whose lengths disagree.
type ParityMode int

const (
	// ParityPassThrough surfaces arrays exactly as the backend sent them.
	ParityPassThrough ParityMode = iota
	// ParityRepair truncates each parallel-array group to its shortest member.
	ParityRepair
)

// Options tune normalization. The zero value matches Normalize.
type Options struct {
	Parity ParityMode
}

// Normalize builds the view model for one raw simulation result or status document.
// It accepts any JSON shape, including null and {}, and never fails: every field
// that cannot be found resolves to its documented default.
func Normalize(raw rawdoc.Value) SimulationStore {
	return NormalizeWith(raw, Options{})
}

// NormalizeWith is Normalize with explicit options.
func NormalizeWith(raw rawdoc.Value, opts Options) SimulationStore {
	cashFlows := buildCashFlows(raw, opts.Parity)
	evolution := buildEvolution(raw)

	store := SimulationStore{
		ID:             rawdoc.String(raw, idPath, Unknown),
		Status:         rawdoc.String(raw, statusPath, Unknown),
		Name:           rawdoc.String(raw, namePath, ""),
		Message:        rawdoc.String(raw, messagePath, ""),
		Progress:       rawdoc.Float(raw, progressPath, 0),
		CreatedAt:      rawdoc.String(raw, createdAtPath, ""),
		UpdatedAt:      rawdoc.String(raw, updatedAtPath, ""),
		NumSimulations: rawdoc.Int(raw, numSimulationsPath, 0),

		HeadlineMetrics:   buildHeadline(raw),
		PortfolioDynamics: buildDynamics(raw, evolution),
		LPCashFlows:       buildLPCashFlows(raw, cashFlows),
		RiskInsights:      buildRisk(raw),
		FundMetrics:       buildFund(raw),

		Metrics:             buildLegacyMetrics(raw),
		CashFlows:           cashFlows,
		PortfolioEvolution:  clonePoints(evolution),
		LoanPerformance:     buildLoanPerformance(raw),
		ZonePerformance:     buildZones(raw),
		PortfolioAllocation: buildAllocation(raw),

		Raw: raw,
	}

	if opts.Parity == ParityRepair {
		repairParallelArrays(&store)
	}
	return store
}

func summaryAt(raw rawdoc.Value, paths rawdoc.FieldPath) adapter.PercentileSummary {
	obj, _ := rawdoc.ObjectAt(raw, paths)
	return adapter.ToSummary(obj)
}

func dispersionAt(raw rawdoc.Value, paths rawdoc.FieldPath, metric string) adapter.DispersionData {
	obj, _ := rawdoc.ObjectAt(raw, paths)
	return adapter.ToDispersion(obj, metric)
}

func fanChartAt(raw rawdoc.Value, paths rawdoc.FieldPath) adapter.FanChartData {
	obj, _ := rawdoc.ObjectAt(raw, paths)
	return adapter.ToFanChart(obj)
}

func buildHeadline(raw rawdoc.Value) HeadlineMetrics {
	return HeadlineMetrics{
		IRR:                        summaryAt(raw, irrSummaryPath),
		EquityMultiple:             summaryAt(raw, emSummaryPath),
		ROI:                        summaryAt(raw, roiSummaryPath),
		IRRDistribution:            dispersionAt(raw, irrDistributionPath, MetricIRR),
		EquityMultipleDistribution: dispersionAt(raw, emDistributionPath, MetricEquityMultiple),
		ROIDistribution:            dispersionAt(raw, roiDistributionPath, MetricROI),
		MeanIRR:                    rawdoc.FloatPtr(raw, meanIRRPath),
		ProbabilityOfLoss:          rawdoc.FloatPtr(raw, probabilityOfLossPath),
	}
}

func buildDynamics(raw rawdoc.Value, evolution []PortfolioPoint) PortfolioDynamics {
	return PortfolioDynamics{
		NAV:                fanChartAt(raw, navFanPath),
		ActiveLoans:        fanChartAt(raw, activeLoansFanPath),
		CumulativeDefaults: fanChartAt(raw, cumulativeDefaultsFanPath),
		CashBalance:        fanChartAt(raw, cashBalanceFanPath),
		Evolution:          clonePoints(evolution),
	}
}

func buildLPCashFlows(raw rawdoc.Value, annual []CashFlow) LPCashFlows {
	rows := make([]CashFlow, len(annual))
	copy(rows, annual)
	return LPCashFlows{
		CapitalCalls:  fanChartAt(raw, capitalCallsFanPath),
		Distributions: fanChartAt(raw, distributionsFanPath),
		NetCashFlow:   fanChartAt(raw, netCashFlowFanPath),
		Annual:        rows,
		DPI:           summaryAt(raw, dpiSummaryPath),
		TVPI:          summaryAt(raw, tvpiSummaryPath),
		Totals:        SumCashFlows(rows),
	}
}

func buildRisk(raw rawdoc.Value) RiskInsights {
	return RiskInsights{
		VaR95:                   rawdoc.FloatPtr(raw, var95Path),
		CVaR95:                  rawdoc.FloatPtr(raw, cvar95Path),
		MaxDrawdown:             rawdoc.FloatPtr(raw, maxDrawdownPath),
		ProbabilityOfLoss:       rawdoc.FloatPtr(raw, probabilityOfLossPath),
		DefaultRate:             summaryAt(raw, defaultRateSummaryPath),
		DefaultRateDistribution: dispersionAt(raw, defaultRateDistributionPath, MetricDefaultRate),
		StressScenarios:         buildStressScenarios(raw),
		Warnings:                rawdoc.Strings(raw, warningsPath),
	}
}

func buildFund(raw rawdoc.Value) FundMetrics {
	return FundMetrics{
		FundSize:        rawdoc.Float(raw, fundSizePath, 0),
		LPIRR:           rawdoc.FloatPtr(raw, lpIRRPath),
		GPIRR:           rawdoc.FloatPtr(raw, gpIRRPath),
		LPMultiple:      rawdoc.FloatPtr(raw, lpMultiplePath),
		CarriedInterest: rawdoc.Float(raw, carriedInterestPath, 0),
		ManagementFees:  rawdoc.Float(raw, managementFeesPath, 0),
		HurdleRate:      rawdoc.FloatPtr(raw, hurdleRatePath),
		WaterfallTiers:  buildWaterfallTiers(raw),
	}
}

func buildLegacyMetrics(raw rawdoc.Value) LegacyMetrics {
	return LegacyMetrics{
		IRR:             rawdoc.Float(raw, legacyIRRPath, 0),
		LPIRR:           rawdoc.Float(raw, lpIRRPath, 0),
		GPIRR:           rawdoc.Float(raw, gpIRRPath, 0),
		EquityMultiple:  rawdoc.Float(raw, legacyEquityMultiplePath, 0),
		ROI:             rawdoc.Float(raw, legacyROIPath, 0),
		DefaultRate:     rawdoc.Float(raw, legacyDefaultRatePath, 0),
		AverageLoanSize: rawdoc.Float(raw, legacyAverageLoanSizePath, 0),
		TotalLoans:      rawdoc.Int(raw, legacyTotalLoansPath, 0),
		VaR:             rawdoc.FloatPtr(raw, var95Path),
	}
}

func clonePoints(points []PortfolioPoint) []PortfolioPoint {
	out := make([]PortfolioPoint, len(points))
	copy(out, points)
	return out
}
