package viewmodel

import (
	"fmt"

	"fundview/internal/adapter"
	"fundview/internal/rawdoc"
)

// Check lists every parallel-array length mismatch in s. It never modifies s.
func Check(s SimulationStore) []adapter.Issue {
	var issues []adapter.Issue
	for _, d := range dispersions(&s) {
		issues = append(issues, adapter.CheckDispersion(d.section, *d.data)...)
	}
	for _, f := range fanCharts(&s) {
		issues = append(issues, adapter.CheckFanChart(f.section, *f.data)...)
	}
	return append(issues, checkCashFlowColumns(s)...)
}

// checkCashFlowColumns compares the source columns of columnar cash flows with
// the rows built from them. Rows carry no trace of a mismatch, so the raw
// document is consulted in both parity modes.
func checkCashFlowColumns(s SimulationStore) []adapter.Issue {
	cols, _ := rawdoc.Section(s.Raw, cashFlowsPath)
	if cols.Kind() != rawdoc.KindObject {
		return nil
	}
	var issues []adapter.Issue
	for _, c := range cashFlowColumnSet {
		n := len(rawdoc.Items(cols, c.paths))
		if n == 0 || n == len(s.CashFlows) {
			continue
		}
		issues = append(issues, adapter.Issue{
			Section: "cashFlows",
			Detail:  fmt.Sprintf("%s has %d entries but %d rows were built", c.name, n, len(s.CashFlows)),
		})
	}
	return issues
}

func repairParallelArrays(s *SimulationStore) {
	for _, d := range dispersions(s) {
		*d.data = adapter.RepairDispersion(*d.data)
	}
	for _, f := range fanCharts(s) {
		*f.data = adapter.RepairFanChart(*f.data)
	}
}

type dispersionRef struct {
	section string
	data    *adapter.DispersionData
}

type fanChartRef struct {
	section string
	data    *adapter.FanChartData
}

func dispersions(s *SimulationStore) []dispersionRef {
	return []dispersionRef{
		{"headlineMetrics.irrDistribution", &s.HeadlineMetrics.IRRDistribution},
		{"headlineMetrics.equityMultipleDistribution", &s.HeadlineMetrics.EquityMultipleDistribution},
		{"headlineMetrics.roiDistribution", &s.HeadlineMetrics.ROIDistribution},
		{"riskInsights.defaultRateDistribution", &s.RiskInsights.DefaultRateDistribution},
	}
}

func fanCharts(s *SimulationStore) []fanChartRef {
	return []fanChartRef{
		{"portfolioDynamics.nav", &s.PortfolioDynamics.NAV},
		{"portfolioDynamics.activeLoans", &s.PortfolioDynamics.ActiveLoans},
		{"portfolioDynamics.cumulativeDefaults", &s.PortfolioDynamics.CumulativeDefaults},
		{"portfolioDynamics.cashBalance", &s.PortfolioDynamics.CashBalance},
		{"lpCashFlows.capitalCalls", &s.LPCashFlows.CapitalCalls},
		{"lpCashFlows.distributions", &s.LPCashFlows.Distributions},
		{"lpCashFlows.netCashFlow", &s.LPCashFlows.NetCashFlow},
	}
}
