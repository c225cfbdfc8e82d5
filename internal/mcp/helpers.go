package mcp

import (
	"context"
	"fmt"

	"fundview/internal/adapter"
	"fundview/internal/rawdoc"
	"fundview/internal/viewmodel"
	"fundview/internal/visuals"

	"github.com/goccy/go-json"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// lookup returns the stored view model for id, fetching it on a miss.
func (s *Server) lookup(ctx context.Context, id string) (viewmodel.SimulationStore, error) {
	if id == "" {
		return viewmodel.SimulationStore{}, fmt.Errorf("simulation_id is required")
	}
	if vm, ok := s.results.Get(id); ok {
		return vm, nil
	}
	return s.fetch(ctx, id)
}

// fetch always goes to the simulation service and replaces the stored view model.
func (s *Server) fetch(ctx context.Context, id string) (viewmodel.SimulationStore, error) {
	raw, err := s.client.GetResults(ctx, id)
	if err != nil {
		return viewmodel.SimulationStore{}, fmt.Errorf("failed to fetch results of %s: %w", id, err)
	}
	// The service may omit the id; the one we asked for is kept then.
	vm, _ := s.results.PutAs(id, raw)
	s.report(vm)
	return vm, nil
}

func (s *Server) report(vm viewmodel.SimulationStore) {
	if s.recorder == nil {
		return
	}
	s.recorder.Issues(vm.ID, viewmodel.Check(vm))
}

func (s *Server) result(data any, charts ...string) *sdk.CallToolResult {
	content := []sdk.Content{&sdk.TextContent{Text: s.formatResult(data)}}
	if s.opts.MermaidCharts {
		for _, chart := range charts {
			if chart != "" {
				content = append(content, &sdk.TextContent{Text: chart})
			}
		}
	}
	return &sdk.CallToolResult{Content: content}
}

func (s *Server) formatResult(data any) string {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}
	return string(out)
}

func overviewCharts(vm viewmodel.SimulationStore) []string {
	return []string{
		visuals.GenerateSummaryChart("IRR", vm.HeadlineMetrics.IRR),
		visuals.GenerateFanChart("Portfolio NAV", "NAV", vm.PortfolioDynamics.NAV),
		visuals.GenerateCashFlowChart(vm.CashFlows),
		visuals.GenerateAllocationPie(vm.PortfolioAllocation),
	}
}

func distribution(vm viewmodel.SimulationStore, metric string) (adapter.DispersionData, adapter.PercentileSummary, bool) {
	switch rawdoc.SnakeName(metric) {
	case "irr":
		return vm.HeadlineMetrics.IRRDistribution, vm.HeadlineMetrics.IRR, true
	case "equity_multiple", "em":
		return vm.HeadlineMetrics.EquityMultipleDistribution, vm.HeadlineMetrics.EquityMultiple, true
	case "roi":
		return vm.HeadlineMetrics.ROIDistribution, vm.HeadlineMetrics.ROI, true
	case "default_rate":
		return vm.RiskInsights.DefaultRateDistribution, vm.RiskInsights.DefaultRate, true
	}
	return adapter.DispersionData{}, adapter.PercentileSummary{}, false
}

func fanChart(vm viewmodel.SimulationStore, series string) (adapter.FanChartData, string, bool) {
	switch rawdoc.SnakeName(series) {
	case "nav":
		return vm.PortfolioDynamics.NAV, "Portfolio NAV", true
	case "active_loans":
		return vm.PortfolioDynamics.ActiveLoans, "Active Loans", true
	case "cumulative_defaults":
		return vm.PortfolioDynamics.CumulativeDefaults, "Cumulative Defaults", true
	case "cash_balance":
		return vm.PortfolioDynamics.CashBalance, "Cash Balance", true
	case "capital_calls":
		return vm.LPCashFlows.CapitalCalls, "Capital Calls", true
	case "distributions":
		return vm.LPCashFlows.Distributions, "Distributions", true
	case "net_cash_flow":
		return vm.LPCashFlows.NetCashFlow, "Net Cash Flow", true
	}
	return adapter.FanChartData{}, "", false
}
