package mcp

import (
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

type normalizeArgs struct {
	Document     string `json:"document" jsonschema:"Raw simulation result or status document as JSON text. Damaged JSON (trailing commas, truncation) is repaired when possible."`
	RepairArrays bool   `json:"repair_arrays,omitempty" jsonschema:"Truncate parallel arrays (histogram bins/counts, fan-chart bands) to a common length."`
}

type fetchArgs struct {
	SimulationID string `json:"simulation_id" jsonschema:"Simulation identifier on the simulation service."`
	StatusOnly   bool   `json:"status_only,omitempty" jsonschema:"Fetch the lightweight status snapshot instead of full results."`
}

type distributionArgs struct {
	SimulationID string `json:"simulation_id" jsonschema:"Simulation identifier."`
	Metric       string `json:"metric" jsonschema:"One of irr, equity_multiple, roi, default_rate."`
}

type fanChartArgs struct {
	SimulationID string `json:"simulation_id" jsonschema:"Simulation identifier."`
	Series       string `json:"series" jsonschema:"One of nav, active_loans, cumulative_defaults, cash_balance, capital_calls, distributions, net_cash_flow."`
}

type compareArgs struct {
	SimulationIDs []string `json:"simulation_ids" jsonschema:"Two or more simulation identifiers to compare side by side."`
}

type listArgs struct{}

func (s *Server) registerTools(srv *sdk.Server) {
	sdk.AddTool(srv, &sdk.Tool{
		Name: "normalize_document",
		Description: "Normalize one raw simulation document into the canonical dashboard view model. " +
			"Missing or malformed fields fall back to documented defaults; the call never fails on shape problems. " +
			"Documents that carry an id are remembered for the other tools.",
	}, s.handleNormalizeDocument)

	sdk.AddTool(srv, &sdk.Tool{
		Name:        "fetch_simulation",
		Description: "Fetch a simulation from the simulation service and return its normalized view model.",
	}, s.handleFetchSimulation)

	sdk.AddTool(srv, &sdk.Tool{
		Name:        "get_distribution",
		Description: "Return the outcome histogram and percentile summary of one metric of a simulation.",
	}, s.handleGetDistribution)

	sdk.AddTool(srv, &sdk.Tool{
		Name:        "get_fan_chart",
		Description: "Return the year-indexed percentile bands (p5..p95) of one time series of a simulation.",
	}, s.handleGetFanChart)

	sdk.AddTool(srv, &sdk.Tool{
		Name:        "compare_simulations",
		Description: "Compare headline metrics (median IRR, equity multiple, ROI, LP IRR, probability of loss) across simulations.",
	}, s.handleCompareSimulations)

	sdk.AddTool(srv, &sdk.Tool{
		Name:        "list_simulations",
		Description: "List the simulations known to the simulation service with their status and progress.",
	}, s.handleListSimulations)
}
