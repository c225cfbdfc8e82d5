package viewmodel

import "github.com/shopspring/decimal"

// SumCashFlows totals annual rows in decimal so long series do not pick up
// binary rounding noise (0.1+0.2 stays 0.3).
func SumCashFlows(rows []CashFlow) CashFlowTotals {
	calls, dists, net := decimal.Zero, decimal.Zero, decimal.Zero
	for _, r := range rows {
		calls = calls.Add(decimal.NewFromFloat(r.CapitalCalls))
		dists = dists.Add(decimal.NewFromFloat(r.Distributions))
		net = net.Add(decimal.NewFromFloat(r.Net))
	}
	return CashFlowTotals{
		CapitalCalls:  calls.InexactFloat64(),
		Distributions: dists.InexactFloat64(),
		Net:           net.InexactFloat64(),
	}
}
