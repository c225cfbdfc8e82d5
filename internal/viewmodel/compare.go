package viewmodel

// ComparisonRow is one simulation in a side-by-side view.
type ComparisonRow struct {
	ID                string   `json:"id"`
	Status            string   `json:"status"`
	IRR               float64  `json:"irrP50"`
	EquityMultiple    float64  `json:"equityMultipleP50"`
	ROI               float64  `json:"roiP50"`
	LPIRR             *float64 `json:"lpIrr"`
	ProbabilityOfLoss *float64 `json:"probabilityOfLoss"`
}

type Comparison struct {
	Rows []ComparisonRow `json:"rows"`
}

// Compare builds one row per store, in input order.
func Compare(stores []SimulationStore) Comparison {
	rows := make([]ComparisonRow, 0, len(stores))
	for _, s := range stores {
		rows = append(rows, ComparisonRow{
			ID:                s.ID,
			Status:            s.Status,
			IRR:               s.HeadlineMetrics.IRR.P50,
			EquityMultiple:    s.HeadlineMetrics.EquityMultiple.P50,
			ROI:               s.HeadlineMetrics.ROI.P50,
			LPIRR:             s.FundMetrics.LPIRR,
			ProbabilityOfLoss: s.HeadlineMetrics.ProbabilityOfLoss,
		})
	}
	return Comparison{Rows: rows}
}

// Best returns the row with the highest median IRR, or false when empty.
func (c Comparison) Best() (ComparisonRow, bool) {
	if len(c.Rows) == 0 {
		return ComparisonRow{}, false
	}
	best := c.Rows[0]
	for _, r := range c.Rows[1:] {
		if r.IRR > best.IRR {
			best = r
		}
	}
	return best, true
}
