package viewmodel

import (
	"fundview/internal/adapter"
	"fundview/internal/rawdoc"
)

// Unknown is the placeholder used for identifiers missing from a document.
const Unknown = "unknown"

// SimulationStore is the canonical view model every dashboard consumer binds to.
// It is built once per raw document and never modified afterwards.
type SimulationStore struct {
	ID             string  `json:"id"`
	Status         string  `json:"status"`
	Name           string  `json:"name"`
	Message        string  `json:"message"`
	Progress       float64 `json:"progress"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      string  `json:"updatedAt"`
	NumSimulations int     `json:"numSimulations"`

	HeadlineMetrics   HeadlineMetrics   `json:"headlineMetrics"`
	PortfolioDynamics PortfolioDynamics `json:"portfolioDynamics"`
	LPCashFlows       LPCashFlows       `json:"lpCashFlows"`
	RiskInsights      RiskInsights      `json:"riskInsights"`
	FundMetrics       FundMetrics       `json:"fundMetrics"`

	// Legacy flat fields kept for components that predate the sectioned layout.
	Metrics             LegacyMetrics     `json:"metrics"`
	CashFlows           []CashFlow        `json:"cashFlows"`
	PortfolioEvolution  []PortfolioPoint  `json:"portfolioEvolution"`
	LoanPerformance     *LoanPerformance  `json:"loanPerformance"`
	ZonePerformance     []ZonePerformance `json:"zonePerformance"`
	PortfolioAllocation []AllocationSlice `json:"portfolioAllocation"`

	// Raw is the document the store was built from. It is a debugging passthrough,
	// not part of the stable contract; read canonical fields instead.
	Raw rawdoc.Value `json:"raw"`
}

type HeadlineMetrics struct {
	IRR                        adapter.PercentileSummary `json:"irr"`
	EquityMultiple             adapter.PercentileSummary `json:"equityMultiple"`
	ROI                        adapter.PercentileSummary `json:"roi"`
	IRRDistribution            adapter.DispersionData    `json:"irrDistribution"`
	EquityMultipleDistribution adapter.DispersionData    `json:"equityMultipleDistribution"`
	ROIDistribution            adapter.DispersionData    `json:"roiDistribution"`
	MeanIRR                    *float64                  `json:"meanIrr"`
	ProbabilityOfLoss          *float64                  `json:"probabilityOfLoss"`
}

type PortfolioDynamics struct {
	NAV                adapter.FanChartData `json:"nav"`
	ActiveLoans        adapter.FanChartData `json:"activeLoans"`
	CumulativeDefaults adapter.FanChartData `json:"cumulativeDefaults"`
	CashBalance        adapter.FanChartData `json:"cashBalance"`
	Evolution          []PortfolioPoint     `json:"evolution"`
}

type LPCashFlows struct {
	CapitalCalls  adapter.FanChartData      `json:"capitalCalls"`
	Distributions adapter.FanChartData      `json:"distributions"`
	NetCashFlow   adapter.FanChartData      `json:"netCashFlow"`
	Annual        []CashFlow                `json:"annual"`
	DPI           adapter.PercentileSummary `json:"dpi"`
	TVPI          adapter.PercentileSummary `json:"tvpi"`
	Totals        CashFlowTotals            `json:"totals"`
}

type RiskInsights struct {
	VaR95                   *float64                  `json:"var95"`
	CVaR95                  *float64                  `json:"cvar95"`
	MaxDrawdown             *float64                  `json:"maxDrawdown"`
	ProbabilityOfLoss       *float64                  `json:"probabilityOfLoss"`
	DefaultRate             adapter.PercentileSummary `json:"defaultRate"`
	DefaultRateDistribution adapter.DispersionData    `json:"defaultRateDistribution"`
	StressScenarios         []StressScenario          `json:"stressScenarios"`
	Warnings                []string                  `json:"warnings"`
}

type FundMetrics struct {
	FundSize        float64         `json:"fundSize"`
	LPIRR           *float64        `json:"lpIrr"`
	GPIRR           *float64        `json:"gpIrr"`
	LPMultiple      *float64        `json:"lpMultiple"`
	CarriedInterest float64         `json:"carriedInterest"`
	ManagementFees  float64         `json:"managementFees"`
	HurdleRate      *float64        `json:"hurdleRate"`
	WaterfallTiers  []WaterfallTier `json:"waterfallTiers"`
}

// LegacyMetrics is the flat metric block older dashboard cards read. Missing
// numbers are 0 rather than null to keep those cards unchanged; VaR is the exception.
type LegacyMetrics struct {
	IRR             float64  `json:"irr"`
	LPIRR           float64  `json:"lpIrr"`
	GPIRR           float64  `json:"gpIrr"`
	EquityMultiple  float64  `json:"equityMultiple"`
	ROI             float64  `json:"roi"`
	DefaultRate     float64  `json:"defaultRate"`
	AverageLoanSize float64  `json:"averageLoanSize"`
	TotalLoans      int      `json:"totalLoans"`
	VaR             *float64 `json:"var"`
}

type CashFlow struct {
	Year          int     `json:"year"`
	CapitalCalls  float64 `json:"capitalCalls"`
	Distributions float64 `json:"distributions"`
	Net           float64 `json:"net"`
}

type CashFlowTotals struct {
	CapitalCalls  float64 `json:"capitalCalls"`
	Distributions float64 `json:"distributions"`
	Net           float64 `json:"net"`
}

type PortfolioPoint struct {
	Period             int     `json:"period"`
	NAV                float64 `json:"nav"`
	ActiveLoans        int     `json:"activeLoans"`
	Cash               float64 `json:"cash"`
	CumulativeDefaults float64 `json:"cumulativeDefaults"`
}

type LoanPerformance struct {
	TotalLoans           int     `json:"totalLoans"`
	DefaultedLoans       int     `json:"defaultedLoans"`
	DefaultRate          float64 `json:"defaultRate"`
	AverageLTV           float64 `json:"averageLtv"`
	AverageInterestRate  float64 `json:"averageInterestRate"`
	RecoveryRate         float64 `json:"recoveryRate"`
	AverageHoldingPeriod float64 `json:"averageHoldingPeriod"`
}

type ZonePerformance struct {
	Zone        string  `json:"zone"`
	LoanCount   int     `json:"loanCount"`
	Exposure    float64 `json:"exposure"`
	DefaultRate float64 `json:"defaultRate"`
	IRR         float64 `json:"irr"`
}

type AllocationSlice struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type StressScenario struct {
	Name     string  `json:"name"`
	IRR      float64 `json:"irr"`
	LossRate float64 `json:"lossRate"`
}

type WaterfallTier struct {
	Name     string  `json:"name"`
	LPAmount float64 `json:"lpAmount"`
	GPAmount float64 `json:"gpAmount"`
}
