package viewmodel

import "fundview/internal/rawdoc"

// Candidate locations per output field, newest backend layout first, then the
// nested metrics.* block of the older API, then legacy flat keys.
var (
	idPath             = rawdoc.Field("id", "simulation_id", "metadata.simulation_id")
	statusPath         = rawdoc.Field("status", "state", "metadata.status")
	namePath           = rawdoc.Field("name", "metadata.name", "config.name")
	messagePath        = rawdoc.Field("message", "error", "error_message")
	progressPath       = rawdoc.Field("progress", "metadata.progress")
	createdAtPath      = rawdoc.Field("created_at", "metadata.created_at")
	updatedAtPath      = rawdoc.Field("updated_at", "completed_at", "metadata.updated_at")
	numSimulationsPath = rawdoc.Field("num_simulations", "config.num_simulations", "metadata.num_simulations")
)

// headline metrics
var (
	irrSummaryPath = rawdoc.Field("headline_metrics.irr", "metrics.irr_summary", "irr_summary")
	emSummaryPath  = rawdoc.Field("headline_metrics.equity_multiple", "metrics.equity_multiple_summary", "equity_multiple_summary")
	roiSummaryPath = rawdoc.Field("headline_metrics.roi", "metrics.roi_summary", "roi_summary")

	irrDistributionPath = rawdoc.Field("headline_metrics.irr_distribution", "distributions.irr", "metrics.distributions.irr")
	emDistributionPath  = rawdoc.Field("headline_metrics.equity_multiple_distribution", "distributions.equity_multiple", "metrics.distributions.equity_multiple")
	roiDistributionPath = rawdoc.Field("headline_metrics.roi_distribution", "distributions.roi", "metrics.distributions.roi")

	meanIRRPath           = rawdoc.Field("headline_metrics.mean_irr", "metrics.mean_irr")
	probabilityOfLossPath = rawdoc.Field(
		"headline_metrics.probability_of_loss",
		"risk_insights.probability_of_loss",
		"risk_metrics.probability_of_loss",
		"metrics.probability_of_loss",
	)
)

// fan charts
var (
	navFanPath                = fanPath("portfolio_dynamics", "nav")
	activeLoansFanPath        = fanPath("portfolio_dynamics", "active_loans")
	cumulativeDefaultsFanPath = fanPath("portfolio_dynamics", "cumulative_defaults")
	cashBalanceFanPath        = fanPath("portfolio_dynamics", "cash_balance")
	capitalCallsFanPath       = fanPath("lp_cash_flows", "capital_calls")
	distributionsFanPath      = fanPath("lp_cash_flows", "distributions")
	netCashFlowFanPath        = fanPath("lp_cash_flows", "net_cash_flow")

	dpiSummaryPath  = rawdoc.Field("lp_cash_flows.dpi", "metrics.dpi_summary")
	tvpiSummaryPath = rawdoc.Field("lp_cash_flows.tvpi", "metrics.tvpi_summary")
)

// risk
var (
	var95Path       = rawdoc.Field("risk_insights.var_95", "risk_metrics.var_95", "metrics.var_95", "metrics.var", "var")
	cvar95Path      = rawdoc.Field("risk_insights.cvar_95", "risk_metrics.cvar_95", "metrics.cvar_95", "cvar")
	maxDrawdownPath = rawdoc.Field("risk_insights.max_drawdown", "risk_metrics.max_drawdown", "metrics.max_drawdown")

	defaultRateSummaryPath      = rawdoc.Field("risk_insights.default_rate", "risk_metrics.default_rate_summary", "metrics.default_rate_summary")
	defaultRateDistributionPath = rawdoc.Field("risk_insights.default_rate_distribution", "distributions.default_rate", "metrics.distributions.default_rate")

	stressScenariosPath = rawdoc.Field("risk_insights.stress_scenarios", "risk_metrics.stress_tests", "stress_tests")
	warningsPath        = rawdoc.Field("risk_insights.warnings", "warnings")
)

// fund and waterfall
var (
	fundSizePath        = rawdoc.Field("fund_metrics.fund_size", "config.fund_size", "metrics.fund_size")
	lpIRRPath           = rawdoc.Field("waterfall_results.lp_irr", "fund_metrics.lp_irr", "metrics.lp_irr", "lp_irr")
	gpIRRPath           = rawdoc.Field("waterfall_results.gp_irr", "fund_metrics.gp_irr", "metrics.gp_irr", "gp_irr")
	lpMultiplePath      = rawdoc.Field("waterfall_results.lp_multiple", "fund_metrics.lp_multiple", "metrics.lp_multiple")
	carriedInterestPath = rawdoc.Field("waterfall_results.carried_interest", "fund_metrics.carried_interest", "metrics.carried_interest")
	managementFeesPath  = rawdoc.Field("fund_metrics.management_fees", "waterfall_results.management_fees", "metrics.management_fees")
	hurdleRatePath      = rawdoc.Field("fund_metrics.hurdle_rate", "waterfall_results.hurdle_rate", "config.hurdle_rate")
	waterfallTiersPath  = rawdoc.Field("waterfall_results.tiers", "waterfall_results.distributions_by_tier")
)

// legacy flat metrics
var (
	legacyIRRPath             = rawdoc.Field("metrics.irr", "irr", "headline_metrics.irr.p50")
	legacyEquityMultiplePath  = rawdoc.Field("metrics.equity_multiple", "equity_multiple", "headline_metrics.equity_multiple.p50")
	legacyROIPath             = rawdoc.Field("metrics.roi", "roi", "headline_metrics.roi.p50")
	legacyDefaultRatePath     = rawdoc.Field("metrics.default_rate", "loan_performance.default_rate", "default_rate")
	legacyAverageLoanSizePath = rawdoc.Field("metrics.average_loan_size", "loan_performance.average_loan_size", "average_loan_size")
	legacyTotalLoansPath      = rawdoc.Field("metrics.total_loans", "loan_performance.total_loans", "total_loans")
)

// record sections
var (
	cashFlowsPath           = rawdoc.Field("cash_flows", "lp_cash_flows.annual", "metrics.cash_flows")
	portfolioEvolutionPath  = rawdoc.Field("portfolio_evolution.points", "portfolio_evolution", "metrics.portfolio_evolution.points", "metrics.portfolio_evolution")
	loanPerformancePath     = rawdoc.Field("loan_performance", "metrics.loan_performance")
	zonePerformancePath     = rawdoc.Field("zone_performance", "metrics.zone_performance")
	portfolioAllocationPath = rawdoc.Field("portfolio_allocation", "allocation", "metrics.portfolio_allocation")
)

// per-record fields
var (
	cfYearPath          = rawdoc.Field("year", "period")
	cfCapitalCallsPath  = rawdoc.Field("capital_calls", "calls", "contributions")
	cfDistributionsPath = rawdoc.Field("distributions", "distribution")
	cfNetPath           = rawdoc.Field("net", "net_cash_flow")
	cfYearsColumnPath   = rawdoc.Field("years", "year")

	ptPeriodPath      = rawdoc.Field("period", "month", "year")
	ptNAVPath         = rawdoc.Field("nav", "portfolio_value", "value")
	ptActiveLoansPath = rawdoc.Field("active_loans", "loan_count")
	ptCashPath        = rawdoc.Field("cash", "cash_balance")
	ptDefaultsPath    = rawdoc.Field("cumulative_defaults", "defaults")

	lpTotalLoansPath     = rawdoc.Field("total_loans")
	lpDefaultedLoansPath = rawdoc.Field("defaulted_loans")
	lpDefaultRatePath    = rawdoc.Field("default_rate")
	lpAverageLTVPath     = rawdoc.Field("average_ltv", "avg_ltv")
	lpInterestRatePath   = rawdoc.Field("average_interest_rate", "avg_interest_rate")
	lpRecoveryRatePath   = rawdoc.Field("recovery_rate")
	lpHoldingPeriodPath  = rawdoc.Field("average_holding_period", "avg_holding_period")

	zoneNamePath        = rawdoc.Field("zone", "name")
	zoneLoanCountPath   = rawdoc.Field("loan_count", "loans")
	zoneExposurePath    = rawdoc.Field("exposure", "amount")
	zoneDefaultRatePath = rawdoc.Field("default_rate")
	zoneIRRPath         = rawdoc.Field("irr")

	allocLabelPath = rawdoc.Field("label", "name", "zone", "category")
	allocValuePath = rawdoc.Field("value", "amount", "weight", "percentage")

	stressNamePath = rawdoc.Field("name", "scenario")
	stressIRRPath  = rawdoc.Field("irr")
	stressLossPath = rawdoc.Field("loss_rate", "loss")

	tierNamePath = rawdoc.Field("name", "tier")
	tierLPPath   = rawdoc.Field("lp_amount", "lp")
	tierGPPath   = rawdoc.Field("gp_amount", "gp")
)

// fanPath lists the sectioned location of a fan chart, then the shared
// fan_charts block, then the older metrics.fan_charts block.
func fanPath(section, series string) rawdoc.FieldPath {
	return rawdoc.Field(
		section+"."+series,
		"fan_charts."+series,
		"metrics.fan_charts."+series,
	)
}
