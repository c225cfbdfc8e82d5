package engine

import (
	"bufio"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"fundview/internal/rawdoc"

	"github.com/goccy/go-json"
)

// Document shapes the simulation service has emitted over time.
const (
	ShapeLegacy    = "legacy"    // flat metrics.* block
	ShapeSectioned = "sectioned" // snake_case dashboard sections
	ShapeCamel     = "camel"     // sectioned, camelCase keys
	ShapeColumnar  = "columnar"  // sectioned, cash flows as parallel columns
)

// Shapes lists every shape Generate understands.
var Shapes = []string{ShapeLegacy, ShapeSectioned, ShapeCamel, ShapeColumnar}

type GeneratorConfig struct {
	Shape    string
	Scenario string // "mild", "stressed" or "ragged"
	Count    int    // documents
	Paths    int    // simulated paths per document
	Years    int
	Seed     int64
	Now      time.Time
}

const (
	fundSize   = 50_000_000.0
	startLoans = 120.0
	histBins   = 20
)

var zones = []string{"North", "Central", "South", "Coastal"}

// sample is one simulated fund: per-path outcomes and per-year paths.
type sample struct {
	irr, em, roi, defaultRate []float64
	nav, loans, defaults, cash [][]float64 // [year][path]
	calls, dists               [][]float64
}

// Generate builds cfg.Count raw simulation documents in cfg.Shape.
func Generate(cfg GeneratorConfig) ([]map[string]any, error) {
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	if cfg.Count <= 0 {
		cfg.Count = 1
	}
	if cfg.Paths <= 0 {
		cfg.Paths = 500
	}
	if cfg.Years <= 0 {
		cfg.Years = 8
	}
	if cfg.Shape == "" {
		cfg.Shape = ShapeSectioned
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	docs := make([]map[string]any, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		s := simulate(rng, cfg)
		meta := map[string]any{
			"id":              fmt.Sprintf("sim-%03d", i+1),
			"status":          "completed",
			"name":            fmt.Sprintf("Mock fund %d (%s)", i+1, cfg.Scenario),
			"progress":        1.0,
			"created_at":      cfg.Now.Add(-time.Duration(cfg.Count-i) * time.Hour).UTC().Format(time.RFC3339),
			"completed_at":    cfg.Now.Add(-time.Duration(cfg.Count-i-1) * time.Hour).UTC().Format(time.RFC3339),
			"num_simulations": cfg.Paths,
		}

		var doc map[string]any
		switch cfg.Shape {
		case ShapeLegacy:
			doc = legacyDoc(s, cfg)
		case ShapeSectioned:
			doc = sectionedDoc(s, cfg, false)
		case ShapeColumnar:
			doc = sectionedDoc(s, cfg, true)
		case ShapeCamel:
			doc = sectionedDoc(s, cfg, false)
		default:
			return nil, fmt.Errorf("unknown shape %q", cfg.Shape)
		}
		for k, v := range meta {
			doc[k] = v
		}
		if cfg.Scenario == "ragged" {
			ragged(doc)
		}
		if cfg.Shape == ShapeCamel {
			doc = camelKeys(doc).(map[string]any)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func simulate(rng *rand.Rand, cfg GeneratorConfig) sample {
	base, sigma, lambda := 0.09, 0.05, 1.0
	if cfg.Scenario == "stressed" {
		base, sigma, lambda = 0.03, 0.09, 2.0
	}

	n, years := cfg.Paths, cfg.Years
	s := sample{
		nav:      grid(years, n),
		loans:    grid(years, n),
		defaults: grid(years, n),
		cash:     grid(years, n),
		calls:    grid(years, n),
		dists:    grid(years, n),
	}
	for p := 0; p < n; p++ {
		irr := base + sigma*rng.NormFloat64()
		dr := math.Min(0.04*weibullSample(rng, 1.5, lambda), 0.9)
		em := math.Max(0, math.Pow(1+irr, float64(years)/2))
		s.irr = append(s.irr, irr)
		s.em = append(s.em, em)
		s.roi = append(s.roi, em-1)
		s.defaultRate = append(s.defaultRate, dr)

		nav, cum := 0.0, 0.0
		for y := 0; y < years; y++ {
			call := 0.0
			if y < 4 {
				call = fundSize * 0.25 * (0.9 + 0.2*rng.Float64())
			}
			dist := 0.0
			if y >= 3 {
				dist = nav * (0.15 + 0.1*rng.Float64())
			}
			nav = math.Max(0, (nav+call-dist)*(1+irr+0.04*rng.NormFloat64()))
			cum += startLoans * dr / float64(years)

			s.calls[y][p] = call
			s.dists[y][p] = dist
			s.nav[y][p] = nav
			s.defaults[y][p] = math.Round(cum)
			s.loans[y][p] = math.Max(0, math.Round(startLoans*(1-float64(y)/float64(2*years))-cum))
			s.cash[y][p] = fundSize * 0.05 * (1 + 0.3*rng.NormFloat64())
		}
	}
	return s
}

func grid(years, paths int) [][]float64 {
	g := make([][]float64, years)
	for y := range g {
		g[y] = make([]float64, paths)
	}
	return g
}

func weibullSample(rng *rand.Rand, k, lambda float64) float64 {
	u := rng.Float64()
	if u == 0 {
		u = 0.0001
	}
	// X = lambda * (-ln(1-u))^(1/k)
	return lambda * math.Pow(-math.Log(1.0-u), 1.0/k)
}

func summary(values []float64) map[string]any {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return map[string]any{
		"p5":  percentile(sorted, 0.05),
		"p25": percentile(sorted, 0.25),
		"p50": percentile(sorted, 0.50),
		"p75": percentile(sorted, 0.75),
		"p95": percentile(sorted, 0.95),
	}
}

// percentile interpolates linearly between the closest ranks of sorted.
func percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	return round(sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo)))
}

func histogram(values []float64) map[string]any {
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	width := (hi - lo) / histBins
	if width == 0 {
		width = 1
	}
	counts := make([]float64, histBins)
	for _, v := range values {
		i := min(int((v-lo)/width), histBins-1)
		counts[i]++
	}
	bins := make([]float64, histBins)
	edges := make([]float64, histBins+1)
	for i := range edges {
		edges[i] = round(lo + float64(i)*width)
	}
	for i := range bins {
		bins[i] = round(lo + (float64(i)+0.5)*width)
	}
	return map[string]any{"bins": bins, "counts": counts, "bin_edges": edges}
}

func fanChart(byYear [][]float64) map[string]any {
	fan := map[string]any{}
	years := make([]float64, len(byYear))
	bands := map[string][]float64{}
	for y, values := range byYear {
		years[y] = float64(y + 1)
		for label, v := range summary(values) {
			bands[label] = append(bands[label], v.(float64))
		}
	}
	fan["years"] = years
	for label, band := range bands {
		fan[label] = band
	}
	return fan
}

func medians(byYear [][]float64) []float64 {
	out := make([]float64, len(byYear))
	for y, values := range byYear {
		out[y] = summary(values)["p50"].(float64)
	}
	return out
}

func mean(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return round(total / float64(len(values)))
}

func share(values []float64, pred func(float64) bool) float64 {
	n := 0
	for _, v := range values {
		if pred(v) {
			n++
		}
	}
	return round(float64(n) / float64(len(values)))
}

func round(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

func cashFlowRows(s sample) []any {
	calls, dists := medians(s.calls), medians(s.dists)
	rows := make([]any, len(calls))
	for y := range calls {
		rows[y] = map[string]any{
			"year":          y + 1,
			"capital_calls": calls[y],
			"distributions": dists[y],
			"net":           round(dists[y] - calls[y]),
		}
	}
	return rows
}

func cashFlowColumns(s sample) map[string]any {
	calls, dists := medians(s.calls), medians(s.dists)
	years := make([]float64, len(calls))
	net := make([]float64, len(calls))
	for y := range calls {
		years[y] = float64(y + 1)
		net[y] = round(dists[y] - calls[y])
	}
	return map[string]any{"years": years, "capital_calls": calls, "distributions": dists, "net": net}
}

func evolution(s sample) []any {
	nav, loans, cash, defaults := medians(s.nav), medians(s.loans), medians(s.cash), medians(s.defaults)
	points := make([]any, len(nav))
	for y := range nav {
		points[y] = map[string]any{
			"period":              y + 1,
			"nav":                 nav[y],
			"active_loans":        loans[y],
			"cash":                cash[y],
			"cumulative_defaults": defaults[y],
		}
	}
	return points
}

func netFlows(s sample) [][]float64 {
	out := grid(len(s.calls), len(s.calls[0]))
	for y := range s.calls {
		for p := range s.calls[y] {
			out[y][p] = s.dists[y][p] - s.calls[y][p]
		}
	}
	return out
}

func sectionedDoc(s sample, cfg GeneratorConfig, columnar bool) map[string]any {
	irr := summary(s.irr)
	lpIRR := round(irr["p50"].(float64) * 0.85)
	dr := summary(s.defaultRate)
	sortedIRR := append([]float64(nil), s.irr...)
	sort.Float64s(sortedIRR)
	var95 := percentile(sortedIRR, 0.05)

	zoneRecords := map[string]any{}
	allocation := map[string]any{}
	for i, z := range zones {
		weight := round(1.0 / float64(len(zones)) * (1 + 0.2*float64(i-1)))
		zoneRecords[z] = map[string]any{
			"loan_count":   int(startLoans) / len(zones),
			"exposure":     round(fundSize * weight),
			"default_rate": round(dr["p50"].(float64) * (0.8 + 0.15*float64(i))),
			"irr":          round(irr["p50"].(float64) * (1.1 - 0.1*float64(i))),
		}
		allocation[z] = weight
	}

	var cashFlows any = cashFlowRows(s)
	if columnar {
		cashFlows = cashFlowColumns(s)
	}

	return map[string]any{
		"headline_metrics": map[string]any{
			"irr":                          irr,
			"equity_multiple":              summary(s.em),
			"roi":                          summary(s.roi),
			"irr_distribution":             histogram(s.irr),
			"equity_multiple_distribution": histogram(s.em),
			"roi_distribution":             histogram(s.roi),
			"mean_irr":                     mean(s.irr),
			"probability_of_loss":          share(s.irr, func(v float64) bool { return v < 0 }),
		},
		"portfolio_dynamics": map[string]any{
			"nav":                 fanChart(s.nav),
			"active_loans":        fanChart(s.loans),
			"cumulative_defaults": fanChart(s.defaults),
			"cash_balance":        fanChart(s.cash),
		},
		"lp_cash_flows": map[string]any{
			"capital_calls": fanChart(s.calls),
			"distributions": fanChart(s.dists),
			"net_cash_flow": fanChart(netFlows(s)),
			"dpi":           summary(s.roi),
			"tvpi":          summary(s.em),
		},
		"risk_insights": map[string]any{
			"var_95":                    var95,
			"cvar_95":                   round(var95 * 1.3),
			"max_drawdown":              round(math.Abs(var95) * 2),
			"default_rate":              dr,
			"default_rate_distribution": histogram(s.defaultRate),
			"stress_scenarios": []any{
				map[string]any{"name": "Rate shock", "irr": round(irr["p50"].(float64) - 0.03), "loss_rate": 0.05},
				map[string]any{"name": "Property downturn", "irr": round(irr["p25"].(float64) - 0.02), "loss_rate": 0.12},
			},
			"warnings": warnings(cfg),
		},
		"fund_metrics": map[string]any{
			"fund_size":       fundSize,
			"management_fees": round(fundSize * 0.02 * float64(cfg.Years)),
			"hurdle_rate":     0.08,
		},
		"waterfall_results": map[string]any{
			"lp_irr":           lpIRR,
			"gp_irr":           round(irr["p50"].(float64) * 1.6),
			"lp_multiple":      round(summary(s.em)["p50"].(float64) * 0.9),
			"carried_interest": round(fundSize * 0.2 * math.Max(0, irr["p50"].(float64)-0.08)),
			"tiers": []any{
				map[string]any{"name": "Return of capital", "lp_amount": fundSize, "gp_amount": 0.0},
				map[string]any{"name": "Preferred return", "lp_amount": round(fundSize * 0.08), "gp_amount": 0.0},
				map[string]any{"name": "Carried interest", "lp_amount": round(fundSize * 0.1), "gp_amount": round(fundSize * 0.025)},
			},
		},
		"cash_flows":          cashFlows,
		"portfolio_evolution": evolution(s),
		"loan_performance": map[string]any{
			"total_loans":            int(startLoans),
			"defaulted_loans":        int(math.Round(startLoans * dr["p50"].(float64))),
			"default_rate":           dr["p50"],
			"average_ltv":            0.62,
			"average_interest_rate":  0.095,
			"recovery_rate":          0.55,
			"average_holding_period": 2.5,
		},
		"zone_performance":     zoneRecords,
		"portfolio_allocation": allocation,
	}
}

func legacyDoc(s sample, cfg GeneratorConfig) map[string]any {
	irr := summary(s.irr)
	dr := summary(s.defaultRate)
	sortedIRR := append([]float64(nil), s.irr...)
	sort.Float64s(sortedIRR)

	return map[string]any{
		"metrics": map[string]any{
			"irr":               irr["p50"],
			"equity_multiple":   summary(s.em)["p50"],
			"roi":               summary(s.roi)["p50"],
			"lp_irr":            round(irr["p50"].(float64) * 0.85),
			"gp_irr":            round(irr["p50"].(float64) * 1.6),
			"default_rate":      dr["p50"],
			"average_loan_size": round(fundSize / startLoans),
			"total_loans":       int(startLoans),
			"var":               percentile(sortedIRR, 0.05),
			"irr_summary":       irr,
			"distributions":     map[string]any{"irr": histogram(s.irr)},
			"fan_charts":        map[string]any{"nav": fanChart(s.nav)},
			"cash_flows":        cashFlowRows(s),
			"portfolio_evolution": map[string]any{
				"points": evolution(s),
			},
		},
		"warnings": warnings(cfg),
	}
}

func warnings(cfg GeneratorConfig) []any {
	if cfg.Scenario == "stressed" {
		return []any{"Default rate above underwriting assumption", "Cash buffer below one quarter of fees"}
	}
	return []any{}
}

// ragged drops trailing entries from a histogram and a fan-chart band so the
// parallel arrays disagree in length.
func ragged(doc map[string]any) {
	for _, path := range []string{"headline_metrics.irr_distribution", "metrics.distributions.irr"} {
		if h, ok := lookup(doc, path); ok {
			counts := h["counts"].([]float64)
			h["counts"] = counts[:len(counts)-1]
		}
	}
	for _, path := range []string{"portfolio_dynamics.nav", "metrics.fan_charts.nav"} {
		if f, ok := lookup(doc, path); ok {
			band := f["p95"].([]float64)
			f["p95"] = band[:len(band)-1]
		}
	}
}

func lookup(doc map[string]any, path string) (map[string]any, bool) {
	cur := doc
	for _, seg := range strings.Split(path, ".") {
		next, ok := cur[seg].(map[string]any)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// camelKeys rewrites object keys to camelCase. Histogram edges keep their
// snake_case key because the histogram endpoint never changed.
func camelKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			if k != "bin_edges" {
				k = rawdoc.CamelPath(k)
			}
			out[k] = camelKeys(child)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			out[i] = camelKeys(child)
		}
		return out
	}
	return v
}

// Save writes docs as JSON lines into outDir/name.
func Save(outDir, name string, docs []map[string]any) (string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(outDir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, d := range docs {
		if err := enc.Encode(d); err != nil {
			return "", fmt.Errorf("failed to encode %v: %w", d["id"], err)
		}
	}
	return path, w.Flush()
}
