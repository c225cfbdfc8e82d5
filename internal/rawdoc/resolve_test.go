package rawdoc

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustParse(t *testing.T, s string) Value {
	t.Helper()
	v, err := Parse([]byte(s))
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", s, err)
	}
	return v
}

func TestField_AddsCamelVariants(t *testing.T) {
	got := Field("waterfall_results.lp_irr", "metrics.lp_irr", "id")
	want := FieldPath{
		"waterfall_results.lp_irr", "waterfallResults.lpIrr",
		"metrics.lp_irr", "metrics.lpIrr",
		"id",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Field() mismatch (-want +got):\n%s", diff)
	}
}

func TestSnakeName(t *testing.T) {
	tests := map[string]string{
		"irr":            "irr",
		"IRR":            "irr",
		"equityMultiple": "equity_multiple",
		"Net Cash Flow":  "net_cash_flow",
		"default-rate":   "default_rate",
		" active_loans ": "active_loans",
	}
	for in, want := range tests {
		if got := SnakeName(in); got != want {
			t.Errorf("SnakeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCamelPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"lp_irr", "lpIrr"},
		{"risk_insights.var_95", "riskInsights.var95"},
		{"p50", "p50"},
		{"portfolio_evolution.points.0.nav", "portfolioEvolution.points.0.nav"},
		{"_leading", "leading"},
		{"bin_edges", "binEdges"},
	}
	for _, tt := range tests {
		if got := CamelPath(tt.in); got != tt.want {
			t.Errorf("CamelPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLookup_PrecedenceFollowsDeclarationOrder(t *testing.T) {
	doc := mustParse(t, `{"metrics":{"lp_irr":0.1},"waterfall_results":{"lp_irr":0.12}}`)

	got := Float(doc, Field("waterfall_results.lp_irr", "metrics.lp_irr"), -1)
	if got != 0.12 {
		t.Errorf("Float() = %v, want 0.12", got)
	}

	got = Float(doc, Field("metrics.lp_irr", "waterfall_results.lp_irr"), -1)
	if got != 0.1 {
		t.Errorf("Float() with reversed paths = %v, want 0.1", got)
	}
}

func TestResolve_CamelCaseFallback(t *testing.T) {
	doc := mustParse(t, `{"waterfallResults":{"lpIrr":0.2}}`)
	if got := Float(doc, Field("waterfall_results.lp_irr"), 0); got != 0.2 {
		t.Errorf("Float() = %v, want 0.2", got)
	}
}

func TestResolve_ZeroIsPresent(t *testing.T) {
	doc := mustParse(t, `{"metrics":{"irr":0},"irr":0.3,"flag":false,"name":""}`)

	if got := Float(doc, Field("metrics.irr", "irr"), -1); got != 0 {
		t.Errorf("Float() = %v, want 0 (zero must not fall through)", got)
	}
	if got := Bool(doc, Field("flag"), true); got != false {
		t.Errorf("Bool() = %v, want false", got)
	}
	if got := String(doc, Field("name"), "fallback"); got != "" {
		t.Errorf("String() = %q, want empty string", got)
	}
}

func TestResolve_NullIsAbsent(t *testing.T) {
	doc := mustParse(t, `{"metrics":{"lp_irr":null},"lp_irr":0.4}`)
	if got := Float(doc, Field("metrics.lp_irr", "lp_irr"), -1); got != 0.4 {
		t.Errorf("Float() = %v, want 0.4", got)
	}
	if got := FloatPtr(doc, Field("metrics.lp_irr")); got != nil {
		t.Errorf("FloatPtr() = %v, want nil", *got)
	}
}

func TestResolve_WrongShapeFallsThrough(t *testing.T) {
	doc := mustParse(t, `{"a":{"x":"not-a-number"},"b":{"x":7}}`)
	if got := Float(doc, Exact("a.x", "b.x"), -1); got != 7 {
		t.Errorf("Float() = %v, want 7", got)
	}
	if got := Float(doc, Exact("a.x"), -1); got != -1 {
		t.Errorf("Float() = %v, want fallback -1", got)
	}
}

func TestResolve_MalformedPathsAreNotFound(t *testing.T) {
	doc := mustParse(t, `{"a":{"b":1},"s":"text","arr":[10,20]}`)
	tests := []struct {
		name string
		path string
	}{
		{"Empty", ""},
		{"DoubleDot", "a..b"},
		{"TrailingDot", "a.b."},
		{"ThroughScalar", "s.length"},
		{"ThroughNumber", "a.b.c"},
		{"BadIndex", "arr.x"},
		{"OutOfRange", "arr.5"},
		{"Negative", "arr.-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Float(doc, Exact(tt.path), 42); got != 42 {
				t.Errorf("Float(%q) = %v, want fallback 42", tt.path, got)
			}
		})
	}
	if got := Float(doc, Exact("arr.1"), 0); got != 20 {
		t.Errorf("Float(arr.1) = %v, want 20", got)
	}
}

func TestResolve_NullSource(t *testing.T) {
	var doc Value
	if got := String(doc, Field("id"), "unknown"); got != "unknown" {
		t.Errorf("String() on null = %q, want unknown", got)
	}
	if got := Floats(doc, Field("bins")); got == nil || len(got) != 0 {
		t.Errorf("Floats() on null = %v, want empty non-nil slice", got)
	}
	if got := Items(doc, Field("cash_flows")); got == nil || len(got) != 0 {
		t.Errorf("Items() on null = %v, want empty non-nil slice", got)
	}
	if _, ok := ObjectAt(doc, Field("loan_performance")); ok {
		t.Error("ObjectAt() on null reported an object")
	}
	if got := Float(doc, nil, 3); got != 3 {
		t.Errorf("Float() with no paths = %v, want fallback 3", got)
	}
}

func TestConversions(t *testing.T) {
	doc := mustParse(t, `{"n":"12.5","i":"7.9","neg":-3.7,"b":"true","num":42,"huge":1e300}`)

	if got := Float(doc, Exact("n"), 0); got != 12.5 {
		t.Errorf("numeric string Float() = %v, want 12.5", got)
	}
	if got := Int(doc, Exact("i"), 0); got != 7 {
		t.Errorf("Int() = %v, want 7", got)
	}
	if got := Int(doc, Exact("neg"), 0); got != -3 {
		t.Errorf("Int() = %v, want -3", got)
	}
	if got := Int(doc, Exact("huge"), -1); got != -1 {
		t.Errorf("Int() on out-of-range = %v, want fallback", got)
	}
	if got := Bool(doc, Exact("b"), false); !got {
		t.Errorf("Bool() = %v, want true", got)
	}
	if got := String(doc, Exact("num"), ""); got != "42" {
		t.Errorf("String() on number = %q, want 42", got)
	}
}

func TestFloats_PreservesPositions(t *testing.T) {
	doc := mustParse(t, `{"xs":[1,"2",null,{"a":1},5]}`)
	want := []float64{1, 2, 0, 0, 5}
	if diff := cmp.Diff(want, Floats(doc, Exact("xs"))); diff != "" {
		t.Errorf("Floats() mismatch (-want +got):\n%s", diff)
	}
}

func TestSection(t *testing.T) {
	doc := mustParse(t, `{"a":5,"b":{"years":[1]},"c":[1]}`)
	if _, ok := Section(doc, Exact("a")); ok {
		t.Error("Section() accepted a number")
	}
	sec, ok := Section(doc, Exact("a", "b"))
	if !ok || sec.Kind() != KindObject {
		t.Errorf("Section() = %v, %v; want object", sec.Kind(), ok)
	}
}
