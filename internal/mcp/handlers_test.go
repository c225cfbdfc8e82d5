package mcp

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"fundview/internal/diagnostics"
	"fundview/internal/rawdoc"
	"fundview/internal/results"
	"fundview/internal/simclient"
	"fundview/internal/viewmodel"

	"github.com/goccy/go-json"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
)

type fakeClient struct {
	mu      sync.Mutex
	docs    map[string]string
	calls   map[string]int
	listDoc string
}

func (f *fakeClient) get(id string) (rawdoc.Value, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[id]++
	doc, ok := f.docs[id]
	if !ok {
		return rawdoc.Value{}, simclient.ErrNotFound
	}
	return rawdoc.Parse([]byte(doc))
}

func (f *fakeClient) GetResults(ctx context.Context, id string) (rawdoc.Value, error) {
	return f.get(id)
}

func (f *fakeClient) GetStatus(ctx context.Context, id string) (rawdoc.Value, error) {
	return f.get(id)
}

func (f *fakeClient) ListSimulations(ctx context.Context) ([]rawdoc.Value, error) {
	v, err := rawdoc.Parse([]byte(f.listDoc))
	if err != nil {
		return nil, err
	}
	items, _ := v.Array()
	return items, nil
}

func newTestServer(client simclient.Client, charts bool) *Server {
	return NewServer(
		client,
		results.NewStore(viewmodel.Options{}),
		diagnostics.NewRecorder(zerolog.Nop()),
		Options{MermaidCharts: charts},
	)
}

func text(t *testing.T, res *sdk.CallToolResult, i int) string {
	t.Helper()
	if len(res.Content) <= i {
		t.Fatalf("result has %d content blocks, want > %d", len(res.Content), i)
	}
	tc, ok := res.Content[i].(*sdk.TextContent)
	if !ok {
		t.Fatalf("content %d is %T, want *TextContent", i, res.Content[i])
	}
	return tc.Text
}

func decode(t *testing.T, s string, into any) {
	t.Helper()
	if err := json.Unmarshal([]byte(s), into); err != nil {
		t.Fatalf("Unmarshal(%s) failed: %v", s, err)
	}
}

func TestHandleNormalizeDocument(t *testing.T) {
	s := newTestServer(&fakeClient{}, false)
	res, _, err := s.handleNormalizeDocument(context.Background(), nil, normalizeArgs{
		Document: `{"id":"s1","status":"completed","waterfall_results":{"lp_irr":0.14},}`,
	})
	if err != nil {
		t.Fatalf("handleNormalizeDocument() error = %v", err)
	}

	var vm viewmodel.SimulationStore
	decode(t, text(t, res, 0), &vm)
	if vm.ID != "s1" || vm.Metrics.LPIRR != 0.14 {
		t.Errorf("view model = %s/%v", vm.ID, vm.Metrics.LPIRR)
	}
	if len(res.Content) != 1 {
		t.Errorf("charts disabled but got %d blocks", len(res.Content))
	}
	if _, ok := s.results.Get("s1"); !ok {
		t.Error("normalized document with id was not stored")
	}
}

func TestHandleNormalizeDocument_Errors(t *testing.T) {
	s := newTestServer(&fakeClient{}, false)
	for _, doc := range []string{"", "   ", "hello world", "<html>oops</html>", "}{"} {
		if _, _, err := s.handleNormalizeDocument(context.Background(), nil, normalizeArgs{Document: doc}); err == nil {
			t.Errorf("handleNormalizeDocument(%q) error = nil", doc)
		}
	}
}

func TestHandleNormalizeDocument_RepairArrays(t *testing.T) {
	s := newTestServer(&fakeClient{}, false)
	res, _, err := s.handleNormalizeDocument(context.Background(), nil, normalizeArgs{
		Document:     `{"distributions":{"irr":{"bins":[1,2,3],"counts":[4]}}}`,
		RepairArrays: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	var vm viewmodel.SimulationStore
	decode(t, text(t, res, 0), &vm)
	if len(vm.HeadlineMetrics.IRRDistribution.Bins) != 1 {
		t.Errorf("bins = %v, want 1 entry", vm.HeadlineMetrics.IRRDistribution.Bins)
	}
	if s.results.Len() != 0 {
		t.Error("document without id should not be stored")
	}
}

func TestHandleGetDistribution_WithCharts(t *testing.T) {
	client := &fakeClient{docs: map[string]string{
		"s1": `{"id":"s1","headline_metrics":{"irr":{"p50":0.1},"irr_distribution":{"bins":[0,0.1],"counts":[3,7]}}}`,
	}}
	s := newTestServer(client, true)

	for _, metric := range []string{"irr", "IRR"} {
		res, _, err := s.handleGetDistribution(context.Background(), nil, distributionArgs{SimulationID: "s1", Metric: metric})
		if err != nil {
			t.Fatalf("handleGetDistribution(%s) error = %v", metric, err)
		}
		var got distributionResult
		decode(t, text(t, res, 0), &got)
		if got.Observations != 10 || got.Summary.P50 != 0.1 {
			t.Errorf("result = %+v", got)
		}
		if !strings.Contains(text(t, res, 1), "```mermaid") {
			t.Error("missing histogram chart")
		}
	}
	if client.calls["s1"] != 1 {
		t.Errorf("service calls = %d, want 1 (second lookup served from store)", client.calls["s1"])
	}

	if _, _, err := s.handleGetDistribution(context.Background(), nil, distributionArgs{SimulationID: "s1", Metric: "sharpe"}); err == nil {
		t.Error("unknown metric: want error")
	}
}

func TestHandleGetFanChart(t *testing.T) {
	client := &fakeClient{docs: map[string]string{
		"s1": `{"id":"s1","fan_charts":{"cash_balance":{"years":[1,2],"p50":[5,6,7]}}}`,
	}}
	s := newTestServer(client, false)

	res, _, err := s.handleGetFanChart(context.Background(), nil, fanChartArgs{SimulationID: "s1", Series: "cashBalance"})
	if err != nil {
		t.Fatalf("handleGetFanChart() error = %v", err)
	}
	var got fanChartResult
	decode(t, text(t, res, 0), &got)
	if len(got.FanChart.P50) != 3 || len(got.Issues) != 1 {
		t.Errorf("result = %+v", got)
	}

	if _, _, err := s.handleGetFanChart(context.Background(), nil, fanChartArgs{SimulationID: "s1", Series: "volatility"}); err == nil {
		t.Error("unknown series: want error")
	}
}

func TestHandleFetchSimulation(t *testing.T) {
	client := &fakeClient{docs: map[string]string{"s1": `{"status":"running","progress":0.5}`}}
	s := newTestServer(client, false)

	res, _, err := s.handleFetchSimulation(context.Background(), nil, fetchArgs{SimulationID: "s1", StatusOnly: true})
	if err != nil {
		t.Fatalf("handleFetchSimulation() error = %v", err)
	}
	var vm viewmodel.SimulationStore
	decode(t, text(t, res, 0), &vm)
	if vm.Status != "running" || vm.Progress != 0.5 {
		t.Errorf("status = %s/%v", vm.Status, vm.Progress)
	}

	res, _, err = s.handleFetchSimulation(context.Background(), nil, fetchArgs{SimulationID: "s1"})
	if err != nil {
		t.Fatal(err)
	}
	decode(t, text(t, res, 0), &vm)
	if vm.ID != "s1" {
		t.Errorf("ID = %q, want requested id s1", vm.ID)
	}

	_, _, err = s.handleFetchSimulation(context.Background(), nil, fetchArgs{SimulationID: "missing"})
	if !errors.Is(err, simclient.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestHandleCompareSimulations(t *testing.T) {
	client := &fakeClient{docs: map[string]string{
		"a": `{"id":"a","headline_metrics":{"irr":{"p50":0.1}}}`,
		"b": `{"id":"b","headline_metrics":{"irr":{"p50":0.2}}}`,
		"c": `{"id":"c","metrics":{"irr_summary":{"p50":0.15}}}`,
	}}
	s := newTestServer(client, false)

	res, _, err := s.handleCompareSimulations(context.Background(), nil, compareArgs{SimulationIDs: []string{"c", "a", "b"}})
	if err != nil {
		t.Fatalf("handleCompareSimulations() error = %v", err)
	}
	var got viewmodel.Comparison
	decode(t, text(t, res, 0), &got)
	var ids []string
	for _, r := range got.Rows {
		ids = append(ids, r.ID)
	}
	if strings.Join(ids, ",") != "c,a,b" {
		t.Errorf("row order = %v, want input order", ids)
	}

	if _, _, err := s.handleCompareSimulations(context.Background(), nil, compareArgs{SimulationIDs: []string{"a", "nope"}}); err == nil {
		t.Error("missing simulation: want error")
	}
	if _, _, err := s.handleCompareSimulations(context.Background(), nil, compareArgs{}); err == nil {
		t.Error("empty ids: want error")
	}
}

func TestHandleListSimulations(t *testing.T) {
	client := &fakeClient{listDoc: `[{"simulationId":"a","state":"queued"},{"id":"b","status":"completed","progress":1}]`}
	s := newTestServer(client, false)

	res, _, err := s.handleListSimulations(context.Background(), nil, listArgs{})
	if err != nil {
		t.Fatal(err)
	}
	var got []listedSimulation
	decode(t, text(t, res, 0), &got)
	if len(got) != 2 || got[0].ID != "a" || got[0].Status != "queued" || got[1].Progress != 1 {
		t.Errorf("list = %+v", got)
	}
}

func TestLookup_DocumentWithoutIDIsKept(t *testing.T) {
	client := &fakeClient{docs: map[string]string{"s7": `{"status":"completed","metrics":{"irr":0.3}}`}}
	s := newTestServer(client, false)

	for range 3 {
		vm, err := s.lookup(context.Background(), "s7")
		if err != nil {
			t.Fatalf("lookup() error = %v", err)
		}
		if vm.ID != "s7" {
			t.Errorf("ID = %q, want s7", vm.ID)
		}
	}
	if got := client.calls["s7"]; got != 1 {
		t.Errorf("fetches = %d, want 1", got)
	}
}
