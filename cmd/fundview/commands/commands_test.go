package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fundview/internal/rawdoc"
	"fundview/internal/viewmodel"
)

const sampleDoc = `{
  "id": "s1",
  "status": "completed",
  "headline_metrics": {"irr": {"p5": -0.02, "p25": 0.05, "p50": 0.09, "p75": 0.12, "p95": 0.18}},
  "waterfall_results": {"lp_irr": 0.14},
  "cash_flows": [{"year": 1, "capital_calls": 100, "distributions": 0}]
}`

func TestReadDocument(t *testing.T) {
	dir := t.TempDir()
	hjsonPath := filepath.Join(dir, "doc.hjson")
	if err := os.WriteFile(hjsonPath, []byte("{\n  # hand written\n  id: h1\n  status: running\n}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		stdin   string
		path    string
		lenient bool
		wantID  string
		wantErr bool
	}{
		{"Stdin", sampleDoc, "-", false, "s1", false},
		{"Hjson", "", hjsonPath, false, "h1", false},
		{"StrictRejectsDamage", `{"id":"s2",}`, "-", false, "", true},
		{"LenientRepairsDamage", `{"id":"s2",}`, "-", true, "s2", false},
		{"Empty", "  \n", "-", true, "", true},
		{"MissingFile", "", filepath.Join(dir, "nope.json"), false, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := readDocument(strings.NewReader(tt.stdin), tt.path, tt.lenient)
			if (err != nil) != tt.wantErr {
				t.Fatalf("readDocument() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got := rawdoc.String(raw, rawdoc.Field("id"), ""); got != tt.wantID {
				t.Errorf("id = %q, want %q", got, tt.wantID)
			}
		})
	}
}

func TestWriteStore_JSON(t *testing.T) {
	raw, err := rawdoc.Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := writeStore(&buf, viewmodel.Normalize(raw), "json"); err != nil {
		t.Fatalf("writeStore() failed: %v", err)
	}

	back, err := rawdoc.Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got := rawdoc.Float(back, rawdoc.Exact("metrics.lpIrr"), 0); got != 0.14 {
		t.Errorf("metrics.lpIrr = %v, want 0.14", got)
	}
}

func TestWriteStore_YAMLKeepsJSONKeys(t *testing.T) {
	raw, err := rawdoc.Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := writeStore(&buf, viewmodel.Normalize(raw), "yaml"); err != nil {
		t.Fatalf("writeStore() failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{"id: s1\n", "status: completed\n", "headlineMetrics:\n", "lpIrr: 0.14\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("yaml output missing %q", want)
		}
	}
	if strings.Index(out, "id:") > strings.Index(out, "headlineMetrics:") {
		t.Errorf("yaml keys are not in view model order")
	}
	if strings.Contains(out, "{") {
		t.Errorf("yaml output contains flow mappings")
	}
}

func TestToYAML_QuotesAmbiguousStrings(t *testing.T) {
	out, err := toYAML(map[string]string{"id": "true"})
	if err != nil {
		t.Fatalf("toYAML() failed: %v", err)
	}
	if got, want := string(out), "id: \"true\"\n"; got != want {
		t.Errorf("toYAML() = %q, want %q", got, want)
	}
}

func TestWriteStore_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := writeStore(&buf, viewmodel.Normalize(rawdoc.Value{}), "xml"); err == nil {
		t.Error("writeStore() with format xml succeeded, want error")
	}
}

func TestNormalizeOptions(t *testing.T) {
	if got := normalizeOptions(false).Parity; got != viewmodel.ParityPassThrough {
		t.Errorf("normalizeOptions(false).Parity = %v, want pass-through", got)
	}
	if got := normalizeOptions(true).Parity; got != viewmodel.ParityRepair {
		t.Errorf("normalizeOptions(true).Parity = %v, want repair", got)
	}
}

func TestStoreSchema(t *testing.T) {
	schema, err := storeSchema()
	if err != nil {
		t.Fatalf("storeSchema() failed: %v", err)
	}
	for _, key := range []string{"id", "headlineMetrics", "lpCashFlows", "metrics", "cashFlows", "raw"} {
		if _, ok := schema.Properties[key]; !ok {
			t.Errorf("schema has no property %q", key)
		}
	}
	if raw := schema.Properties["raw"]; raw.Type != "" || len(raw.Types) != 0 {
		t.Errorf("raw schema type = %q %v, want unconstrained", raw.Type, raw.Types)
	}
}

func TestRenderPreview(t *testing.T) {
	raw, err := rawdoc.Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}
	vm := viewmodel.Normalize(raw)

	t.Run("HTML", func(t *testing.T) {
		out, ext, err := renderPreview(vm, "html")
		if err != nil {
			t.Fatalf("renderPreview() failed: %v", err)
		}
		if ext != ".html" {
			t.Errorf("ext = %q, want .html", ext)
		}
		if !strings.Contains(out, `<pre class="mermaid">`) {
			t.Error("html preview has no mermaid block")
		}
		if strings.Contains(out, "```") {
			t.Error("html preview still contains markdown fences")
		}
		if !strings.Contains(out, "Simulation s1 (completed)") {
			t.Error("html preview has no title")
		}
	})

	t.Run("Markdown", func(t *testing.T) {
		out, ext, err := renderPreview(vm, "md")
		if err != nil {
			t.Fatalf("renderPreview() failed: %v", err)
		}
		if ext != ".md" {
			t.Errorf("ext = %q, want .md", ext)
		}
		if !strings.Contains(out, "## IRR\n\n```mermaid") {
			t.Error("markdown preview has no IRR chart")
		}
		if !strings.Contains(out, "## Annual Cash Flows") {
			t.Error("markdown preview has no cash flow chart")
		}
	})

	t.Run("EmptyDocument", func(t *testing.T) {
		out, _, err := renderPreview(viewmodel.Normalize(rawdoc.Value{}), "md")
		if err != nil {
			t.Fatalf("renderPreview() failed: %v", err)
		}
		if !strings.Contains(out, "No chartable data.") {
			t.Errorf("empty preview = %q, want placeholder", out)
		}
	})

	t.Run("UnknownFormat", func(t *testing.T) {
		if _, _, err := renderPreview(vm, "pdf"); err == nil {
			t.Error("renderPreview() with format pdf succeeded, want error")
		}
	})
}

func TestFileSafe(t *testing.T) {
	if got, want := fileSafe("../sim 1/x"), "___sim_1_x"; got != want {
		t.Errorf("fileSafe() = %q, want %q", got, want)
	}
}
