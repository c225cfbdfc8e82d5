package commands

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"fundview/internal/viewmodel"
	"fundview/internal/visuals"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	previewFormat  string
	previewNoOpen  bool
	previewLenient bool
)

var previewCmd = &cobra.Command{
	Use:   "preview [file|-]",
	Short: "Render a simulation document as Mermaid charts and open it",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "-"
		if len(args) == 1 {
			path = args[0]
		}
		raw, err := readDocument(cmd.InOrStdin(), path, previewLenient)
		if err != nil {
			return err
		}
		vm := viewmodel.NormalizeWith(raw, normalizeOptions(cfg.RepairParallelArrays))

		content, ext, err := renderPreview(vm, previewFormat)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
			return fmt.Errorf("failed to create cache dir: %w", err)
		}
		out := filepath.Join(cfg.CacheDir, "preview-"+fileSafe(vm.ID)+ext)
		if err := os.WriteFile(out, []byte(content), 0o644); err != nil {
			return fmt.Errorf("failed to write preview: %w", err)
		}
		log.Info().Str("path", out).Str("simulation", vm.ID).Msg("Preview written")
		fmt.Fprintln(cmd.OutOrStdout(), out)

		if previewNoOpen {
			return nil
		}
		browser.Stdout = cmd.ErrOrStderr()
		if err := browser.OpenFile(out); err != nil {
			log.Warn().Err(err).Msg("Could not open a browser")
		}
		return nil
	},
}

type previewSection struct {
	heading string
	chart   string
}

func previewSections(vm viewmodel.SimulationStore) []previewSection {
	h, d, lp := vm.HeadlineMetrics, vm.PortfolioDynamics, vm.LPCashFlows
	all := []previewSection{
		{"IRR", visuals.GenerateSummaryChart("IRR Percentiles", h.IRR)},
		{"IRR Distribution", visuals.GenerateDistributionChart(h.IRRDistribution)},
		{"Equity Multiple", visuals.GenerateSummaryChart("Equity Multiple Percentiles", h.EquityMultiple)},
		{"Equity Multiple Distribution", visuals.GenerateDistributionChart(h.EquityMultipleDistribution)},
		{"ROI Distribution", visuals.GenerateDistributionChart(h.ROIDistribution)},
		{"Portfolio NAV", visuals.GenerateFanChart("Portfolio NAV", "NAV", d.NAV)},
		{"Active Loans", visuals.GenerateFanChart("Active Loans", "Loans", d.ActiveLoans)},
		{"Cumulative Defaults", visuals.GenerateFanChart("Cumulative Defaults", "Defaults", d.CumulativeDefaults)},
		{"Cash Balance", visuals.GenerateFanChart("Cash Balance", "Cash", d.CashBalance)},
		{"Net LP Cash Flow", visuals.GenerateFanChart("Net LP Cash Flow", "Amount", lp.NetCashFlow)},
		{"Annual Cash Flows", visuals.GenerateCashFlowChart(vm.CashFlows)},
		{"Default Rate Distribution", visuals.GenerateDistributionChart(vm.RiskInsights.DefaultRateDistribution)},
		{"Allocation", visuals.GenerateAllocationPie(vm.PortfolioAllocation)},
	}
	sections := all[:0]
	for _, s := range all {
		if s.chart != "" {
			sections = append(sections, s)
		}
	}
	return sections
}

// renderPreview returns the document and its file extension.
func renderPreview(vm viewmodel.SimulationStore, format string) (string, string, error) {
	title := fmt.Sprintf("Simulation %s (%s)", vm.ID, vm.Status)
	sections := previewSections(vm)

	var sb strings.Builder
	switch strings.ToLower(format) {
	case "md", "markdown":
		sb.WriteString("# " + title + "\n\n")
		if len(sections) == 0 {
			sb.WriteString("No chartable data.\n")
		}
		for _, s := range sections {
			sb.WriteString("## " + s.heading + "\n\n" + s.chart + "\n\n")
		}
		return sb.String(), ".md", nil
	case "", "html":
		sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
		sb.WriteString("<title>" + html.EscapeString(title) + "</title>\n")
		sb.WriteString("<script type=\"module\">import mermaid from 'https://cdn.jsdelivr.net/npm/mermaid@11/dist/mermaid.esm.min.mjs'; mermaid.initialize({ startOnLoad: true });</script>\n")
		sb.WriteString("</head>\n<body>\n<h1>" + html.EscapeString(title) + "</h1>\n")
		if len(sections) == 0 {
			sb.WriteString("<p>No chartable data.</p>\n")
		}
		for _, s := range sections {
			sb.WriteString("<h2>" + html.EscapeString(s.heading) + "</h2>\n")
			sb.WriteString("<pre class=\"mermaid\">\n" + html.EscapeString(stripFence(s.chart)) + "</pre>\n")
		}
		sb.WriteString("</body>\n</html>\n")
		return sb.String(), ".html", nil
	}
	return "", "", fmt.Errorf("unknown preview format %q (want html or md)", format)
}

func stripFence(chart string) string {
	chart = strings.TrimPrefix(chart, "```mermaid\n")
	return strings.TrimSuffix(chart, "```")
}

func fileSafe(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, id)
}

func init() {
	previewCmd.Flags().StringVar(&previewFormat, "format", "html", "preview format: html or md")
	previewCmd.Flags().BoolVar(&previewNoOpen, "no-open", false, "write the preview without opening a browser")
	previewCmd.Flags().BoolVar(&previewLenient, "lenient", false, "repair malformed JSON before parsing")
	rootCmd.AddCommand(previewCmd)
}
