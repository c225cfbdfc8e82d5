package mcp

import (
	"context"
	"fmt"
	"strings"

	"fundview/internal/adapter"
	"fundview/internal/rawdoc"
	"fundview/internal/viewmodel"
	"fundview/internal/visuals"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// maxParallelFetches bounds concurrent requests to the simulation service.
const maxParallelFetches = 4

func (s *Server) handleNormalizeDocument(ctx context.Context, req *sdk.CallToolRequest, args normalizeArgs) (*sdk.CallToolResult, any, error) {
	if strings.TrimSpace(args.Document) == "" {
		return nil, nil, fmt.Errorf("document is empty")
	}
	raw, err := rawdoc.ParseLenient([]byte(args.Document))
	if err != nil {
		return nil, nil, err
	}

	opts := s.opts.Normalize
	if args.RepairArrays {
		opts.Parity = viewmodel.ParityRepair
	}
	vm := viewmodel.NormalizeWith(raw, opts)
	s.report(vm)

	if vm.ID != viewmodel.Unknown {
		s.results.Put(raw)
	}
	log.Info().Str("simulation_id", vm.ID).Str("status", vm.Status).Msg("Normalized document")
	return s.result(vm, overviewCharts(vm)...), nil, nil
}

func (s *Server) handleFetchSimulation(ctx context.Context, req *sdk.CallToolRequest, args fetchArgs) (*sdk.CallToolResult, any, error) {
	if args.SimulationID == "" {
		return nil, nil, fmt.Errorf("simulation_id is required")
	}
	if args.StatusOnly {
		raw, err := s.client.GetStatus(ctx, args.SimulationID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to fetch status of %s: %w", args.SimulationID, err)
		}
		return s.result(viewmodel.NormalizeWith(raw, s.opts.Normalize)), nil, nil
	}

	vm, err := s.fetch(ctx, args.SimulationID)
	if err != nil {
		return nil, nil, err
	}
	return s.result(vm, overviewCharts(vm)...), nil, nil
}

type distributionResult struct {
	SimulationID string                    `json:"simulationId"`
	Distribution adapter.DispersionData    `json:"distribution"`
	Summary      adapter.PercentileSummary `json:"summary"`
	Observations float64                   `json:"observations"`
}

func (s *Server) handleGetDistribution(ctx context.Context, req *sdk.CallToolRequest, args distributionArgs) (*sdk.CallToolResult, any, error) {
	vm, err := s.lookup(ctx, args.SimulationID)
	if err != nil {
		return nil, nil, err
	}
	dist, summary, ok := distribution(vm, args.Metric)
	if !ok {
		return nil, nil, fmt.Errorf("unknown metric %q (use irr, equity_multiple, roi or default_rate)", args.Metric)
	}
	res := distributionResult{
		SimulationID: vm.ID,
		Distribution: dist,
		Summary:      summary,
		Observations: dist.Total(),
	}
	return s.result(res, visuals.GenerateDistributionChart(dist), visuals.GenerateSummaryChart(dist.Metric, summary)), nil, nil
}

type fanChartResult struct {
	SimulationID string               `json:"simulationId"`
	Series       string               `json:"series"`
	FanChart     adapter.FanChartData `json:"fanChart"`
	Issues       []adapter.Issue      `json:"issues,omitempty"`
}

func (s *Server) handleGetFanChart(ctx context.Context, req *sdk.CallToolRequest, args fanChartArgs) (*sdk.CallToolResult, any, error) {
	vm, err := s.lookup(ctx, args.SimulationID)
	if err != nil {
		return nil, nil, err
	}
	series, title, ok := fanChart(vm, args.Series)
	if !ok {
		return nil, nil, fmt.Errorf("unknown series %q", args.Series)
	}
	res := fanChartResult{
		SimulationID: vm.ID,
		Series:       args.Series,
		FanChart:     series,
		Issues:       adapter.CheckFanChart(args.Series, series),
	}
	return s.result(res, visuals.GenerateFanChart(title, title, series)), nil, nil
}

func (s *Server) handleCompareSimulations(ctx context.Context, req *sdk.CallToolRequest, args compareArgs) (*sdk.CallToolResult, any, error) {
	if len(args.SimulationIDs) == 0 {
		return nil, nil, fmt.Errorf("simulation_ids must not be empty")
	}

	stores := make([]viewmodel.SimulationStore, len(args.SimulationIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFetches)
	for i, id := range args.SimulationIDs {
		g.Go(func() error {
			vm, err := s.lookup(gctx, id)
			if err != nil {
				return err
			}
			stores[i] = vm
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	comparison := viewmodel.Compare(stores)
	return s.result(comparison, visuals.GenerateComparisonChart(comparison)), nil, nil
}

type listedSimulation struct {
	ID        string  `json:"id"`
	Name      string  `json:"name,omitempty"`
	Status    string  `json:"status"`
	Progress  float64 `json:"progress"`
	UpdatedAt string  `json:"updatedAt,omitempty"`
}

func (s *Server) handleListSimulations(ctx context.Context, req *sdk.CallToolRequest, args listArgs) (*sdk.CallToolResult, any, error) {
	docs, err := s.client.ListSimulations(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list simulations: %w", err)
	}
	out := make([]listedSimulation, 0, len(docs))
	for _, doc := range docs {
		vm := viewmodel.Normalize(doc)
		out = append(out, listedSimulation{
			ID:        vm.ID,
			Name:      vm.Name,
			Status:    vm.Status,
			Progress:  vm.Progress,
			UpdatedAt: vm.UpdatedAt,
		})
	}
	return s.result(out), nil, nil
}
