package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"fundview/cmd/mockgen/engine"
	"fundview/internal/results"
)

func main() {
	shape := flag.String("shape", engine.ShapeSectioned, "Document shape: "+strings.Join(engine.Shapes, ", "))
	scenario := flag.String("scenario", "mild", "Scenario to generate: mild, stressed, ragged")
	outDir := flag.String("out", "./cache", "Output directory (the cache dir fundview loads results.jsonl from)")
	count := flag.Int("count", 3, "Number of simulation documents to generate")
	paths := flag.Int("paths", 500, "Simulated paths per document")
	years := flag.Int("years", 8, "Fund life in years")
	seed := flag.Int64("seed", 1, "Random seed")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Shape:    *shape,
		Scenario: *scenario,
		Count:    *count,
		Paths:    *paths,
		Years:    *years,
		Seed:     *seed,
		Now:      time.Now(),
	}

	fmt.Printf("Generating %d '%s' documents (scenario: %s, paths: %d) to %s...\n", cfg.Count, cfg.Shape, cfg.Scenario, cfg.Paths, *outDir)

	docs, err := engine.Generate(cfg)
	if err != nil {
		fmt.Printf("Failed to generate mock data: %v\n", err)
		os.Exit(1)
	}

	path, err := engine.Save(*outDir, results.FileName, docs)
	if err != nil {
		fmt.Printf("Failed to save mock data: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Done: %s\n", path)
}
