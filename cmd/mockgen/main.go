package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"pfpulse/cmd/mockgen/engine"
)

func main() {
	seed := flag.Int64("seed", 42, "RNG seed; same seed, same workbook")
	projects := flag.Int("projects", 250, "Number of project rows to generate")
	consultants := flag.Int("consultants", 12, "Number of consultants on the roster")
	architects := flag.Int("architects", 4, "Number of solution architects")
	customers := flag.Int("customers", 8, "Number of distinct customers")
	outDir := flag.String("out", "./testdata", "Output directory for mock files")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Seed:        *seed,
		Projects:    *projects,
		Consultants: *consultants,
		Architects:  *architects,
		Customers:   *customers,
		Now:         time.Now(),
	}

	fmt.Printf("Generating %d projects (seed %d) to %s...\n", cfg.Projects, cfg.Seed, *outDir)

	ds := engine.Generate(cfg)
	if err := engine.Save(*outDir, ds); err != nil {
		fmt.Printf("Failed to save mock data: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Done.")
}
