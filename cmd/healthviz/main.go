package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/spektr-org/healthviz/pipeline"
)

// ============================================================================
// HEALTHVIZ — five charts from a year of health tracking
// ============================================================================
// Runs without arguments. Paths and visual constants come from
// ./healthviz.yaml when present, otherwise from the built-in defaults.
// ============================================================================

func main() {
	cfg, err := pipeline.LoadConfig(pipeline.DefaultConfigFile)
	if err != nil {
		fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := pipeline.NewRunner(cfg, os.Stdout).Run(ctx)
	if err != nil {
		stop()
		fatalf("%v", err)
	}

	log.Printf("✅ healthviz: %d charts written to %s", len(report.Artifacts), cfg.OutputDir)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
