// Package pipeline runs the chart catalog over the health tracking dataset:
// load once, derive one aggregate per chart, write one PNG per chart.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/spektr-org/healthviz/engine"
	"github.com/spektr-org/healthviz/helpers"
	"github.com/spektr-org/healthviz/render"
	"github.com/spektr-org/healthviz/schema"
)

// ============================================================================
// RUN REPORT
// ============================================================================

// Artifact is one chart image written by a run.
type Artifact struct {
	Chart    string
	Path     string
	Table    string // CSV path, empty unless tables are written
	Rows     int
	Excluded int
}

// Failure is one chart that could not be produced.
type Failure struct {
	Chart string
	Err   error
}

// Report lists what a run produced.
type Report struct {
	RunID     string
	Schema    *schema.Config
	Artifacts []Artifact
	Failures  []Failure
}

// Err joins the chart failures, or returns nil when every chart was saved.
func (r *Report) Err() error {
	if r == nil || len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = fmt.Errorf("%s: %w", f.Chart, f.Err)
	}
	return errors.Join(errs...)
}

// ============================================================================
// RUNNER
// ============================================================================

const bannerWidth = 60

// ErrUnknownFilter is returned when a filter names a column that is not a
// dimension of the loaded dataset.
var ErrUnknownFilter = errors.New("filter key is not a dimension")

// Runner executes the chart catalog with one Config.
type Runner struct {
	cfg    Config
	out    io.Writer
	charts []engine.ChartSpec
}

// NewRunner creates a runner that prints confirmations to out.
func NewRunner(cfg Config, out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{cfg: cfg, out: out, charts: Charts()}
}

// Run prepares the directories, loads the dataset and produces every chart.
//
// Setup errors (bad config, directories, dataset) abort before any chart and
// are returned directly. Chart errors are collected in the report; the
// remaining charts still run unless FailFast is set. The returned error is
// non-nil whenever the report has failures.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := &Report{RunID: uuid.NewString()}

	if err := r.cfg.Validate(); err != nil {
		return report, fmt.Errorf("pipeline: config: %w", err)
	}
	if err := r.prepareDirs(); err != nil {
		return report, err
	}

	view, sch, err := helpers.LoadCSV(r.cfg.Dataset, schema.HealthOptions())
	if err != nil {
		return report, fmt.Errorf("pipeline: load dataset: %w", err)
	}
	report.Schema = sch
	r.logSchema(report.RunID, sch)

	if len(r.cfg.Filters) > 0 {
		if err := checkFilters(r.cfg.Filters, sch); err != nil {
			return report, err
		}
		view = engine.ApplyFilters(view, r.cfg.Filters)
		log.Printf("🔍 healthviz[%s]: %d records after filters %v", short(report.RunID), view.Len(), r.cfg.Filters)
	}

	fmt.Fprintln(r.out)
	for _, spec := range r.charts {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("pipeline: %w", err)
		}

		artifact, err := r.runChart(report.RunID, spec, view)
		if err != nil {
			report.Failures = append(report.Failures, Failure{Chart: spec.Name, Err: err})
			log.Printf("⚠️ healthviz[%s]: %s failed: %v", short(report.RunID), spec.Name, err)
			if r.cfg.FailFast {
				return report, report.Err()
			}
			continue
		}
		report.Artifacts = append(report.Artifacts, artifact)
	}

	r.printBanner()
	return report, report.Err()
}

func (r *Runner) prepareDirs() error {
	for _, dir := range []string{r.cfg.OutputDir, r.cfg.DataDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("pipeline: create %s: %w", dir, err)
		}
	}
	return nil
}

// runChart derives, renders and saves one chart.
func (r *Runner) runChart(runID string, spec engine.ChartSpec, view engine.RecordView) (Artifact, error) {
	result, err := engine.Execute(spec, view, r.cfg.EngineOptions()...)
	if err != nil {
		return Artifact{}, err
	}

	path := filepath.Join(r.cfg.OutputDir, spec.File)
	if err := render.Save(result.ChartConfig, path, r.cfg.RenderOptions()); err != nil {
		return Artifact{}, err
	}

	artifact := Artifact{Chart: spec.Name, Path: path, Rows: result.Rows, Excluded: result.Excluded}
	if r.cfg.WriteTables {
		artifact.Table = filepath.Join(r.cfg.OutputDir, tableFile(spec.File))
		if err := saveTable(artifact.Table, result.TableData); err != nil {
			return Artifact{}, err
		}
	}

	log.Printf("📊 healthviz[%s]: %s", short(runID), engine.Describe(result))
	for _, line := range tableLines(result.TableData, maxLoggedRows) {
		log.Printf("📋 healthviz[%s]: %s: %s", short(runID), spec.Name, line)
	}
	fmt.Fprintf(r.out, "%s saved to %s directory\n", spec.File, r.cfg.OutputDir)
	return artifact, nil
}

func (r *Runner) logSchema(runID string, sch *schema.Config) {
	log.Printf("🔍 healthviz[%s]: %s (%d rows, %d dims, %d measures, %d skipped)",
		short(runID), sch.Name, sch.Rows, len(sch.Dimensions), len(sch.Measures), len(sch.SkippedColumns))
	for _, line := range sch.Describe() {
		log.Printf("🔍 healthviz[%s]:   %s", short(runID), line)
	}

	if missing := sch.Missing(schema.HealthColumns...); len(missing) > 0 {
		log.Printf("⚠️ healthviz[%s]: dataset lacks columns %s", short(runID), strings.Join(missing, ", "))
	}
	if empty := sch.EmptyMeasures(); len(empty) > 0 {
		log.Printf("⚠️ healthviz[%s]: columns with no values: %s", short(runID), strings.Join(empty, ", "))
	}
}

// checkFilters rejects filter keys that are not dimensions of the dataset.
func checkFilters(filters map[string][]string, sch *schema.Config) error {
	known := make(map[string]bool, len(sch.Dimensions))
	for _, k := range sch.DimensionKeys() {
		known[k] = true
	}

	var unknown []string
	for k := range filters {
		if !known[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("pipeline: %w: %s (dimensions: %s)", ErrUnknownFilter,
		strings.Join(unknown, ", "), strings.Join(sch.DimensionKeys(), ", "))
}

func (r *Runner) printBanner() {
	stars := strings.Repeat("*", bannerWidth)
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, stars)
	fmt.Fprintf(r.out, "All done. Please check the graphs under /%s directory.\n", r.cfg.OutputDir)
	fmt.Fprintln(r.out, stars)
}

// short trims a run ID for log lines.
func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
