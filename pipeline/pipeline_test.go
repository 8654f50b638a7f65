package pipeline

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/spektr-org/healthviz/engine"
)

// ============================================================================
// FIXTURES
// ============================================================================

var trackingCSV = []byte(`date,gender,steps,heart_rate_avg,sleep_hours,calories_burned,exercise_minutes,stress_level,weight_kg,bmi
2024-01-01,Female,8234,72,7.5,2310,45,3,61.2,22.1
2024-01-02,Male,10412,78,6.0,2875,60,5,82.4,26.3
2024-01-03,Female,5120,69,8.1,1980,15,2,60.9,17.9
2024-01-04,Male,12050,81,5.5,3020,75,7,95.0,31.2
2024-01-05,,7310,74,7.0,2200,30,4,70.3,
2024-01-06,Female,9020,76,6.4,2440,50,6,63.0,23.4
`)

// Same rows without the bmi column.
var noBMICSV = []byte(`date,gender,steps,heart_rate_avg,sleep_hours,calories_burned,exercise_minutes,stress_level,weight_kg
2024-01-01,Female,8234,72,7.5,2310,45,3,61.2
2024-01-02,Male,10412,78,6.0,2875,60,5,82.4
2024-01-03,Female,5120,69,8.1,1980,15,2,60.9
`)

// Infinite cells parse as numbers but plot as nulls.
var infCSV = []byte(`date,gender,steps,heart_rate_avg,sleep_hours,calories_burned,exercise_minutes,stress_level,weight_kg,bmi
2024-01-01,Female,8234,72,7.5,2310,45,3,61.2,22.1
2024-01-02,Male,10412,78,6.0,2875,inf,5,82.4,26.3
2024-01-03,Female,5120,69,8.1,1980,15,2,60.9,-inf
2024-01-04,Male,12050,81,5.5,3020,75,7,95.0,31.2
`)

func testConfig(t *testing.T, data []byte) Config {
	t.Helper()
	root := t.TempDir()

	cfg := DefaultConfig()
	cfg.DataDir = filepath.Join(root, "data")
	cfg.OutputDir = filepath.Join(root, "charts")
	cfg.Dataset = filepath.Join(root, "tracking.csv")
	cfg.Width, cfg.Height = 400, 300

	if data != nil {
		if err := os.WriteFile(cfg.Dataset, data, 0o644); err != nil {
			t.Fatalf("write dataset: %v", err)
		}
	}
	return cfg
}

func excludedByChart(report *Report) map[string]int {
	excluded := map[string]int{}
	for _, a := range report.Artifacts {
		excluded[a.Chart] = a.Excluded
	}
	return excluded
}

func failedCharts(report *Report) []string {
	var failed []string
	for _, f := range report.Failures {
		failed = append(failed, f.Chart)
	}
	return failed
}

// captureLog redirects the standard logger for the rest of the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(prev) })
	return &buf
}

// ============================================================================
// RUNNER TESTS
// ============================================================================

func TestRunWritesEveryChart(t *testing.T) {
	cfg := testConfig(t, trackingCSV)
	var out bytes.Buffer

	report, err := NewRunner(cfg, &out).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(report.Artifacts) != 5 || len(report.Failures) != 0 {
		t.Fatalf("got %d artifacts, %d failures; want 5, 0", len(report.Artifacts), len(report.Failures))
	}
	if report.RunID == "" {
		t.Error("run ID should be set")
	}
	if report.Schema.Rows != 6 {
		t.Errorf("schema rows = %d, want 6", report.Schema.Rows)
	}

	for _, spec := range Charts() {
		path := filepath.Join(cfg.OutputDir, spec.File)
		info, err := os.Stat(path)
		if err != nil {
			t.Errorf("%s: %v", spec.File, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", spec.File)
		}
		assertContains(t, out.String(), spec.File+" saved to "+cfg.OutputDir+" directory")
	}

	if dir, err := os.Stat(cfg.DataDir); err != nil || !dir.IsDir() {
		t.Errorf("data directory not created: %v", err)
	}

	stars := strings.Repeat("*", 60)
	assertContains(t, out.String(), stars+"\nAll done. Please check the graphs under /"+cfg.OutputDir+" directory.\n"+stars+"\n")
}

func TestRunReportsExcludedRows(t *testing.T) {
	cfg := testConfig(t, trackingCSV)

	report, err := NewRunner(cfg, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := map[string]int{"scatter": 0, "gender_bar": 1, "correlation": 0, "bubble": 0, "bmi_pie": 1}
	if diff := cmp.Diff(want, excludedByChart(report)); diff != "" {
		t.Errorf("excluded rows mismatch (-want +got):\n%s", diff)
	}
}

func TestRunTreatsInfinityAsNull(t *testing.T) {
	cfg := testConfig(t, infCSV)

	report, err := NewRunner(cfg, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(report.Artifacts) != 5 {
		t.Fatalf("got %d artifacts, want 5", len(report.Artifacts))
	}
	if missing := report.Schema.Missing("exercise_minutes", "bmi"); len(missing) != 0 {
		t.Errorf("infinite cells changed column types: %v", missing)
	}

	want := map[string]int{"scatter": 1, "gender_bar": 0, "correlation": 0, "bubble": 1, "bmi_pie": 1}
	if diff := cmp.Diff(want, excludedByChart(report)); diff != "" {
		t.Errorf("excluded rows mismatch (-want +got):\n%s", diff)
	}
}

func TestRunMissingDataset(t *testing.T) {
	cfg := testConfig(t, nil)

	report, err := NewRunner(cfg, nil).Run(context.Background())
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want os.ErrNotExist", err)
	}
	if len(report.Artifacts) != 0 {
		t.Errorf("got %d artifacts for a missing dataset", len(report.Artifacts))
	}

	// directories are prepared before the load
	if _, err := os.Stat(cfg.OutputDir); err != nil {
		t.Errorf("output directory not created: %v", err)
	}
}

func TestRunIsolatesChartFailures(t *testing.T) {
	cfg := testConfig(t, noBMICSV)
	var out bytes.Buffer

	report, err := NewRunner(cfg, &out).Run(context.Background())
	if !errors.Is(err, engine.ErrMissingColumn) {
		t.Fatalf("err = %v, want ErrMissingColumn", err)
	}

	if diff := cmp.Diff([]string{"correlation", "bmi_pie"}, failedCharts(report)); diff != "" {
		t.Errorf("failed charts mismatch (-want +got):\n%s", diff)
	}
	if len(report.Artifacts) != 3 {
		t.Errorf("got %d artifacts, want 3", len(report.Artifacts))
	}

	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "bubble_cart_heart_rate.png")); err != nil {
		t.Errorf("charts after a failure still run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "correlation_heatmap.png")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("failed chart left a file behind: %v", err)
	}
	assertContains(t, out.String(), "All done.")
}

func TestRunFailFast(t *testing.T) {
	cfg := testConfig(t, noBMICSV)
	cfg.FailFast = true
	var out bytes.Buffer

	report, err := NewRunner(cfg, &out).Run(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
	if len(report.Artifacts) != 2 {
		t.Errorf("got %d artifacts, want 2", len(report.Artifacts))
	}
	if diff := cmp.Diff([]string{"correlation"}, failedCharts(report)); diff != "" {
		t.Errorf("failed charts mismatch (-want +got):\n%s", diff)
	}
	if strings.Contains(out.String(), "All done.") {
		t.Error("banner printed after a fail-fast stop")
	}
}

func TestRunAppliesFilters(t *testing.T) {
	cfg := testConfig(t, trackingCSV)
	cfg.Filters = map[string][]string{"gender": {"female"}}

	report, err := NewRunner(cfg, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	for _, a := range report.Artifacts {
		if a.Rows != 3 {
			t.Errorf("%s: rows = %d, want 3", a.Chart, a.Rows)
		}
	}
}

func TestRunRejectsUnknownFilterKeys(t *testing.T) {
	tests := []struct {
		name    string
		filters map[string][]string
	}{
		{"absent column", map[string][]string{"gendr": {"Female"}}},
		{"measure column", map[string][]string{"bmi": {"22.1"}}},
		{"one bad key among good", map[string][]string{"gender": {"Male"}, "region": {"EU"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t, trackingCSV)
			cfg.Filters = tt.filters
			var out bytes.Buffer

			report, err := NewRunner(cfg, &out).Run(context.Background())
			if !errors.Is(err, ErrUnknownFilter) {
				t.Fatalf("err = %v, want ErrUnknownFilter", err)
			}
			if len(report.Artifacts) != 0 || len(report.Failures) != 0 {
				t.Errorf("no chart should run, got %d artifacts, %d failures", len(report.Artifacts), len(report.Failures))
			}
			if strings.Contains(out.String(), "saved to") {
				t.Error("a chart was written despite the bad filter")
			}
		})
	}
}

func TestCheckFiltersNamesUnknownKeys(t *testing.T) {
	cfg := testConfig(t, trackingCSV)
	report, err := NewRunner(cfg, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	err = checkFilters(map[string][]string{"zone": nil, "gender": nil, "age": nil}, report.Schema)
	if !errors.Is(err, ErrUnknownFilter) {
		t.Fatalf("err = %v, want ErrUnknownFilter", err)
	}
	assertContains(t, err.Error(), "age, zone (dimensions: date, gender)")

	if err := checkFilters(map[string][]string{"date": {"2024-01-01"}}, report.Schema); err != nil {
		t.Errorf("date is a dimension: %v", err)
	}
}

func TestRunLogsSchemaAndTables(t *testing.T) {
	logs := captureLog(t)
	cfg := testConfig(t, trackingCSV)

	if _, err := NewRunner(cfg, nil).Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	got := logs.String()
	assertContains(t, got, "gender (Gender): dimension, low cardinality, nulls=1 [Female, Male]")
	assertContains(t, got, "date (Date): dimension, low cardinality, temporal yyyy-MM-dd")
	assertContains(t, got, "calories_burned (Calories Burned): measure in kcal")
	assertContains(t, got, "bmi (Bmi): measure in kg/m², nulls=1")

	assertContains(t, got, "bmi_pie: Bmi Category | Count")
	assertContains(t, got, "bmi_pie: Normal | 2")
	assertContains(t, got, "bmi_pie: Total (4 groups) | 5")
	assertContains(t, got, "gender_bar: Female |")
}

func TestRunWritesTables(t *testing.T) {
	cfg := testConfig(t, trackingCSV)
	cfg.WriteTables = true

	report, err := NewRunner(cfg, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	var pie Artifact
	for _, a := range report.Artifacts {
		if a.Table == "" {
			t.Errorf("%s: no table written", a.Chart)
		}
		if a.Chart == "bmi_pie" {
			pie = a
		}
	}
	if want := filepath.Join(cfg.OutputDir, "bmi_category_distribution.csv"); pie.Table != want {
		t.Fatalf("pie table = %q, want %q", pie.Table, want)
	}

	f, err := os.Open(pie.Table)
	if err != nil {
		t.Fatalf("open table: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read table: %v", err)
	}

	if diff := cmp.Diff([]string{"Bmi Category", "Count"}, rows[0]); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Normal", "2"}, rows[1]); diff != "" {
		t.Errorf("first row mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Total (4 groups)", "5"}, rows[len(rows)-1]); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestRunCanceled(t *testing.T) {
	cfg := testConfig(t, trackingCSV)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := NewRunner(cfg, nil).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if len(report.Artifacts) != 0 {
		t.Errorf("got %d artifacts after cancel", len(report.Artifacts))
	}
}

func TestRunInvalidConfig(t *testing.T) {
	cfg := testConfig(t, trackingCSV)
	cfg.BubbleAlpha = 2

	if _, err := NewRunner(cfg, nil).Run(context.Background()); err == nil {
		t.Fatal("expected a config error")
	}
	if _, err := os.Stat(cfg.OutputDir); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("nothing is created for a bad config: %v", err)
	}
}

// ============================================================================
// CATALOG TESTS
// ============================================================================

func TestChartsCatalog(t *testing.T) {
	charts := Charts()
	files := make([]string, len(charts))
	for i, c := range charts {
		files[i] = c.File
	}
	want := []string{
		"scatter_exercise_calories.png",
		"bar_exercise_cal.png",
		"correlation_heatmap.png",
		"bubble_cart_heart_rate.png",
		"bmi_category_distribution.png",
	}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Errorf("chart files mismatch (-want +got):\n%s", diff)
	}

	// callers get their own copy
	charts[2].Measures[0] = "changed"
	if got := Charts()[2].Measures[0]; got != "steps" {
		t.Errorf("catalog mutated through a copy: %q", got)
	}
	if CorrelationColumns[0] != "steps" {
		t.Errorf("correlation columns mutated: %q", CorrelationColumns[0])
	}
}

// ============================================================================
// TABLE TESTS
// ============================================================================

var genderTable = &engine.TableData{
	Columns: []engine.Column{{Key: "group", Label: "Gender"}, {Key: "count", Label: "Count"}},
	Rows:    [][]string{{"Female", "3"}, {"Male", "2"}},
	Summary: &engine.Summary{Label: "Total", Values: map[string]string{"count": "5"}},
}

func TestWriteTableCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTableCSV(&buf, genderTable); err != nil {
		t.Fatalf("WriteTableCSV failed: %v", err)
	}
	if got, want := buf.String(), "Gender,Count\nFemale,3\nMale,2\nTotal,5\n"; got != want {
		t.Errorf("table CSV = %q, want %q", got, want)
	}

	buf.Reset()
	if err := WriteTableCSV(&buf, nil); err != nil {
		t.Fatalf("WriteTableCSV(nil) failed: %v", err)
	}
	if got, want := buf.String(), "Result,No data\n"; got != want {
		t.Errorf("empty table CSV = %q, want %q", got, want)
	}
}

func TestTableLines(t *testing.T) {
	want := []string{"Gender | Count", "Female | 3", "Male | 2", "Total | 5"}
	if diff := cmp.Diff(want, tableLines(genderTable, maxLoggedRows)); diff != "" {
		t.Errorf("table lines mismatch (-want +got):\n%s", diff)
	}

	want = []string{"Gender | Count", "Female | 3", "... 1 more rows", "Total | 5"}
	if diff := cmp.Diff(want, tableLines(genderTable, 1)); diff != "" {
		t.Errorf("capped table lines mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"no data"}, tableLines(nil, maxLoggedRows)); diff != "" {
		t.Errorf("nil table lines mismatch (-want +got):\n%s", diff)
	}
}

// ============================================================================
// HELPERS
// ============================================================================

func assertContains(t *testing.T, s, substr string) {
	t.Helper()
	if !strings.Contains(s, substr) {
		t.Errorf("%q not found in:\n%s", substr, s)
	}
}
