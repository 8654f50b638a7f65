package engine

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ============================================================================
// EXECUTE TESTS
// ============================================================================

var (
	scatterSpec = ChartSpec{
		Name:     "scatter",
		Kind:     KindScatter,
		Title:    "Exercise vs Calories",
		Measures: []string{"exercise_minutes", "calories_burned"},
		SortBy:   "exercise_minutes",
	}
	barSpec = ChartSpec{
		Name:     "bar",
		Kind:     KindGroupedBar,
		Measures: []string{"exercise_minutes", "calories_burned"},
		Labels:   []string{"Exercise Minutes", "Calories Burned"},
		GroupBy:  "gender",
		SortBy:   "label_asc",
	}
	bubbleSpec = ChartSpec{
		Name:     "bubble",
		Kind:     KindBubble,
		Measures: []string{"exercise_minutes", "heart_rate_avg", "calories_burned"},
	}
	heatmapSpec = ChartSpec{
		Name:     "heatmap",
		Kind:     KindHeatmap,
		Measures: []string{"exercise_minutes", "calories_burned", "heart_rate_avg", "bmi"},
	}
	pieSpec = ChartSpec{
		Name:     "pie",
		Kind:     KindPie,
		Title:    "BMI Category Distribution",
		Category: BMICategoryKey,
	}
)

func TestExecuteScatter(t *testing.T) {
	result, err := Execute(scatterSpec, dayAdapter.Bind(days))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	xs := []float64{}
	for _, p := range result.ChartConfig.Series[0].Data {
		xs = append(xs, p.X)
	}
	if diff := cmp.Diff([]float64{10, 20, 30, 30, 50}, xs); diff != "" {
		t.Errorf("scatter x mismatch (-want +got):\n%s", diff)
	}
	if result.ChartConfig.ChartType != KindScatter || result.Excluded != 0 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestExecuteGroupedBar(t *testing.T) {
	view := NewSliceView([]Record{
		record("Female", map[string]float64{"exercise_minutes": 20, "calories_burned": 200}),
		record("Female", map[string]float64{"exercise_minutes": 40, "calories_burned": 300}),
	})

	result, err := Execute(barSpec, view)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	c := result.ChartConfig
	if diff := cmp.Diff([]string{"Female"}, c.Categories); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}
	if len(c.Series) != 2 || c.Series[0].Name != "Exercise Minutes" || c.Series[1].Name != "Calories Burned" {
		t.Fatalf("unexpected series: %+v", c.Series)
	}
	if c.Series[0].Data[0].Value != 30 || c.Series[1].Data[0].Value != 250 {
		t.Errorf("means = %v, %v; want 30, 250", c.Series[0].Data[0].Value, c.Series[1].Data[0].Value)
	}
	if c.BarWidth != DefaultBarWidth {
		t.Errorf("bar width = %v, want %v", c.BarWidth, DefaultBarWidth)
	}
}

func TestExecuteGroupedBarDropsEmptyKeys(t *testing.T) {
	result, err := Execute(barSpec, dayAdapter.Bind(days))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if diff := cmp.Diff([]string{"Female", "Male"}, result.ChartConfig.Categories); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}
	if result.Excluded != 1 {
		t.Errorf("excluded = %d, want 1", result.Excluded)
	}
}

func TestExecuteBubble(t *testing.T) {
	result, err := Execute(bubbleSpec, dayAdapter.Bind(days), WithBubbleScale(20), WithBubbleAlpha(0.5))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	c := result.ChartConfig
	if c.Alpha != 0.5 {
		t.Errorf("alpha = %v, want 0.5", c.Alpha)
	}
	if got := c.Series[0].Data[0].Size; got != 12.5 {
		t.Errorf("first marker area = %v, want 12.5", got)
	}
}

func TestExecuteHeatmap(t *testing.T) {
	result, err := Execute(heatmapSpec, dayAdapter.Bind(days))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	c := result.ChartConfig
	if diff := cmp.Diff(heatmapSpec.Measures, c.Categories); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	if len(c.Matrix) != 4 || len(c.Matrix[0]) != 4 {
		t.Fatalf("matrix is %dx?, want 4x4", len(c.Matrix))
	}
	for i := range c.Matrix {
		if c.Matrix[i][i] != 1 {
			t.Errorf("diagonal %d = %v, want 1", i, c.Matrix[i][i])
		}
	}
}

func TestExecutePie(t *testing.T) {
	view := NewSliceView([]Record{
		{Measures: map[string]float64{"bmi": 17}},
		{Measures: map[string]float64{"bmi": 24}},
		{Measures: map[string]float64{"bmi": 31}},
	})

	result, err := Execute(pieSpec, view)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	c := result.ChartConfig
	if c.StartAngle != DefaultPieStartAngle {
		t.Errorf("start angle = %v, want %v", c.StartAngle, DefaultPieStartAngle)
	}

	type slice struct {
		Label   string
		Count   float64
		Percent float64
	}
	got := []slice{}
	for _, p := range c.Series[0].Data {
		got = append(got, slice{p.Label, p.Value, p.Percent})
	}
	third := 100.0 / 3
	want := []slice{
		{Underweight, 1, third},
		{Normal, 1, third},
		{Obese, 1, third},
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("slices mismatch (-want +got):\n%s", diff)
	}

	// the derived column stays private to the pie
	if containsKey(view.DimensionKeys(), BMICategoryKey) {
		t.Error("shared view gained bmi_category")
	}
}

func TestExecutePiePercentagesSum(t *testing.T) {
	result, err := Execute(pieSpec, dayAdapter.Bind(days))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	var sum float64
	for _, p := range result.ChartConfig.Series[0].Data {
		sum += p.Percent
	}
	if math.Abs(sum-100) > 0.1 {
		t.Errorf("percentages sum to %v", sum)
	}
	if result.Excluded != 1 {
		t.Errorf("excluded = %d, want 1 (null bmi)", result.Excluded)
	}
}

func TestExecuteEmptyView(t *testing.T) {
	empty := dayAdapter.Bind(nil)
	for _, spec := range []ChartSpec{scatterSpec, barSpec, bubbleSpec, heatmapSpec, pieSpec} {
		result, err := Execute(spec, empty)
		if err != nil {
			t.Errorf("%s: Execute failed on empty view: %v", spec.Name, err)
			continue
		}
		if result.ChartConfig == nil {
			t.Errorf("%s: nil chart config", spec.Name)
		}
	}
}

func TestExecuteColumnErrors(t *testing.T) {
	view := dayAdapter.Bind(days)

	tests := []struct {
		name string
		spec ChartSpec
		want error
	}{
		{
			name: "missing measure",
			spec: ChartSpec{Name: "s", Kind: KindScatter, Measures: []string{"steps", "calories_burned"}},
			want: ErrMissingColumn,
		},
		{
			name: "categorical used as measure",
			spec: ChartSpec{Name: "s", Kind: KindScatter, Measures: []string{"gender", "calories_burned"}},
			want: ErrNotNumeric,
		},
		{
			name: "numeric used as group",
			spec: ChartSpec{Name: "b", Kind: KindGroupedBar, Measures: []string{"bmi"}, GroupBy: "bmi"},
			want: ErrNotCategorical,
		},
		{
			name: "unknown category",
			spec: ChartSpec{Name: "p", Kind: KindPie, Category: "mood"},
			want: ErrMissingColumn,
		},
		{
			name: "unknown kind",
			spec: ChartSpec{Name: "x", Kind: "radar"},
			want: ErrUnknownKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Execute(tt.spec, view)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestColumnErrorMessage(t *testing.T) {
	_, err := Execute(ChartSpec{Name: "heatmap", Kind: KindHeatmap, Measures: []string{"steps"}}, dayAdapter.Bind(days))

	var colErr *ColumnError
	if !errors.As(err, &colErr) {
		t.Fatalf("error %v is not a ColumnError", err)
	}
	if colErr.Column != "steps" || !strings.Contains(err.Error(), "heatmap") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCustomCategorizer(t *testing.T) {
	spec := ChartSpec{Name: "effort", Kind: KindPie, Category: "effort"}
	effort := Categorizer{
		Source: "exercise_minutes",
		Bucket: func(v float64) string {
			if v >= 30 {
				return "High"
			}
			return "Low"
		},
		Order: []string{"Low", "High"},
	}

	result, err := Execute(spec, dayAdapter.Bind(days), WithCategorizer("effort", effort))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	got := []string{}
	for _, p := range result.ChartConfig.Series[0].Data {
		got = append(got, p.Label)
	}
	if diff := cmp.Diff([]string{"High", "Low"}, got); diff != "" {
		t.Errorf("slice order mismatch (-want +got):\n%s", diff)
	}
}

func TestDescribe(t *testing.T) {
	result, err := Execute(pieSpec, NewSliceView([]Record{
		{Measures: map[string]float64{"bmi": 20}},
		{Measures: map[string]float64{"bmi": 26}},
	}))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	got := Describe(result)
	want := "pie: Normal 50.0%, Overweight 50.0% (2 rows, 0 excluded)"
	if got != want {
		t.Errorf("Describe = %q, want %q", got, want)
	}
	if Describe(nil) != "no chart" {
		t.Error("nil result should describe as no chart")
	}
}
