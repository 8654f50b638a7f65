package pipeline

import (
	"github.com/spektr-org/healthviz/engine"
	"github.com/spektr-org/healthviz/schema"
)

// ============================================================================
// CHART CATALOG — the five charts of a run, in output order
// ============================================================================

// CorrelationColumns is the row and column order of the heatmap.
var CorrelationColumns = []string{
	schema.Steps,
	schema.HeartRateAvg,
	schema.SleepHours,
	schema.CaloriesBurned,
	schema.ExerciseMinutes,
	schema.StressLevel,
	schema.WeightKg,
	schema.BMI,
}

// Charts returns a fresh copy of the chart catalog.
func Charts() []engine.ChartSpec {
	return []engine.ChartSpec{
		{
			Name:     "scatter",
			Kind:     engine.KindScatter,
			Title:    "Relationship: Exercise Minutes vs Calories Burned",
			XAxis:    "Exercise Minutes",
			YAxis:    "Calories Burned",
			Measures: []string{schema.ExerciseMinutes, schema.CaloriesBurned},
			SortBy:   schema.ExerciseMinutes,
			File:     "scatter_exercise_calories.png",
		},
		{
			Name:     "gender_bar",
			Kind:     engine.KindGroupedBar,
			Title:    "Gender Differences: Exercise Minutes vs Calories Burned",
			XAxis:    "Gender",
			YAxis:    "Average Value",
			Measures: []string{schema.ExerciseMinutes, schema.CaloriesBurned},
			Labels:   []string{"Exercise Minutes", "Calories Burned"},
			GroupBy:  schema.Gender,
			SortBy:   "label_asc",
			File:     "bar_exercise_cal.png",
		},
		{
			Name:     "correlation",
			Kind:     engine.KindHeatmap,
			Title:    "Correlation Heatmap",
			Measures: append([]string(nil), CorrelationColumns...),
			File:     "correlation_heatmap.png",
		},
		{
			Name:     "bubble",
			Kind:     engine.KindBubble,
			Title:    "Heart Rate vs Exercise Minutes (Bubble size = Calories Burned)",
			XAxis:    "Exercise Minutes",
			YAxis:    "Average Heart Rate",
			Measures: []string{schema.ExerciseMinutes, schema.HeartRateAvg, schema.CaloriesBurned},
			File:     "bubble_cart_heart_rate.png",
		},
		{
			Name:     "bmi_pie",
			Kind:     engine.KindPie,
			Title:    "BMI Category Distribution",
			Category: engine.BMICategoryKey,
			File:     "bmi_category_distribution.png",
		},
	}
}
