package schema

// Column keys of the daily health and fitness tracking dataset.
const (
	Steps           = "steps"
	HeartRateAvg    = "heart_rate_avg"
	SleepHours      = "sleep_hours"
	CaloriesBurned  = "calories_burned"
	ExerciseMinutes = "exercise_minutes"
	StressLevel     = "stress_level"
	WeightKg        = "weight_kg"
	BMI             = "bmi"
	Gender          = "gender"
)

// HealthColumns lists every column the charts read.
var HealthColumns = []string{
	Steps, HeartRateAvg, SleepHours, CaloriesBurned,
	ExerciseMinutes, StressLevel, WeightKg, BMI, Gender,
}

// HealthUnits labels the measures of the tracking dataset.
var HealthUnits = map[string]string{
	Steps:           "steps",
	HeartRateAvg:    "bpm",
	SleepHours:      "hours",
	CaloriesBurned:  "kcal",
	ExerciseMinutes: "minutes",
	StressLevel:     "points",
	WeightKg:        "kg",
	BMI:             "kg/m²",
}

// HealthOptions returns discovery options for the tracking dataset.
// Gender stays categorical even if a file codes it numerically.
func HealthOptions() DiscoverOptions {
	opt := DefaultDiscoverOptions()
	opt.Name = "Health & Fitness Tracking"
	opt.Units = HealthUnits
	opt.ForceString = []string{Gender}
	return opt
}
