package engine

// BMICategoryKey is the derived dimension holding BMICategory labels.
const BMICategoryKey = "bmi_category"

// BMI category labels.
const (
	Underweight = "Underweight"
	Normal      = "Normal"
	Overweight  = "Overweight"
	Obese       = "Obese"
)

// BMICategories lists the BMI categories from lowest to highest.
var BMICategories = []string{Underweight, Normal, Overweight, Obese}

// BMICategory buckets a BMI value. Intervals are half-open, so 18.5, 25
// and 30 fall into the upper bucket.
func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return Underweight
	case bmi < 25:
		return Normal
	case bmi < 30:
		return Overweight
	default:
		return Obese
	}
}
