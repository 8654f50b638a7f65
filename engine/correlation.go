package engine

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// CorrelationMatrix computes pairwise Pearson correlation between measures.
// Each pair uses the rows where both values are present. The result is
// symmetric; the diagonal is 1 for columns with nonzero variance. Cells are
// NaN when a pair has fewer than two complete rows or either side is constant.
func CorrelationMatrix(view RecordView, measures []string) [][]float64 {
	k := len(measures)
	m := make([][]float64, k)
	for i := range m {
		m[i] = make([]float64, k)
	}

	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			r := pairCorrelation(view, measures[i], measures[j])
			if i == j && !math.IsNaN(r) {
				r = 1
			}
			m[i][j] = r
			m[j][i] = r
		}
	}
	return m
}

func pairCorrelation(view RecordView, a, b string) float64 {
	xs := make([]float64, 0, view.Len())
	ys := make([]float64, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		x, xok := view.MeasureOK(i, a)
		y, yok := view.MeasureOK(i, b)
		if xok && yok {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}

	if len(xs) < 2 || constant(xs) || constant(ys) {
		return math.NaN()
	}
	r := stat.Correlation(xs, ys, nil)
	// rounding can push |r| a hair past 1
	return math.Max(-1, math.Min(1, r))
}

func constant(xs []float64) bool {
	for _, x := range xs[1:] {
		if x != xs[0] {
			return false
		}
	}
	return true
}
