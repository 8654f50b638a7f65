package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// ============================================================================
// AGGREGATORS — Grouping, Aggregation, and Sorting via RecordView
// ============================================================================
// All functions operate on RecordView; zero-copy access to any data source.
// Grouping produces SubViews (index lists into parent view).
// Nulls are skipped per measure, never treated as zero.
// ============================================================================

// GroupAndAverage partitions view by a dimension and averages each measure
// per group. Group.Values is parallel to measures; Group.Value mirrors the
// first entry. A measure with no values in a group averages to NaN.
// Pipeline: group → aggregate → sort.
func GroupAndAverage(view RecordView, dimension string, measures []string, sortBy string) []Group {
	if view.Len() == 0 {
		return nil
	}

	groups := groupBySingle(view, dimension)
	for i := range groups {
		g := &groups[i]
		g.Count = g.View.Len()
		g.Values = make([]float64, len(measures))
		for j, m := range measures {
			g.Values[j] = AvgMeasure(g.View, m)
		}
		if len(g.Values) > 0 {
			g.Value = g.Values[0]
		}
	}

	SortGroups(groups, sortBy)
	return groups
}

// CountByCategory counts records per value of a dimension. Empty values are
// not counted. Zero-count categories never appear. Groups are ordered by
// descending count; ties follow order, then first appearance.
func CountByCategory(view RecordView, dimension string, order []string) []Group {
	if view.Len() == 0 {
		return nil
	}

	rank := make(map[string]int, len(order))
	for i, c := range order {
		rank[c] = i
	}

	groups := make([]Group, 0, len(order))
	for _, g := range groupBySingle(view, dimension) {
		if g.Key == "" {
			continue
		}
		g.Count = g.View.Len()
		g.Value = float64(g.Count)
		groups = append(groups, g)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		ri, iok := rank[groups[i].Key]
		rj, jok := rank[groups[j].Key]
		if iok && jok {
			return ri < rj
		}
		return iok && !jok
	})
	return groups
}

// ============================================================================
// GROUPING
// ============================================================================

func groupBySingle(view RecordView, dimension string) []Group {
	grouped := make(map[string][]int)
	order := make([]string, 0)

	for i := 0; i < view.Len(); i++ {
		key := view.Dimension(i, dimension)
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], i)
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, Group{
			Key:   key,
			Label: key,
			View:  newSubView(view, grouped[key]),
		})
	}
	return groups
}

// ============================================================================
// AGGREGATION
// ============================================================================

// SumMeasure sums the non-null values of a measure and reports how many
// values contributed.
func SumMeasure(view RecordView, measure string) (float64, int) {
	var total float64
	var n int
	for i := 0; i < view.Len(); i++ {
		if v, ok := view.MeasureOK(i, measure); ok {
			total += v
			n++
		}
	}
	return total, n
}

// AvgMeasure computes the mean of the non-null values of a measure.
// Returns NaN when there are none.
func AvgMeasure(view RecordView, measure string) float64 {
	total, n := SumMeasure(view, measure)
	if n == 0 {
		return math.NaN()
	}
	return total / float64(n)
}

// ============================================================================
// SORTING
// ============================================================================

// SortGroups sorts aggregate groups by the specified sort mode.
// Sorting is stable so equal keys keep grouping order.
func SortGroups(groups []Group, sortBy string) {
	switch sortBy {
	case "value_desc":
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Value > groups[j].Value })
	case "value_asc":
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Value < groups[j].Value })
	case "count_desc":
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Count > groups[j].Count })
	case "label_asc", "alpha_asc":
		sort.SliceStable(groups, func(i, j int) bool { return strings.ToLower(groups[i].Key) < strings.ToLower(groups[j].Key) })
	case "label_desc":
		sort.SliceStable(groups, func(i, j int) bool { return strings.ToLower(groups[i].Key) > strings.ToLower(groups[j].Key) })
	default:
		// preserve grouping order
	}
}

// SortByMeasure returns a view ordered ascending by a measure. Ties keep
// their original relative order. Null values sort last.
func SortByMeasure(view RecordView, measure string) RecordView {
	n := view.Len()
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	sort.SliceStable(indices, func(a, b int) bool {
		va, aok := view.MeasureOK(indices[a], measure)
		vb, bok := view.MeasureOK(indices[b], measure)
		if aok != bok {
			return aok
		}
		return va < vb
	})
	return newSubView(view, indices)
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	if n < 0 {
		return "-" + FormatInt(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatInt(n/1000), n%1000)
}

// LabelForDimension turns a column key into a title-cased label.
// "exercise_minutes" → "Exercise Minutes".
func LabelForDimension(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == ' ' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
