package engine

import "strings"

// ============================================================================
// FILTERS — Null handling and dimension filtering via RecordView
// ============================================================================
// Single-pass filters: every constraint is checked per record in one loop.
// Returns a SubView (index list into parent); zero data copy.
// ============================================================================

// CompleteCases returns a view of the records where every listed measure is
// present, plus the number of records that were dropped.
// No keys = no restriction (returns original view).
func CompleteCases(view RecordView, keys ...string) (RecordView, int) {
	if len(keys) == 0 {
		return view, 0
	}

	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		pass := true
		for _, key := range keys {
			if _, ok := view.MeasureOK(i, key); !ok {
				pass = false
				break
			}
		}
		if pass {
			indices = append(indices, i)
		}
	}

	if len(indices) == n {
		return view, 0
	}
	return newSubView(view, indices), n - len(indices)
}

// NonEmpty returns a view of the records whose dimension is set, plus the
// number of records that were dropped. Blank values count as empty.
func NonEmpty(view RecordView, dimension string) (RecordView, int) {
	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if strings.TrimSpace(view.Dimension(i, dimension)) != "" {
			indices = append(indices, i)
		}
	}

	if len(indices) == n {
		return view, 0
	}
	return newSubView(view, indices), n - len(indices)
}

// ApplyFilters returns a view of records matching all dimension filters.
// Dimensions are AND-combined; values within a dimension are OR-combined,
// compared case-insensitively. Empty filter = no restriction.
func ApplyFilters(view RecordView, filters map[string][]string) RecordView {
	sets := make(map[string]map[string]bool)
	for dim, allowed := range filters {
		if len(allowed) > 0 {
			sets[dim] = toLowerSet(allowed)
		}
	}

	if len(sets) == 0 {
		return view
	}

	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		pass := true
		for dim, set := range sets {
			if !set[strings.ToLower(view.Dimension(i, dim))] {
				pass = false
				break
			}
		}
		if pass {
			indices = append(indices, i)
		}
	}

	return newSubView(view, indices)
}

// toLowerSet converts a string slice to a lowercase lookup set.
func toLowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = true
	}
	return set
}
