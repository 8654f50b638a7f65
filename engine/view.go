package engine

import "math"

// ============================================================================
// RECORD VIEW — Zero-Copy Data Access Interface
// ============================================================================
// The engine never owns the loaded table. It reads through this interface.
//
// Implementations:
//   SliceView:      wraps []Record (CSV loader, ad-hoc)
//   DomainView[T]:  reads typed structs via accessor functions (zero-copy)
//   SubView:        filtered or reordered subset (indices into parent)
//   DerivedView:    wraps any view, adds a computed dimension on read
//
// Views are read-only. Derivations wrap, they never write back.
// ============================================================================

// RecordView provides indexed access to a dataset.
// The engine calls Dimension/Measure in tight loops; keep implementations fast.
type RecordView interface {
	Len() int
	Dimension(index int, key string) string
	Measure(index int, key string) float64
	MeasureOK(index int, key string) (float64, bool) // false for nulls, NaN and ±Inf
	DimensionKeys() []string                         // available dimension keys
	MeasureKeys() []string                           // available measure keys
}

// ============================================================================
// SLICE VIEW — wraps []Record
// ============================================================================

// SliceView wraps a []Record slice as a RecordView.
type SliceView struct {
	records []Record
	dimKeys []string
	mesKeys []string
}

// NewSliceView creates a RecordView from a []Record slice.
// Keys are discovered from the records in first-seen order.
func NewSliceView(records []Record) RecordView {
	v := &SliceView{records: records}
	v.cacheKeys()
	return v
}

// NewSliceViewWithKeys creates a RecordView with explicit column keys.
// The loader uses it so columns exist even when every cell is null.
func NewSliceViewWithKeys(records []Record, dimKeys, mesKeys []string) RecordView {
	return &SliceView{records: records, dimKeys: dimKeys, mesKeys: mesKeys}
}

func (v *SliceView) cacheKeys() {
	if len(v.records) == 0 {
		return
	}
	dimSeen := make(map[string]bool)
	mesSeen := make(map[string]bool)
	for _, r := range v.records {
		for k := range r.Dimensions {
			if !dimSeen[k] {
				dimSeen[k] = true
				v.dimKeys = append(v.dimKeys, k)
			}
		}
		for k := range r.Measures {
			if !mesSeen[k] {
				mesSeen[k] = true
				v.mesKeys = append(v.mesKeys, k)
			}
		}
	}
}

func (v *SliceView) Len() int { return len(v.records) }

func (v *SliceView) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.records) {
		return ""
	}
	return v.records[i].Dimensions[key]
}

func (v *SliceView) Measure(i int, key string) float64 {
	val, _ := v.MeasureOK(i, key)
	return val
}

func (v *SliceView) MeasureOK(i int, key string) (float64, bool) {
	if i < 0 || i >= len(v.records) {
		return 0, false
	}
	val, ok := v.records[i].Measures[key]
	if !ok || !finite(val) {
		return 0, false
	}
	return val, true
}

func (v *SliceView) DimensionKeys() []string { return v.dimKeys }
func (v *SliceView) MeasureKeys() []string   { return v.mesKeys }

// ============================================================================
// SUB VIEW — filtered or reordered subset (zero-copy)
// ============================================================================

// SubView is a subset of a parent RecordView.
// Holds indices into the parent; no data copy.
type SubView struct {
	parent  RecordView
	indices []int
}

func newSubView(parent RecordView, indices []int) RecordView {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.indices) {
		return ""
	}
	return v.parent.Dimension(v.indices[i], key)
}

func (v *SubView) Measure(i int, key string) float64 {
	val, _ := v.MeasureOK(i, key)
	return val
}

func (v *SubView) MeasureOK(i int, key string) (float64, bool) {
	if i < 0 || i >= len(v.indices) {
		return 0, false
	}
	return v.parent.MeasureOK(v.indices[i], key)
}

func (v *SubView) DimensionKeys() []string { return v.parent.DimensionKeys() }
func (v *SubView) MeasureKeys() []string   { return v.parent.MeasureKeys() }

// ============================================================================
// DERIVED VIEW — computed dimension on read (zero-copy)
// ============================================================================

// DerivedView wraps a RecordView and exposes one extra dimension computed
// from a source measure. The parent is never modified, so a derived column
// is private to whoever holds the wrapper.
type DerivedView struct {
	parent  RecordView
	key     string
	source  string
	derive  func(float64) string
	dimKeys []string
}

// NewDerivedView adds dimension key to parent, computed by derive(source).
// Rows with a null source value get an empty dimension value.
func NewDerivedView(parent RecordView, key, source string, derive func(float64) string) RecordView {
	dims := append([]string{}, parent.DimensionKeys()...)
	if !containsKey(dims, key) {
		dims = append(dims, key)
	}
	return &DerivedView{
		parent:  parent,
		key:     key,
		source:  source,
		derive:  derive,
		dimKeys: dims,
	}
}

func (v *DerivedView) Len() int { return v.parent.Len() }

func (v *DerivedView) Dimension(i int, key string) string {
	if key != v.key {
		return v.parent.Dimension(i, key)
	}
	val, ok := v.parent.MeasureOK(i, v.source)
	if !ok {
		return ""
	}
	return v.derive(val)
}

func (v *DerivedView) Measure(i int, key string) float64 { return v.parent.Measure(i, key) }

func (v *DerivedView) MeasureOK(i int, key string) (float64, bool) {
	return v.parent.MeasureOK(i, key)
}

func (v *DerivedView) DimensionKeys() []string { return v.dimKeys }
func (v *DerivedView) MeasureKeys() []string   { return v.parent.MeasureKeys() }

// ============================================================================
// DOMAIN ADAPTER — Zero-copy typed struct access
// ============================================================================
//
// Usage:
//
//	adapter := engine.NewDomainAdapter[Day]().
//	    Dimension("gender", func(d Day) string { return d.Gender }).
//	    Measure("bmi", func(d Day) float64 { return d.BMI })
//
//	view := adapter.Bind(days)
//	result, _ := engine.Execute(spec, view, opts...)
//
// A measure accessor returning NaN marks a null.
// ============================================================================

// DomainAdapter builds a RecordView from typed structs.
// Declare once, bind many times.
type DomainAdapter[T any] struct {
	dimOrder []string
	mesOrder []string
	dims     map[string]func(T) string
	meas     map[string]func(T) float64
}

// NewDomainAdapter creates a new adapter for type T.
func NewDomainAdapter[T any]() *DomainAdapter[T] {
	return &DomainAdapter[T]{
		dims: make(map[string]func(T) string),
		meas: make(map[string]func(T) float64),
	}
}

// Dimension registers a dimension accessor.
func (a *DomainAdapter[T]) Dimension(key string, fn func(T) string) *DomainAdapter[T] {
	if _, exists := a.dims[key]; !exists {
		a.dimOrder = append(a.dimOrder, key)
	}
	a.dims[key] = fn
	return a
}

// Measure registers a measure accessor.
func (a *DomainAdapter[T]) Measure(key string, fn func(T) float64) *DomainAdapter[T] {
	if _, exists := a.meas[key]; !exists {
		a.mesOrder = append(a.mesOrder, key)
	}
	a.meas[key] = fn
	return a
}

// Bind creates a RecordView from a data slice. Zero-copy; holds reference.
func (a *DomainAdapter[T]) Bind(data []T) RecordView {
	return &DomainView[T]{
		data:     data,
		dims:     a.dims,
		meas:     a.meas,
		dimKeys:  a.dimOrder,
		measKeys: a.mesOrder,
	}
}

// DomainView reads typed struct fields via registered accessor functions.
type DomainView[T any] struct {
	data     []T
	dims     map[string]func(T) string
	meas     map[string]func(T) float64
	dimKeys  []string
	measKeys []string
}

func (v *DomainView[T]) Len() int { return len(v.data) }

func (v *DomainView[T]) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.data) {
		return ""
	}
	if fn, ok := v.dims[key]; ok {
		return fn(v.data[i])
	}
	return ""
}

func (v *DomainView[T]) Measure(i int, key string) float64 {
	val, _ := v.MeasureOK(i, key)
	return val
}

func (v *DomainView[T]) MeasureOK(i int, key string) (float64, bool) {
	if i < 0 || i >= len(v.data) {
		return 0, false
	}
	fn, ok := v.meas[key]
	if !ok {
		return 0, false
	}
	val := fn(v.data[i])
	if !finite(val) {
		return 0, false
	}
	return val, true
}

func (v *DomainView[T]) DimensionKeys() []string { return v.dimKeys }
func (v *DomainView[T]) MeasureKeys() []string   { return v.measKeys }

func containsKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

// finite reports whether a measure value can be plotted. NaN and ±Inf read
// as nulls.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
