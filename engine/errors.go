package engine

import (
	"errors"
	"fmt"
)

var (
	ErrMissingColumn  = errors.New("missing column")
	ErrNotNumeric     = errors.New("column is not numeric")
	ErrNotCategorical = errors.New("column is not categorical")
	ErrUnknownKind    = errors.New("unknown chart kind")
)

// ColumnError reports a column a chart needs but cannot use.
type ColumnError struct {
	Chart  string
	Column string
	Kind   error
}

func (e *ColumnError) Error() string {
	if e == nil {
		return ""
	}
	if e.Chart == "" {
		return fmt.Sprintf("%s: %q", e.Kind.Error(), e.Column)
	}
	return fmt.Sprintf("%s: %s: %q", e.Chart, e.Kind.Error(), e.Column)
}

func (e *ColumnError) Unwrap() error { return e.Kind }

// requireMeasures checks that every key is a numeric column of view.
func requireMeasures(chart string, view RecordView, keys ...string) error {
	for _, key := range keys {
		if containsKey(view.MeasureKeys(), key) {
			continue
		}
		kind := ErrMissingColumn
		if containsKey(view.DimensionKeys(), key) {
			kind = ErrNotNumeric
		}
		return &ColumnError{Chart: chart, Column: key, Kind: kind}
	}
	return nil
}

// requireDimension checks that key is a categorical column of view.
func requireDimension(chart string, view RecordView, key string) error {
	if containsKey(view.DimensionKeys(), key) {
		return nil
	}
	kind := ErrMissingColumn
	if containsKey(view.MeasureKeys(), key) {
		kind = ErrNotCategorical
	}
	return &ColumnError{Chart: chart, Column: key, Kind: kind}
}
