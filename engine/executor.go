package engine

import (
	"fmt"
	"log"
)

// ============================================================================
// EXECUTOR — Dispatcher
// ============================================================================
// Entry point: Execute(spec, view, opts...)
//
// Pipeline:
//   1. Check the columns the chart needs
//   2. (Pie) Wrap in DerivedView to expose the category dimension
//   3. Drop incomplete records → SubView
//   4. Derive the aggregate (sort / group / correlate / count)
//   5. Build ChartConfig + TableData
//   6. Return Result
//
// The shared view is never modified. Zero data copy.
// ============================================================================

// Execute runs a ChartSpec against a RecordView and returns a render-ready Result.
//
// Options:
//   - WithBubbleScale(s), WithBubbleAlpha(a): bubble marker sizing
//   - WithPieStartAngle(deg): where the first pie slice starts
//   - WithBarWidth(w): grouped bar width
//   - WithCategorizer(key, cat): additional derived dimensions for pies
func Execute(spec ChartSpec, view RecordView, opts ...Option) (*Result, error) {
	cfg := applyOptions(opts)

	if err := checkColumns(spec, view, cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Name:  spec.Name,
		Title: spec.Title,
		Rows:  view.Len(),
	}

	switch spec.Kind {
	case KindScatter:
		complete, excluded := CompleteCases(view, spec.Measures...)
		if spec.SortBy != "" {
			complete = SortByMeasure(complete, spec.SortBy)
		}
		result.Excluded = excluded
		result.ChartConfig = BuildScatter(spec, complete)
		result.TableData = BuildMeasureTable(spec, complete)

	case KindBubble:
		complete, excluded := CompleteCases(view, spec.Measures...)
		result.Excluded = excluded
		result.ChartConfig = BuildBubble(spec, complete, cfg.BubbleScale, cfg.BubbleAlpha)
		result.TableData = BuildMeasureTable(spec, complete)

	case KindGroupedBar:
		keyed, excluded := NonEmpty(view, spec.GroupBy)
		groups := GroupAndAverage(keyed, spec.GroupBy, spec.Measures, spec.SortBy)
		result.Excluded = excluded
		result.ChartConfig = BuildGroupedBar(spec, groups, cfg.BarWidth)
		result.TableData = BuildGroupTable(spec, groups)

	case KindHeatmap:
		matrix := CorrelationMatrix(view, spec.Measures)
		result.ChartConfig = BuildHeatmap(spec, matrix)
		result.TableData = BuildMatrixTable(spec, spec.Measures, matrix)

	case KindPie:
		cat := cfg.Categorizers[spec.Category]
		complete, excluded := CompleteCases(view, cat.Source)
		derived := NewDerivedView(complete, spec.Category, cat.Source, cat.Bucket)
		groups := CountByCategory(derived, spec.Category, cat.Order)
		result.Excluded = excluded
		result.ChartConfig = BuildPie(spec, groups, cfg.PieStartAngle)
		result.TableData = BuildGroupTable(spec, groups)

	default:
		return nil, fmt.Errorf("%s: %w: %q", spec.Name, ErrUnknownKind, spec.Kind)
	}

	log.Printf("🔧 healthviz: chart=%s kind=%s rows=%d excluded=%d",
		spec.Name, spec.Kind, result.Rows, result.Excluded)

	return result, nil
}

// checkColumns verifies every column the chart reads exists with the
// right type before any derivation runs.
func checkColumns(spec ChartSpec, view RecordView, cfg *config) error {
	want := map[string]int{
		KindScatter:    2,
		KindGroupedBar: 1,
		KindHeatmap:    1,
		KindBubble:     3,
	}

	switch spec.Kind {
	case KindScatter, KindBubble, KindGroupedBar, KindHeatmap:
		if len(spec.Measures) < want[spec.Kind] {
			return fmt.Errorf("%s: %s chart needs %d measures, got %d",
				spec.Name, spec.Kind, want[spec.Kind], len(spec.Measures))
		}
		if err := requireMeasures(spec.Name, view, spec.Measures...); err != nil {
			return err
		}
		if spec.Kind == KindGroupedBar {
			return requireDimension(spec.Name, view, spec.GroupBy)
		}
		if spec.SortBy != "" {
			return requireMeasures(spec.Name, view, spec.SortBy)
		}
		return nil

	case KindPie:
		cat, ok := cfg.Categorizers[spec.Category]
		if !ok {
			return &ColumnError{Chart: spec.Name, Column: spec.Category, Kind: ErrMissingColumn}
		}
		return requireMeasures(spec.Name, view, cat.Source)

	default:
		return fmt.Errorf("%s: %w: %q", spec.Name, ErrUnknownKind, spec.Kind)
	}
}
