package schema

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ============================================================================
// DISCOVERY — Per-column type inference
// ============================================================================
// Inspects raw CSV cells and generates a schema.Config.
//
// Classification pipeline per column:
//   1. Drop null tokens
//   2. Every remaining cell parses as a float → measure, else dimension
//   3. Dimensions get sample values, cardinality and temporal hints
//
// A column with no values at all is numeric: it holds only nulls.
// Headers are normalized to snake_case keys.
// ============================================================================

// DiscoverOptions controls discovery behavior.
type DiscoverOptions struct {
	Name        string            // Dataset name override
	Source      string            // Recorded in DiscoveredFrom
	Units       map[string]string // measure key → unit label
	MaxSamples  int               // Sample values kept per dimension. Default: 10
	ForceString []string          // Keys that stay dimensions even when numeric
}

// DefaultDiscoverOptions returns sensible defaults.
func DefaultDiscoverOptions() DiscoverOptions {
	return DiscoverOptions{
		Name:       "Auto-discovered Dataset",
		Source:     "CSV",
		MaxSamples: 10,
	}
}

// nullTokens are the cell values read as missing.
var nullTokens = map[string]bool{
	"": true, "#N/A": true, "#N/A N/A": true, "#NA": true, "-NaN": true, "-nan": true,
	"<NA>": true, "N/A": true, "NA": true, "NULL": true, "NaN": true, "None": true,
	"n/a": true, "nan": true, "null": true,
}

// IsNull reports whether a raw cell is a missing value.
func IsNull(cell string) bool {
	return nullTokens[strings.TrimSpace(cell)]
}

// ParseNumber parses a raw cell as a float. Nulls and non-numeric text
// report false.
func ParseNumber(cell string) (float64, bool) {
	s := strings.TrimSpace(cell)
	if nullTokens[s] || strings.ContainsAny(s, "xX_") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Discover classifies every column of an already-split table.
// Rows shorter than the header are padded with nulls.
func Discover(headers []string, rows [][]string, opts ...DiscoverOptions) (*Config, error) {
	opt := DefaultDiscoverOptions()
	if len(opts) > 0 {
		opt = mergeOptions(opt, opts[0])
	}

	if len(headers) == 0 {
		return nil, fmt.Errorf("CSV has no columns")
	}

	forced := make(map[string]bool, len(opt.ForceString))
	for _, k := range opt.ForceString {
		forced[k] = true
	}

	config := &Config{
		Name:           opt.Name,
		Rows:           len(rows),
		DiscoveredFrom: opt.Source,
		DiscoveredAt:   time.Now().Format(time.RFC3339),
	}

	seen := make(map[string]bool, len(headers))
	for i, header := range headers {
		key := toSnakeCase(header)
		switch {
		case key == "":
			config.SkippedColumns = append(config.SkippedColumns, SkippedColumn{
				Column: header, Index: i, Reason: "Empty header",
			})
			continue
		case seen[key]:
			config.SkippedColumns = append(config.SkippedColumns, SkippedColumn{
				Column: header, Index: i, Reason: fmt.Sprintf("Duplicate of column %q", key),
			})
			continue
		}
		seen[key] = true

		col := analyzeColumn(header, key, i, rows)
		if col.numeric && !forced[key] {
			config.Measures = append(config.Measures, MeasureMeta{
				Key:         key,
				Header:      header,
				Index:       i,
				DisplayName: toDisplayName(header),
				Unit:        opt.Units[key],
				NullCount:   col.nullCount,
			})
			continue
		}
		config.Dimensions = append(config.Dimensions, col.toDimension(opt.MaxSamples))
	}

	return config, nil
}

func mergeOptions(base, o DiscoverOptions) DiscoverOptions {
	if o.Name != "" {
		base.Name = o.Name
	}
	if o.Source != "" {
		base.Source = o.Source
	}
	if o.MaxSamples > 0 {
		base.MaxSamples = o.MaxSamples
	}
	base.Units = o.Units
	base.ForceString = o.ForceString
	return base
}

// ============================================================================
// COLUMN ANALYSIS
// ============================================================================

type columnAnalysis struct {
	header    string
	key       string
	index     int
	numeric   bool
	nullCount int
	uniques   map[string]bool
}

// analyzeColumn inspects every cell of a column.
func analyzeColumn(header, key string, index int, rows [][]string) columnAnalysis {
	col := columnAnalysis{
		header:  header,
		key:     key,
		index:   index,
		numeric: true,
		uniques: make(map[string]bool),
	}

	for _, row := range rows {
		if index >= len(row) || IsNull(row[index]) {
			col.nullCount++
			continue
		}
		val := strings.TrimSpace(row[index])
		col.uniques[val] = true
		if col.numeric {
			if _, ok := ParseNumber(val); !ok {
				col.numeric = false
			}
		}
	}
	return col
}

// toDimension converts a column analysis into DimensionMeta.
func (col *columnAnalysis) toDimension(maxSamples int) DimensionMeta {
	samples := collectSamples(col.uniques, maxSamples)
	temporal, format := detectTemporalPattern(samples)

	hint := "high"
	switch n := len(col.uniques); {
	case n <= 10:
		hint = "low"
	case n <= 100:
		hint = "medium"
	}

	return DimensionMeta{
		Key:             col.key,
		Header:          col.header,
		Index:           col.index,
		DisplayName:     toDisplayName(col.header),
		SampleValues:    samples,
		NullCount:       col.nullCount,
		IsTemporal:      temporal,
		TemporalFormat:  format,
		CardinalityHint: hint,
	}
}

// ============================================================================
// TEMPORAL DETECTION
// ============================================================================

var temporalPatterns = []struct {
	re     *regexp.Regexp
	format string
}{
	{regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`), "yyyy-MM-dd"},                   // 2024-01-31
	{regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[ T]\d{2}:\d{2}(:\d{2})?$`), "datetime"}, // 2024-01-31 08:00
	{regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`), "MM/dd/yyyy"},             // 01/31/2024
	{regexp.MustCompile(`^[A-Z][a-z]{2}-\d{4}$`), "MMM-yyyy"},                 // Jan-2024
	{regexp.MustCompile(`^\d{4}-\d{2}$`), "yyyy-MM"},                           // 2024-01
}

// detectTemporalPattern checks if values match known date patterns.
func detectTemporalPattern(samples []string) (bool, string) {
	if len(samples) == 0 {
		return false, ""
	}

	for _, pattern := range temporalPatterns {
		matches := 0
		for _, s := range samples {
			if pattern.re.MatchString(strings.TrimSpace(s)) {
				matches++
			}
		}
		if float64(matches)/float64(len(samples)) >= 0.8 {
			return true, pattern.format
		}
	}

	return false, ""
}

// ============================================================================
// STRING UTILITIES
// ============================================================================

// toSnakeCase converts "Column Name" or "columnName" → "column_name".
func toSnakeCase(s string) string {
	s = strings.TrimSpace(strings.TrimPrefix(s, "\ufeff"))

	var result strings.Builder
	var prev rune
	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
			result.WriteRune('_')
		}
		result.WriteRune(r)
		prev = r
	}

	s = strings.ToLower(result.String())
	s = strings.NewReplacer(" ", "_", "-", "_", ".", "_").Replace(s)
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return strings.Trim(s, "_")
}

// toDisplayName cleans a header for human display.
// "heart_rate_avg" → "Heart Rate Avg", "Gender" → "Gender"
func toDisplayName(s string) string {
	s = strings.TrimSpace(strings.TrimPrefix(s, "\ufeff"))
	if strings.Contains(s, " ") {
		return s
	}

	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")

	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// collectSamples picks up to maxSamples values in sorted order.
func collectSamples(uniqueSet map[string]bool, maxSamples int) []string {
	samples := make([]string, 0, len(uniqueSet))
	for v := range uniqueSet {
		samples = append(samples, v)
	}

	sort.Strings(samples)

	if maxSamples > 0 && len(samples) > maxSamples {
		samples = samples[:maxSamples]
	}
	return samples
}
