package schema

import (
	"fmt"
	"strings"
)

// ============================================================================
// SCHEMA — Describes the shape of a dataset for the loader + chart specs
// ============================================================================
// Discovered from the CSV header and cells at load time.
// The loader uses it to split columns into dimensions and measures.
// The pipeline uses it to report what was loaded.
// ============================================================================

// Config describes the complete shape of a dataset.
type Config struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	Dimensions []DimensionMeta `json:"dimensions"`
	Measures   []MeasureMeta   `json:"measures"`
	Rows       int             `json:"rows"`

	// Discovery metadata
	DiscoveredFrom string `json:"discoveredFrom,omitempty"`
	DiscoveredAt   string `json:"discoveredAt,omitempty"`

	// Columns skipped during discovery
	SkippedColumns []SkippedColumn `json:"skippedColumns,omitempty"`
}

// DimensionMeta describes a categorical column.
type DimensionMeta struct {
	Key             string   `json:"key"`
	Header          string   `json:"header"`
	Index           int      `json:"index"`
	DisplayName     string   `json:"displayName"`
	SampleValues    []string `json:"sampleValues"`
	NullCount       int      `json:"nullCount,omitempty"`
	IsTemporal      bool     `json:"isTemporal,omitempty"`
	TemporalFormat  string   `json:"temporalFormat,omitempty"`
	CardinalityHint string   `json:"cardinalityHint,omitempty"` // "low", "medium", "high"
}

// MeasureMeta describes a numeric column.
type MeasureMeta struct {
	Key         string `json:"key"`
	Header      string `json:"header"`
	Index       int    `json:"index"`
	DisplayName string `json:"displayName"`
	Unit        string `json:"unit,omitempty"` // "minutes", "kcal", "bpm", ...
	NullCount   int    `json:"nullCount,omitempty"`
}

// SkippedColumn records why a column was excluded during discovery.
type SkippedColumn struct {
	Column string `json:"column"`
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// DimensionKeys returns all dimension keys.
func (c Config) DimensionKeys() []string {
	keys := make([]string, len(c.Dimensions))
	for i, d := range c.Dimensions {
		keys[i] = d.Key
	}
	return keys
}

// MeasureKeys returns all measure keys.
func (c Config) MeasureKeys() []string {
	keys := make([]string, len(c.Measures))
	for i, m := range c.Measures {
		keys[i] = m.Key
	}
	return keys
}

// EmptyMeasures returns measures with no values at all.
func (c Config) EmptyMeasures() []string {
	var keys []string
	for _, m := range c.Measures {
		if c.Rows > 0 && m.NullCount == c.Rows {
			keys = append(keys, m.Key)
		}
	}
	return keys
}

// Missing returns the keys that are neither a dimension nor a measure.
func (c Config) Missing(keys ...string) []string {
	have := make(map[string]bool, len(c.Dimensions)+len(c.Measures))
	for _, d := range c.Dimensions {
		have[d.Key] = true
	}
	for _, m := range c.Measures {
		have[m.Key] = true
	}

	var missing []string
	for _, k := range keys {
		if !have[k] {
			missing = append(missing, k)
		}
	}
	return missing
}

// describeSamples caps the sample values shown per dimension.
const describeSamples = 3

// Describe returns one line per column: display name, role, unit or
// cardinality, temporal format, null count and a few sample values.
func (c Config) Describe() []string {
	lines := make([]string, 0, len(c.Dimensions)+len(c.Measures))
	for _, d := range c.Dimensions {
		var b strings.Builder
		fmt.Fprintf(&b, "%s (%s): dimension", d.Key, d.DisplayName)
		if d.CardinalityHint != "" {
			fmt.Fprintf(&b, ", %s cardinality", d.CardinalityHint)
		}
		if d.IsTemporal {
			fmt.Fprintf(&b, ", temporal %s", d.TemporalFormat)
		}
		if d.NullCount > 0 {
			fmt.Fprintf(&b, ", nulls=%d", d.NullCount)
		}
		if len(d.SampleValues) > 0 {
			samples := d.SampleValues
			if len(samples) > describeSamples {
				samples = samples[:describeSamples]
			}
			fmt.Fprintf(&b, " [%s]", strings.Join(samples, ", "))
		}
		lines = append(lines, b.String())
	}
	for _, m := range c.Measures {
		var b strings.Builder
		fmt.Fprintf(&b, "%s (%s): measure", m.Key, m.DisplayName)
		if m.Unit != "" {
			fmt.Fprintf(&b, " in %s", m.Unit)
		}
		if m.NullCount > 0 {
			fmt.Fprintf(&b, ", nulls=%d", m.NullCount)
		}
		lines = append(lines, b.String())
	}
	return lines
}
