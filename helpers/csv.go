package helpers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spektr-org/healthviz/engine"
	"github.com/spektr-org/healthviz/schema"
)

// ============================================================================
// CSV HELPER — Loads a delimited file into an engine.RecordView
// ============================================================================
// The file is read once. Column types come from schema.Discover, so a column
// is numeric only when every non-null cell parses. Null cells become absent
// measure keys (engine nulls) or empty dimension values.
// ============================================================================

// ErrEmptyFile is returned when the input has no header row.
var ErrEmptyFile = errors.New("helpers: file has no header row")

// LoadCSV reads and parses the CSV file at path.
func LoadCSV(path string, opts ...schema.DiscoverOptions) (engine.RecordView, *schema.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("helpers: read %s: %w", path, err)
	}

	if len(opts) == 0 {
		opts = []schema.DiscoverOptions{{Source: path}}
	} else if opts[0].Source == "" {
		opts[0].Source = path
	}

	view, config, err := ParseCSV(data, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("helpers: parse %s: %w", path, err)
	}
	return view, config, nil
}

// ParseCSV parses CSV bytes into a RecordView and the discovered schema.
// Each row becomes a Record with dimensions (string) and measures (numeric).
func ParseCSV(data []byte, opts ...schema.DiscoverOptions) (engine.RecordView, *schema.Config, error) {
	headers, rows, err := readAll(data)
	if err != nil {
		return nil, nil, err
	}

	config, err := schema.Discover(headers, rows, opts...)
	if err != nil {
		return nil, nil, err
	}

	records := make([]engine.Record, 0, len(rows))
	for _, row := range rows {
		rec := engine.Record{
			Dimensions: make(map[string]string, len(config.Dimensions)),
			Measures:   make(map[string]float64, len(config.Measures)),
		}

		for _, d := range config.Dimensions {
			if val := cell(row, d.Index); !schema.IsNull(val) {
				rec.Dimensions[d.Key] = strings.TrimSpace(val)
			}
		}
		for _, m := range config.Measures {
			if f, ok := schema.ParseNumber(cell(row, m.Index)); ok {
				rec.Measures[m.Key] = f
			}
		}

		records = append(records, rec)
	}

	return engine.NewSliceViewWithKeys(records, config.DimensionKeys(), config.MeasureKeys()), config, nil
}

// readAll splits the input into a header and rows. A row wider than the
// header is an error; a narrower row is padded with nulls on read.
func readAll(data []byte) ([]string, [][]string, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, nil, ErrEmptyFile
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		if len(row) > len(headers) {
			line, _ := reader.FieldPos(0)
			return nil, nil, fmt.Errorf("line %d: %d fields, header has %d", line, len(row), len(headers))
		}
		rows = append(rows, row)
	}

	return headers, rows, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
