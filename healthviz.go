// Package healthviz turns a daily health and fitness tracking CSV into five
// PNG charts.
//
// Usage:
//
//	import "github.com/spektr-org/healthviz/pipeline"
//
//	cfg, err := pipeline.LoadConfig(pipeline.DefaultConfigFile)
//	report, err := pipeline.NewRunner(cfg, os.Stdout).Run(ctx)
//
// The engine package derives one aggregate per chart (sorted points, group
// means, a correlation matrix, category counts) from a read-only RecordView;
// the render package draws each aggregate with go-chart or gonum/plot.
// Nothing leaves the machine: the dataset is read from disk and the charts
// are written back to disk.
package healthviz
