package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"coinscope/indicators"
)

// CSVExporter writes one file per asset under <dir>/<horizon>/, with
// the candle fields followed by every indicator column. Undefined
// values become empty cells.
type CSVExporter struct {
	dir string
}

func NewCSV(dir string) *CSVExporter {
	return &CSVExporter{dir: dir}
}

func (e *CSVExporter) Name() string { return "csv" }

func (e *CSVExporter) Export(ctx context.Context, r *Report) error {
	dir := filepath.Join(e.dir, r.Horizon)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("csv export: %w", err)
	}

	for _, asset := range r.Assets() {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.csv", asset, r.Granularity))
		if err := writeFrameCSV(path, r.Frames[asset]); err != nil {
			return fmt.Errorf("csv export %s: %w", asset, err)
		}
	}
	return nil
}

func writeFrameCSV(path string, f *indicators.Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	cols := f.Columns()

	header := append([]string{"time", "open", "high", "low", "close", "volume"}, cols...)
	if err := w.Write(header); err != nil {
		return err
	}

	for i, c := range f.Series.Candles {
		row := []string{
			c.Time.UTC().Format(time.RFC3339),
			fl(c.Open), fl(c.High), fl(c.Low), fl(c.Close), fl(c.Volume),
		}
		for _, name := range cols {
			row = append(row, cell(f.At(name, i)))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func cell(v indicators.Value) string {
	if !v.Defined {
		return ""
	}
	return fl(v.F)
}

func fl(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
