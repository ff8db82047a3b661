package exporter

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"coinscope/signals"
)

// JSONExporter writes one document per asset under <dir>/<horizon>/,
// with run metadata, the full indicator rows and the latest signal
// states. Undefined values serialize as null.
type JSONExporter struct {
	dir string
}

func NewJSON(dir string) *JSONExporter {
	return &JSONExporter{dir: dir}
}

func (e *JSONExporter) Name() string { return "json" }

type jsonDoc struct {
	RunID        string      `json:"run_id"`
	Asset        string      `json:"asset"`
	Horizon      string      `json:"horizon"`
	Granularity  string      `json:"granularity"`
	GeneratedAt  time.Time   `json:"generated_at"`
	LookbackDays int         `json:"lookback_days"`
	Rows         []jsonRow   `json:"rows"`
	Latest       jsonLatest  `json:"latest"`
	Signals      signals.Set `json:"signals"`
}

type jsonRow struct {
	Time       time.Time           `json:"time"`
	Open       float64             `json:"open"`
	High       float64             `json:"high"`
	Low        float64             `json:"low"`
	Close      float64             `json:"close"`
	Volume     float64             `json:"volume"`
	Indicators map[string]*float64 `json:"indicators"`
}

type jsonLatest struct {
	Close      float64             `json:"close"`
	Indicators map[string]*float64 `json:"indicators"`
}

func (e *JSONExporter) Export(ctx context.Context, r *Report) error {
	dir := filepath.Join(e.dir, r.Horizon)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("json export: %w", err)
	}

	for _, asset := range r.Assets() {
		if err := ctx.Err(); err != nil {
			return err
		}
		doc := buildDoc(r, asset)
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("json export %s: %w", asset, err)
		}
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.json", asset, r.Granularity))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("json export %s: %w", asset, err)
		}
	}
	return nil
}

func buildDoc(r *Report, asset string) jsonDoc {
	f := r.Frames[asset]
	cols := f.Columns()

	rows := make([]jsonRow, 0, f.Series.Len())
	for i, c := range f.Series.Candles {
		vals := make(map[string]*float64, len(cols))
		for _, name := range cols {
			vals[name] = f.At(name, i).Ptr()
		}
		rows = append(rows, jsonRow{
			Time: c.Time.UTC(), Open: c.Open, High: c.High, Low: c.Low,
			Close: c.Close, Volume: c.Volume, Indicators: vals,
		})
	}

	latest := jsonLatest{Indicators: make(map[string]*float64, len(cols))}
	if n := f.Series.Len(); n > 0 {
		latest.Close = f.Series.Candles[n-1].Close
	}
	for _, name := range cols {
		latest.Indicators[name] = f.Latest(name).Ptr()
	}

	return jsonDoc{
		RunID:        r.RunID,
		Asset:        asset,
		Horizon:      r.Horizon,
		Granularity:  r.Granularity,
		GeneratedAt:  r.GeneratedAt,
		LookbackDays: r.LookbackDays,
		Rows:         rows,
		Latest:       latest,
		Signals:      r.Signals[asset],
	}
}
