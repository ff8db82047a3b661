package exporter

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coinscope/indicators"
	"coinscope/market"
	"coinscope/signals"
)

func testReport(t *testing.T) *Report {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	closes := []float64{100, 101, 102, 103, 104, 105}
	candles := make([]market.Candle, len(closes))
	for i, c := range closes {
		candles[i] = market.Candle{
			Time: base.Add(time.Duration(i) * time.Hour),
			Open: c, High: c + 1, Low: c - 1, Close: c,
			Volume: 50,
		}
	}
	s := &market.Series{Asset: "bitcoin", Granularity: market.Granularity1h, Candles: candles}
	f, _, err := indicators.Compute(s, []string{"sma"}, indicators.Params{SMAPeriods: []int{3}})
	require.NoError(t, err)

	return &Report{
		RunID:        "01HTEST",
		Horizon:      "24h",
		Granularity:  market.Granularity1h,
		GeneratedAt:  base.Add(6 * time.Hour),
		LookbackDays: 1,
		Frames:       map[string]*indicators.Frame{"bitcoin": f},
		Signals:      map[string]signals.Set{"bitcoin": {RSIState: signals.Neutral}},
	}
}

func TestCSVExport(t *testing.T) {
	dir := t.TempDir()
	r := testReport(t)

	require.NoError(t, NewCSV(dir).Export(context.Background(), r))

	file, err := os.Open(filepath.Join(dir, "24h", "bitcoin_1h.csv"))
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 7) // header + 6 candles

	assert.Equal(t, []string{"time", "open", "high", "low", "close", "volume", "sma_3"}, rows[0])
	// warmup rows carry empty cells
	assert.Equal(t, "", rows[1][6])
	assert.Equal(t, "", rows[2][6])
	assert.Equal(t, "101", rows[3][6])
	assert.Equal(t, "104", rows[6][6])
}

func TestJSONExport(t *testing.T) {
	dir := t.TempDir()
	r := testReport(t)

	require.NoError(t, NewJSON(dir).Export(context.Background(), r))

	data, err := os.ReadFile(filepath.Join(dir, "24h", "bitcoin_1h.json"))
	require.NoError(t, err)

	var doc struct {
		RunID  string `json:"run_id"`
		Asset  string `json:"asset"`
		Rows   []struct {
			Indicators map[string]*float64 `json:"indicators"`
		} `json:"rows"`
		Latest struct {
			Close      float64             `json:"close"`
			Indicators map[string]*float64 `json:"indicators"`
		} `json:"latest"`
		Signals struct {
			RSIState string `json:"rsi_state"`
		} `json:"signals"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "01HTEST", doc.RunID)
	assert.Equal(t, "bitcoin", doc.Asset)
	require.Len(t, doc.Rows, 6)
	assert.Nil(t, doc.Rows[0].Indicators["sma_3"], "warmup serializes as null")
	require.NotNil(t, doc.Rows[5].Indicators["sma_3"])
	assert.InDelta(t, 104.0, *doc.Rows[5].Indicators["sma_3"], 1e-9)
	assert.InDelta(t, 105.0, doc.Latest.Close, 1e-9)
	assert.Equal(t, "neutral", doc.Signals.RSIState)
}

func TestSQLiteExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.db")
	r := testReport(t)

	e, err := NewSQLite(path)
	require.NoError(t, err)
	defer e.Close()

	require.NoError(t, e.Export(context.Background(), r))
	// re-export must not conflict
	require.NoError(t, e.Export(context.Background(), r))

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var candles int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM candles`).Scan(&candles))
	assert.Equal(t, 6, candles)

	var defined int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM indicator_values WHERE name = 'sma_3' AND value IS NOT NULL`,
	).Scan(&defined))
	assert.Equal(t, 4, defined)

	var latest float64
	require.NoError(t, db.QueryRow(
		`SELECT value FROM indicator_values WHERE name = 'sma_3' ORDER BY time DESC LIMIT 1`,
	).Scan(&latest))
	assert.InDelta(t, 104.0, latest, 1e-9)
}
