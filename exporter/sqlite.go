package exporter

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteExporter upserts candles and indicator values into a SQLite
// database, so repeated runs over overlapping windows stay idempotent.
type SQLiteExporter struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteExporter, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteExporter{db: db}, nil
}

func (e *SQLiteExporter) Name() string { return "sqlite" }

func (e *SQLiteExporter) Export(ctx context.Context, r *Report) error {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs
		(run_id, horizon, granularity, generated_at, lookback_days)
		VALUES (?, ?, ?, ?, ?)`,
		r.RunID, r.Horizon, r.Granularity,
		r.GeneratedAt.UTC().Format(time.RFC3339), r.LookbackDays,
	); err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	candleStmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO candles
		(asset, horizon, time, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer candleStmt.Close()

	valueStmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO indicator_values
		(asset, horizon, time, name, value)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer valueStmt.Close()

	for _, asset := range r.Assets() {
		f := r.Frames[asset]
		cols := f.Columns()

		for i, c := range f.Series.Candles {
			ts := c.Time.UTC().Format(time.RFC3339)
			if _, err := candleStmt.ExecContext(ctx, asset, r.Horizon, ts,
				c.Open, c.High, c.Low, c.Close, c.Volume); err != nil {
				return fmt.Errorf("insert candle %s: %w", asset, err)
			}
			for _, name := range cols {
				var val any
				if v := f.At(name, i); v.Defined {
					val = v.F
				}
				if _, err := valueStmt.ExecContext(ctx, asset, r.Horizon, ts, name, val); err != nil {
					return fmt.Errorf("insert value %s/%s: %w", asset, name, err)
				}
			}
		}
	}

	return tx.Commit()
}

func (e *SQLiteExporter) Close() error {
	return e.db.Close()
}
