package exporter

// Schema creates the analysis tables. Idempotent, applied on every
// open.
const Schema = `
CREATE TABLE IF NOT EXISTS runs (
    run_id        TEXT PRIMARY KEY,
    horizon       TEXT NOT NULL,
    granularity   TEXT NOT NULL,
    generated_at  TEXT NOT NULL,
    lookback_days INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS candles (
    asset       TEXT NOT NULL,
    horizon     TEXT NOT NULL,
    time        TEXT NOT NULL,
    open        REAL NOT NULL,
    high        REAL NOT NULL,
    low         REAL NOT NULL,
    close       REAL NOT NULL,
    volume      REAL NOT NULL,
    PRIMARY KEY (asset, horizon, time)
);

CREATE TABLE IF NOT EXISTS indicator_values (
    asset       TEXT NOT NULL,
    horizon     TEXT NOT NULL,
    time        TEXT NOT NULL,
    name        TEXT NOT NULL,
    value       REAL,
    PRIMARY KEY (asset, horizon, time, name)
);

CREATE INDEX IF NOT EXISTS idx_indicator_values_name
    ON indicator_values (asset, horizon, name);
`
