package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coinscope/config"
	"coinscope/exporter"
	"coinscope/market"
	"coinscope/snapshot"
)

type stubFetcher struct {
	failCoins map[string]bool
	quotesErr error
}

func (s *stubFetcher) FetchOHLCV(_ context.Context, coin, granularity string, _ int, now time.Time) (*market.Series, error) {
	if s.failCoins[coin] {
		return nil, errors.New("stub fetch failure")
	}
	step := market.GranularityDuration(granularity)
	candles := make([]market.Candle, 48)
	for i := range candles {
		c := 100.0 + float64(i)
		candles[i] = market.Candle{
			Time: now.Add(-time.Duration(len(candles)-i) * step),
			Open: c, High: c + 1, Low: c - 1, Close: c,
			Volume: 100,
		}
	}
	return &market.Series{Asset: coin, Granularity: granularity, Candles: candles}, nil
}

func (s *stubFetcher) FetchMarkets(_ context.Context, coins []string) (map[string]market.Quote, error) {
	if s.quotesErr != nil {
		return nil, s.quotesErr
	}
	out := make(map[string]market.Quote, len(coins))
	for _, c := range coins {
		out[c] = market.Quote{Price: 150, Change24hPct: 1.2}
	}
	return out, nil
}

func testConfig(dir string) *config.Config {
	cfg := config.Default()
	cfg.Coins = []string{"bitcoin", "ethereum"}
	cfg.Horizons = map[string]config.Horizon{
		"24h": {Granularity: market.Granularity1h, LookbackDays: 2},
	}
	cfg.OutputDir = dir
	cfg.SnapshotDir = filepath.Join(dir, "snapshots")
	return cfg
}

func TestRunHorizonEndToEnd(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	store := snapshot.NewStore(cfg.SnapshotDir)

	p := New(cfg, &stubFetcher{}, store, []exporter.Exporter{exporter.NewJSON(dir)}, zerolog.Nop())
	require.NoError(t, p.RunHorizon(context.Background(), "24h", false, false))

	// export landed
	_, err := os.Stat(filepath.Join(dir, "24h", "bitcoin_1h.json"))
	require.NoError(t, err)

	// snapshot landed with both coins and spot prices
	combined, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, combined)
	payload := combined.Horizons["24h"]
	require.NotNil(t, payload)
	assert.Equal(t, []string{"bitcoin", "ethereum"}, payload.Meta.Coins)
	assert.Equal(t, "spot", payload.Coins["bitcoin"].PriceSource)
	require.NotNil(t, payload.Meta.HistoryAt, "cold start rebuilds history")
	require.NotNil(t, payload.Meta.LongStatsAt)
}

func TestRunHorizonSkipsFailingCoin(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	store := snapshot.NewStore(cfg.SnapshotDir)

	f := &stubFetcher{failCoins: map[string]bool{"ethereum": true}}
	p := New(cfg, f, store, nil, zerolog.Nop())
	require.NoError(t, p.RunHorizon(context.Background(), "24h", false, false))

	combined, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"bitcoin"}, combined.Horizons["24h"].Meta.Coins)
}

func TestRunHorizonFailsWhenNoCoinSurvives(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)

	f := &stubFetcher{failCoins: map[string]bool{"bitcoin": true, "ethereum": true}}
	p := New(cfg, f, snapshot.NewStore(cfg.SnapshotDir), nil, zerolog.Nop())
	assert.Error(t, p.RunHorizon(context.Background(), "24h", false, false))
}

func TestRunHorizonToleratesQuoteFailure(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	store := snapshot.NewStore(cfg.SnapshotDir)

	f := &stubFetcher{quotesErr: errors.New("stub markets outage")}
	p := New(cfg, f, store, nil, zerolog.Nop())
	require.NoError(t, p.RunHorizon(context.Background(), "24h", false, false))

	combined, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "candle_close", combined.Horizons["24h"].Coins["bitcoin"].PriceSource)
}

func TestRunUnknownHorizon(t *testing.T) {
	cfg := testConfig(t.TempDir())
	p := New(cfg, &stubFetcher{}, snapshot.NewStore(cfg.SnapshotDir), nil, zerolog.Nop())
	assert.Error(t, p.RunHorizon(context.Background(), "90d", false, false))
}

func TestRunSecondInvocationKeepsSectionStamps(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	store := snapshot.NewStore(cfg.SnapshotDir)

	p := New(cfg, &stubFetcher{}, store, nil, zerolog.Nop())

	first := time.Date(2024, 1, 1, 11, 5, 0, 0, time.UTC)
	p.now = func() time.Time { return first }
	require.NoError(t, p.RunHorizon(context.Background(), "24h", false, false))

	// ten minutes later, same hour bucket: nothing optional refreshes
	p.now = func() time.Time { return first.Add(10 * time.Minute) }
	require.NoError(t, p.RunHorizon(context.Background(), "24h", false, false))

	combined, err := store.Load()
	require.NoError(t, err)
	meta := combined.Horizons["24h"].Meta
	assert.True(t, meta.RunAt.Equal(first.Add(10*time.Minute)))
	require.NotNil(t, meta.HistoryAt)
	assert.True(t, meta.HistoryAt.Equal(first), "history stamp survives a skipped refresh")
}
