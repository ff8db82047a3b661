package snapshot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreLoadMissingIsColdStart(t *testing.T) {
	s := NewStore(t.TempDir())

	c, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.Nil(t, c.StateFor("24h"))
}

func TestStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)

	runAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	histAt := runAt.Add(-time.Hour)

	c := &Combined{}
	c.SetHorizon("24h", &HorizonPayload{
		Meta: Meta{
			RunAt:       runAt,
			Horizon:     "24h",
			Granularity: "1h",
			Coins:       []string{"bitcoin", "ethereum"},
			HistoryAt:   &histAt,
		},
		Coins: map[string]*CoinEntry{
			"bitcoin": {Price: 42000, PriceSource: "spot"},
		},
	})
	require.NoError(t, s.Save(c, "24h"))

	got, err := s.Load()
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, []string{"24h"}, got.Meta.Horizons)
	assert.True(t, got.Meta.LastUpdated.Equal(runAt))

	st := got.StateFor("24h")
	require.NotNil(t, st)
	assert.True(t, st.RunAt.Equal(runAt))
	require.NotNil(t, st.HistoryAt)
	assert.True(t, st.HistoryAt.Equal(histAt))
	assert.Nil(t, st.LongStatsAt)

	assert.Nil(t, got.StateFor("7d"))
	assert.InDelta(t, 42000.0, got.Horizons["24h"].Coins["bitcoin"].Price, 1e-9)
}

func TestStoreSaveWritesBackup(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)

	c := &Combined{}
	c.SetHorizon("24h", &HorizonPayload{
		Meta: Meta{RunAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), Horizon: "24h"},
	})
	require.NoError(t, s.Save(c, "24h"))

	_, err := os.Stat(filepath.Join(dir, "latest_snapshot.json"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "snapshot_24h_20240101T120000Z.json"))
	require.NoError(t, err)
}

func TestStoreCorruptFileErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "latest_snapshot.json"), []byte("{not json"), 0o644))

	_, err := NewStore(dir).Load()
	assert.Error(t, err)
}
