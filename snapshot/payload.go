// Package snapshot maintains the compact, periodically regenerated
// payload of current signals, and the freshness policy deciding how
// much of it to rebuild on each run.
package snapshot

import (
	"sort"
	"time"

	"coinscope/signals"
)

// Meta describes one horizon payload and doubles as its persisted
// freshness record.
type Meta struct {
	RunAt       time.Time  `json:"run_timestamp"`
	Horizon     string     `json:"horizon"`
	Granularity string     `json:"granularity"`
	Coins       []string   `json:"coins_tracked"`
	HistoryAt   *time.Time `json:"history_last_updated,omitempty"`
	LongStatsAt *time.Time `json:"long_stats_last_updated,omitempty"`
}

// State extracts the freshness record from the meta section.
func (m Meta) State() *State {
	return &State{RunAt: m.RunAt, HistoryAt: m.HistoryAt, LongStatsAt: m.LongStatsAt}
}

// CrossAsset holds the comparative rankings, each an ordered list of
// asset identifiers.
type CrossAsset struct {
	TopMomentum      []string `json:"top_momentum"`
	TopVolume        []string `json:"top_volume"`
	LowestVolatility []string `json:"lowest_volatility"`
}

// PricePoint is one entry of the close-price history array.
type PricePoint struct {
	Time  time.Time `json:"t"`
	Close float64   `json:"c"`
}

// CoinEntry is the per-asset section of a horizon payload.
type CoinEntry struct {
	Price       float64 `json:"price"`
	PriceSource string  `json:"price_source"`

	PctChange map[string]float64 `json:"pct_change,omitempty"`

	MarketCapUSD float64 `json:"market_cap_usd,omitempty"`
	Volume24hUSD float64 `json:"volume_24h_usd,omitempty"`

	RSI      *float64 `json:"rsi,omitempty"`
	MACDHist *float64 `json:"macd_hist,omitempty"`
	PercentB *float64 `json:"bb_percent_b,omitempty"`
	ADX      *float64 `json:"adx,omitempty"`
	ATRPct   *float64 `json:"atr_pct,omitempty"`

	Signals signals.Set `json:"signals"`

	PriceHistory     []PricePoint          `json:"price_history,omitempty"`
	IndicatorHistory map[string][]*float64 `json:"indicator_history,omitempty"`
}

// HorizonPayload is the snapshot section for one horizon.
type HorizonPayload struct {
	Meta       Meta                  `json:"meta"`
	CrossAsset CrossAsset            `json:"cross_asset"`
	Coins      map[string]*CoinEntry `json:"coins"`
}

// Combined is the full snapshot file: one payload per horizon plus
// top-level metadata.
type Combined struct {
	Meta     CombinedMeta               `json:"meta"`
	Horizons map[string]*HorizonPayload `json:"horizons"`
}

// CombinedMeta is the top-level metadata of the combined snapshot.
type CombinedMeta struct {
	LastUpdated time.Time `json:"last_updated"`
	Horizons    []string  `json:"horizons_present"`
	Coins       []string  `json:"coins_tracked"`
}

// StateFor returns the persisted freshness record for a horizon, or nil
// when the horizon has never been written.
func (c *Combined) StateFor(horizon string) *State {
	if c == nil {
		return nil
	}
	p, ok := c.Horizons[horizon]
	if !ok {
		return nil
	}
	return p.Meta.State()
}

// SetHorizon stores a horizon payload and refreshes the top-level meta.
func (c *Combined) SetHorizon(horizon string, p *HorizonPayload) {
	if c.Horizons == nil {
		c.Horizons = make(map[string]*HorizonPayload)
	}
	c.Horizons[horizon] = p

	names := make([]string, 0, len(c.Horizons))
	for name := range c.Horizons {
		names = append(names, name)
	}
	sort.Strings(names)

	c.Meta = CombinedMeta{
		LastUpdated: p.Meta.RunAt,
		Horizons:    names,
		Coins:       p.Meta.Coins,
	}
}
