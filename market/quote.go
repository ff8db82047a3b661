package market

import "time"

// Quote is a point-in-time market snapshot for one asset, as returned by
// the markets endpoint. It supplements the candle series with spot data
// when building snapshots.
type Quote struct {
	Price        float64
	MarketCap    float64
	Volume24h    float64
	Change24hPct float64
	UpdatedAt    time.Time
}
