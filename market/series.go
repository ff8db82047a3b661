package market

import (
	"fmt"
	"time"
)

// Supported candle granularities.
const (
	Granularity1h = "1h"
	Granularity4h = "4h"
	Granularity1d = "1d"
)

// GranularityDuration returns the nominal candle spacing. Unknown
// granularities fall back to one hour.
func GranularityDuration(g string) time.Duration {
	switch g {
	case Granularity4h:
		return 4 * time.Hour
	case Granularity1d:
		return 24 * time.Hour
	default:
		return time.Hour
	}
}

// ValidGranularity reports whether g is one of the supported granularities.
func ValidGranularity(g string) bool {
	switch g {
	case Granularity1h, Granularity4h, Granularity1d:
		return true
	}
	return false
}

// Series is an ordered OHLCV time series for one asset. The indicator
// engine only reads it; the producer (the fetcher) owns the slice.
type Series struct {
	Asset       string
	Granularity string
	Candles     []Candle
}

func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Candles)
}

// Validate rejects a malformed series: nil, per-candle OHLC violations,
// or timestamps that are not strictly increasing.
func (s *Series) Validate() error {
	if s == nil {
		return fmt.Errorf("nil series")
	}
	for i, c := range s.Candles {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("candle %d: %w", i, err)
		}
		if i > 0 && !c.Time.After(s.Candles[i-1].Time) {
			return fmt.Errorf("candle %d: timestamp %s not after previous %s",
				i, c.Time.Format(time.RFC3339), s.Candles[i-1].Time.Format(time.RFC3339))
		}
	}
	return nil
}

// Closes returns the close prices in series order.
func (s *Series) Closes() []float64 {
	out := make([]float64, s.Len())
	for i, c := range s.Candles {
		out[i] = c.Close
	}
	return out
}

// Volumes returns the volumes in series order.
func (s *Series) Volumes() []float64 {
	out := make([]float64, s.Len())
	for i, c := range s.Candles {
		out[i] = c.Volume
	}
	return out
}
