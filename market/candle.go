// Package market holds the candle and series data model shared by the
// fetcher, the indicator engine and the exporters.
package market

import (
	"fmt"
	"math"
	"time"
)

// Candle represents one OHLCV bucket.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Validate checks the OHLC invariants: all fields finite, volume
// non-negative, low <= open,close <= high.
func (c Candle) Validate() error {
	for _, v := range [...]float64{c.Open, c.High, c.Low, c.Close, c.Volume} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("non-finite value in candle at %s", c.Time.Format(time.RFC3339))
		}
	}
	if c.Volume < 0 {
		return fmt.Errorf("negative volume %g at %s", c.Volume, c.Time.Format(time.RFC3339))
	}
	if c.Low > c.High {
		return fmt.Errorf("low %g above high %g at %s", c.Low, c.High, c.Time.Format(time.RFC3339))
	}
	if c.Open < c.Low || c.Open > c.High {
		return fmt.Errorf("open %g outside [low, high] at %s", c.Open, c.Time.Format(time.RFC3339))
	}
	if c.Close < c.Low || c.Close > c.High {
		return fmt.Errorf("close %g outside [low, high] at %s", c.Close, c.Time.Format(time.RFC3339))
	}
	return nil
}
