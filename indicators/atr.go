package indicators

import (
	"math"

	"coinscope/market"
)

// TrueRange computes max(high-low, |high-prevClose|, |low-prevClose|)
// per candle. Index 0 has no previous close and is undefined.
func TrueRange(s *market.Series) []Value {
	out := make([]Value, s.Len())
	for i := 1; i < s.Len(); i++ {
		c := s.Candles[i]
		prevClose := s.Candles[i-1].Close
		tr := math.Max(c.High-c.Low, math.Max(math.Abs(c.High-prevClose), math.Abs(c.Low-prevClose)))
		out[i] = Def(tr)
	}
	return out
}

// ATR smooths the true range with the EMA recurrence (span = period).
func ATR(s *market.Series, period int) []Value {
	return emaSpan(TrueRange(s), period)
}
