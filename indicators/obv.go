package indicators

import "coinscope/market"

// OBV computes On-Balance Volume: a running sum that adds the volume
// when the close rose, subtracts it when it fell and is unchanged
// otherwise. Index 0 contributes zero, so OBV starts at a defined 0.
func OBV(s *market.Series) []Value {
	out := make([]Value, s.Len())
	if s.Len() == 0 {
		return out
	}
	run := 0.0
	out[0] = Def(0)
	for i := 1; i < s.Len(); i++ {
		switch {
		case s.Candles[i].Close > s.Candles[i-1].Close:
			run += s.Candles[i].Volume
		case s.Candles[i].Close < s.Candles[i-1].Close:
			run -= s.Candles[i].Volume
		}
		out[i] = Def(run)
	}
	return out
}
