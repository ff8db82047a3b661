// Package indicators computes technical indicator columns over an OHLCV
// series. All computations are deterministic pure functions of the
// series and the parameters; the series itself is never mutated.
package indicators

import (
	"fmt"

	"coinscope/market"
)

// Compute runs the requested indicators over the series and returns the
// resulting frame. A malformed series is rejected outright. An unknown
// indicator name is not fatal: it is skipped and reported in the
// returned warnings while the remaining indicators still compute.
func Compute(s *market.Series, requested []string, p Params) (*Frame, []string, error) {
	if err := s.Validate(); err != nil {
		return nil, nil, fmt.Errorf("series %s: %w", assetName(s), err)
	}

	f := NewFrame(s)
	closes := s.Closes()

	var warnings []string
	for _, name := range requested {
		switch name {
		case "ema":
			for _, period := range p.EMAPeriods {
				f.Add(fmt.Sprintf("ema_%d", period), EMA(closes, period))
			}
		case "sma":
			for _, period := range p.SMAPeriods {
				f.Add(fmt.Sprintf("sma_%d", period), SMA(closes, period))
			}
		case "rsi":
			f.Add(fmt.Sprintf("rsi_%d", p.RSIPeriod), RSI(closes, p.RSIPeriod))
		case "macd":
			line, signal, histogram := MACD(closes, p.MACDFast, p.MACDSlow, p.MACDSignal)
			f.Add("macd", line)
			f.Add("macd_signal", signal)
			f.Add("macd_histogram", histogram)
		case "bollinger":
			upper, middle, lower, percentB, bandwidth := Bollinger(closes, p.BollingerPeriod, p.BollingerK)
			f.Add("bb_upper", upper)
			f.Add("bb_middle", middle)
			f.Add("bb_lower", lower)
			f.Add("bb_percent_b", percentB)
			f.Add("bb_bandwidth", bandwidth)
		case "atr":
			f.Add("true_range", TrueRange(s))
			f.Add(fmt.Sprintf("atr_%d", p.ATRPeriod), ATR(s, p.ATRPeriod))
		case "adx":
			adx, plusDI, minusDI, dx := ADX(s, p.ADXPeriod)
			f.Add(fmt.Sprintf("adx_%d", p.ADXPeriod), adx)
			f.Add(fmt.Sprintf("plus_di_%d", p.ADXPeriod), plusDI)
			f.Add(fmt.Sprintf("minus_di_%d", p.ADXPeriod), minusDI)
			f.Add(fmt.Sprintf("dx_%d", p.ADXPeriod), dx)
		case "obv":
			obv := OBV(s)
			f.Add("obv", obv)
			f.Add(fmt.Sprintf("obv_ema_%d", p.OBVEMAPeriod), emaSpan(obv, p.OBVEMAPeriod))
			f.Add(fmt.Sprintf("volume_ma_%d", p.VolumeMAPeriod), SMA(s.Volumes(), p.VolumeMAPeriod))
		default:
			warnings = append(warnings, fmt.Sprintf("unknown indicator %q skipped", name))
		}
	}

	return f, warnings, nil
}

func assetName(s *market.Series) string {
	if s == nil || s.Asset == "" {
		return "?"
	}
	return s.Asset
}
