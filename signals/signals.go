// Package signals classifies the latest rows of an indicator frame into
// categorical states. Classification never fails: a missing or
// undefined indicator value simply yields no signal for that category,
// and every other category still evaluates.
package signals

import (
	"fmt"

	"coinscope/indicators"
)

// Categorical states. The empty string means "no signal" for the
// category (its source indicator was missing or undefined).
const (
	Overbought = "overbought"
	Oversold   = "oversold"
	Neutral    = "neutral"

	BullishCross = "bullish_cross"
	BearishCross = "bearish_cross"

	Above = "above"
	Below = "below"

	AboveBand = "above_band"
	BelowBand = "below_band"
	Inside    = "inside"

	Strong = "strong"
	Weak   = "weak"

	Up   = "up"
	Down = "down"
	Flat = "flat"
)

// obvTrendWindow is the trailing window compared for the OBV trend.
const obvTrendWindow = 5

// Set holds one state per signal category for a single asset.
type Set struct {
	RSIState      string `json:"rsi_state,omitempty"`
	MACDState     string `json:"macd_state,omitempty"`
	EMACross      string `json:"ema_50_200,omitempty"`
	BBState       string `json:"bb_state,omitempty"`
	TrendStrength string `json:"trend_strength,omitempty"`
	OBVTrend      string `json:"obv_trend,omitempty"`
}

// Classify derives the signal set from the latest frame values. It is a
// pure function; signals are recomputed fresh on every call and never
// cached.
func Classify(f *indicators.Frame, p indicators.Params) Set {
	return Set{
		RSIState:      rsiState(f.Latest(fmt.Sprintf("rsi_%d", p.RSIPeriod))),
		MACDState:     macdState(f),
		EMACross:      emaCross(f),
		BBState:       bbState(f.Latest("bb_percent_b")),
		TrendStrength: trendStrength(f.Latest(fmt.Sprintf("adx_%d", p.ADXPeriod))),
		OBVTrend:      obvTrend(f),
	}
}

func rsiState(v indicators.Value) string {
	switch {
	case !v.Defined:
		return ""
	case v.F > 70:
		return Overbought
	case v.F < 30:
		return Oversold
	default:
		return Neutral
	}
}

// macdState reports a histogram sign flip between the last two rows.
// Fewer than two usable points is neutral, not a missing signal, as
// long as the latest histogram itself is defined.
func macdState(f *indicators.Frame) string {
	n := f.Series.Len()
	cur := f.Latest("macd_histogram")
	if !cur.Defined {
		return ""
	}
	prev := f.At("macd_histogram", n-2)
	if n < 2 || !prev.Defined {
		return Neutral
	}
	switch {
	case cur.F > 0 && prev.F <= 0:
		return BullishCross
	case cur.F < 0 && prev.F >= 0:
		return BearishCross
	default:
		return Neutral
	}
}

func emaCross(f *indicators.Frame) string {
	fast := f.Latest("ema_50")
	slow := f.Latest("ema_200")
	if !fast.Defined || !slow.Defined {
		return ""
	}
	if fast.F > slow.F {
		return Above
	}
	return Below
}

func bbState(v indicators.Value) string {
	switch {
	case !v.Defined:
		return ""
	case v.F > 1:
		return AboveBand
	case v.F < 0:
		return BelowBand
	default:
		return Inside
	}
}

func trendStrength(v indicators.Value) string {
	switch {
	case !v.Defined:
		return ""
	case v.F > 25:
		return Strong
	default:
		return Weak
	}
}

// obvTrend compares the first and last defined OBV values inside the
// trailing window. Fewer than two defined points yields no signal.
func obvTrend(f *indicators.Frame) string {
	col := f.Column("obv")
	if col == nil {
		return ""
	}
	start := len(col) - obvTrendWindow
	if start < 0 {
		start = 0
	}
	var defined []float64
	for _, v := range col[start:] {
		if v.Defined {
			defined = append(defined, v.F)
		}
	}
	if len(defined) < 2 {
		return ""
	}
	first, last := defined[0], defined[len(defined)-1]
	switch {
	case last > first:
		return Up
	case last < first:
		return Down
	default:
		return Flat
	}
}
